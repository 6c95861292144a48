package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/devexolix/edge-exchange-plugins/cmd"
)

func main() {
	// A .env file is optional; environment variables alone are fine.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
