// The main package for the fitfindr-server executable.
package main

import (
	// Load .env into the environment before anything reads configuration.
	_ "github.com/joho/godotenv/autoload"

	"github.com/fitfindr/fitfindr-server/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
