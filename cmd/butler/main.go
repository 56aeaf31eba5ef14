// Package main provides the butler command line interface: a prompt
// template manager that stores prompts as markdown files with YAML
// front-matter, organized into group directories.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
