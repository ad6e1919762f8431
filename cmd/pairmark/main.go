// Package main provides the pairmark CLI.
package main

import "github.com/mesh-intelligence/pairmark/internal/cli"

func main() {
	cli.Execute()
}
