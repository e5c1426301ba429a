package main

import "github.com/andrescamacho/officesim-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
