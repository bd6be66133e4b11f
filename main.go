package main

import "github.com/chriscastillo1/wordle/internal/cli"

func main() {
	cli.Execute()
}
