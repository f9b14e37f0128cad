package main

import "github.com/mhartmann/frankenevents/internal/cli"

func main() {
	cli.Execute()
}
