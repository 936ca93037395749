package main

import "github.com/divergeconnect/connect/internal/cli"

func main() {
	cli.Execute()
}
