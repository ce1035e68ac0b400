package main

import "github.com/lectorio/lectorio/cli"

func main() {
	cli.Execute()
}
