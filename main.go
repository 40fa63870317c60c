package main

import "weekend-match-api/core/cli"

func main() {
	cli.Execute()
}
