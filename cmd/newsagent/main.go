package main

import "github.com/AK067CSE/newsagent/cmd/newsagent/cli"

func main() {
	cli.Execute()
}
