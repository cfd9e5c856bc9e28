package main

import "scenehub/cmd/cli/command"

func main() {
	command.Execute()
}
