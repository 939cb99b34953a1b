package main

import "flowbuilder/cmd/flowbuilder-cli/cmd"

func main() {
	cmd.Execute()
}
