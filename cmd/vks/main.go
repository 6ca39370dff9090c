package main

import "github.com/vkshell/vkshell/cmd/vks/cmd"

func main() {
	cmd.Execute()
}
