package main

import "github.com/hlra-health/profilesync/cmd/profilesync/command"

func main() {
	command.Execute()
}
