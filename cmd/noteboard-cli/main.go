package main

import "noteboard/cmd/noteboard-cli/cmd"

func main() {
	cmd.Execute()
}
