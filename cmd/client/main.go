package main

import "cleanspot/cmd/client/cmd"

func main() {
	cmd.Execute()
}
