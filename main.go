package main

import "groupstatus/cmd"

func main() {
	cmd.Execute()
}
