package main

import "parsort/cmd"

func main() {
	cmd.Execute()
}
