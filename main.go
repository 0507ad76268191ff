package main

import "github.com/mwpearce/scriptorium/cmd"

func main() {
	cmd.Execute()
}
