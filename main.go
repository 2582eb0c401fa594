package main

import "github.com/wego-track/tracker/cmd"

func main() {
	cmd.Execute()
}
