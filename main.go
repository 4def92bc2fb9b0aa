package main

import "github.com/will-rowe/sigsub/cmd"

func main() {
	cmd.Execute()
}
