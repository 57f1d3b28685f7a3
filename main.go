package main

import "github.com/rnwolfe/habits/cmd"

func main() {
	cmd.Execute()
}
