package main

import "github.com/brogergvhs/panelcut/cmd"

func main() {
	cmd.Execute()
}
