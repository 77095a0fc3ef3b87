package main

import "github.com/KaramelBytes/salescope/cmd"

func main() {
	cmd.Execute()
}
