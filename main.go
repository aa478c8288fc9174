package main

import "sfxpool/cmd"

func main() {
	cmd.Execute()
}
