package main

import "refraction/cmd"

func main() {
	cmd.Execute()
}
