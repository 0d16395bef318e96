package main

import "github.com/turbulenz/typescript/cmd"

func main() {
	cmd.Execute()
}
