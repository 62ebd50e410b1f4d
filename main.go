package main

import "github.com/kamusis/dexkit/cmd"

func main() {
	cmd.Execute()
}
