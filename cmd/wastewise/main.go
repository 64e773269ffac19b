package main

import "github.com/nfrund/wastewise/cmd/wastewise/cmd"

func main() {
	cmd.Execute()
}
