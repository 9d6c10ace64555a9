package main

import "github.com/kasuboski/snatcher/cmd"

func main() {
	cmd.Execute()
}
