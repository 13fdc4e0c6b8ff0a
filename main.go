package main

import "github.com/kamusis/zearch/cmd"

func main() {
	cmd.Execute()
}
