package main

import "github.com/atikulmunna/piqlog/internal/cmd"

func main() {
	cmd.Execute()
}
