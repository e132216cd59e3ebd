package main

import "github.com/waview/waview/internal/cmd"

func main() {
	cmd.Execute()
}
