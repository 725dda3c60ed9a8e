package main

import "github.com/orderflow/orderflow/cmd/orderflow/commands"

func main() {
	commands.Execute()
}
