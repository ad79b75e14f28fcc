package main

import "github.com/example/deskbooker/cmd"

func main() {
	cmd.Execute()
}
