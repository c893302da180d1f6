package main

import "shoplist/cmd"

func main() {
	cmd.Execute()
}
