package main

import "github.com/agushin101/WindSE/cmd"

func main() {
	cmd.Execute()
}
