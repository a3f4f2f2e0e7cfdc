package main

import "github.com/khrees2412/stageconnect/cmd"

func main() {
	cmd.Execute()
}
