package main

import "github.com/wealthpath/wealthpath/cmd"

func main() {
	cmd.Execute()
}
