package main

import "github.com/rpgo/retirement-planner/cmd"

func main() {
	cmd.Execute()
}
