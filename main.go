package main

import "reviewdash/cmd"

func main() {
	cmd.Execute()
}
