package main

import "github.com/bengin34/rightyLove/cmd"

func main() {
	cmd.Run()
}
