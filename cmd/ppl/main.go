package main

import "github.com/2beens/ppltracker/cmd/ppl/cmd"

func main() {
	cmd.Execute()
}
