package main

import "vacancy-match/cmd/matchctl/cmd"

func main() {
	cmd.Execute()
}
