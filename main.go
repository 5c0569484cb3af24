package main

import "github.com/aitp-labs/aitp-server/cmd"

func main() {
	cmd.Execute()
}
