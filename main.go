package main

import "github.com/dmarkovic/invoice-tracking/cmd"

func main() {
	cmd.Execute()
}
