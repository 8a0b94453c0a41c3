package main

import "github.com/ethanolivertroy/ffufai/cmd"

func main() {
	cmd.Execute()
}
