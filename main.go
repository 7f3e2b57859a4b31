package main

import "plotextract/cmd"

func main() {
	cmd.Execute()
}
