package main

import "github.com/truemediaorg/postanalyzer/cmd"

func main() {
	cmd.Execute()
}
