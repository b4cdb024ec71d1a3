package main

import "github.com/JOHNINDAKWA/coverly/cmd"

func main() {
	cmd.Execute()
}
