package main

import "github.com/joeree/Church-Financial-Accountability/cfa/cmd"

func main() {
	cmd.Execute()
}
