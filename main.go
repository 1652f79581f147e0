package main

import "doc-reconciler/cmd"

func main() {
	cmd.Execute()
}
