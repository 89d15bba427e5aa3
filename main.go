package main

import "github.com/alec-rabold/zipfix/cmd"

// version is set during build
var version = "dev"

func main() {
	cmd.Execute(version)
}
