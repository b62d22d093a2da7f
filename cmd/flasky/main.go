// Package main provides the flasky CLI application.
// flasky manages the lifecycle of the flasky social blogging application.
package main

import "github.com/gnames/flasky/cmd"

func main() {
	cmd.Execute()
}
