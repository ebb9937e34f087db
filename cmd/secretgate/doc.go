// Package secretgate provides the command-line interface for the secretgate
// tool. It configures subcommands (gate, policy, validators, ci), parses
// flags, and executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/secretgate/secretgate/cmd/secretgate"
//	func main() { secretgate.Execute() }
package secretgate
