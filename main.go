package main

import "github.com/secretgate/secretgate/cmd/secretgate"

func main() { secretgate.Execute() }
