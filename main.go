// Package main is the entry point for the yle-dl application.
package main

import "github.com/ElijahAhianyo/yle-dl/cmd"

func main() {
	cmd.Execute()
}
