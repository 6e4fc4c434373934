/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/super-gamer/apiserver/cmd"

func main() {
	cmd.Execute()
}
