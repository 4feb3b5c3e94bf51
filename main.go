package main

import "github.com/gicheruj/birthday-present/cmd"

func main() {
	cmd.Execute()
}
