package main

import "github.com/crystaldolphin/toolchat/cmd"

func main() {
	cmd.Execute()
}
