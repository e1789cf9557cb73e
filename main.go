package main

import "github.com/KaramelBytes/eda-cli/cmd"

func main() {
	cmd.Execute()
}
