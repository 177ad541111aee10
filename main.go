package main

import "kpnews/cmd"

func main() {
	cmd.Execute()
}
