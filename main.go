package main

import "tech-debt-manager/src/handler/cli"

func main() {
	cli.Run()
}
