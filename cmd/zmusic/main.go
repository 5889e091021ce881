package main

import "github.com/zmusic/zmusic/internal/cli"

func main() {
	cli.Execute()
}
