package main

import (
	"github.com/vietddude/syncrunner/internal/cli"
)

func main() {
	cli.Execute()
}
