package main

import (
	"github.com/khemingkapat/vlrinspect/cmd/vlrinspect/cmd"
)

func main() {
	cmd.Execute()
}
