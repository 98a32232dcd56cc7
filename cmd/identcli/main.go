package main

//go-build: CGO_ENABLED=0

import (
	"github.com/robotalks/ident.go/pkg/cli/sh"

	_ "github.com/robotalks/ident.go/pkg/cli/cmds/console"
)

func main() {
	sh.Main()
}
