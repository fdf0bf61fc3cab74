package main

import (
	"github.com/MrJamesThe3rd/planora/internal/cli"
)

func main() {
	cli.Execute()
}
