package main

import (
	"github.com/dual-finance/soengine/internal/cli"
)

func main() {
	cli.Execute()
}
