package main

import (
	"os"

	"github.com/dshills/tidyreport/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
