package main

import (
	"os"

	"github.com/ds-destinationsolutions/cdk-nextjs/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
