package main

import (
	"context"
	"os"

	"github.com/dmitrijs2005/ideabank/internal/admin/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background()))
}
