package main

import (
	"context"
	"os"

	"github.com/goliatone/go-docbind/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background()))
}
