package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/invoicekeeper/internal/cli"
	"github.com/dmitrijs2005/invoicekeeper/internal/config"
	"github.com/dmitrijs2005/invoicekeeper/internal/flagx"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := cli.NewApp(ctx, cfg, os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		log.Printf("%v", err)
		return 1
	}
	defer app.Close()

	args := flagx.Positionals(os.Args[1:], config.ValueFlags)
	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, cli.ErrUsage) || errors.Is(err, cli.ErrUnknownCommand) {
			return 2
		}
		return 1
	}
	return 0
}
