package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/walletkeeper/internal/client/cli"
	"github.com/dmitrijs2005/walletkeeper/internal/client/config"
)

func main() {

	ctx := context.Background()

	cfg, args, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	app, err := cli.NewApp(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	os.Exit(cli.Fail(app.Run(ctx, args)))
}
