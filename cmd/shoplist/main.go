// Command shoplist is a terminal client for the shopping list API.
//
// Configuration comes from the environment (SHOPLIST_API_URL,
// SHOPLIST_PAGE_SIZE, ...). Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/shoplist-backend/internal/app"
	"github.com/heartmarshall/shoplist-backend/internal/cli"
	"github.com/heartmarshall/shoplist-backend/internal/client"
	"github.com/heartmarshall/shoplist-backend/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.New(color.FgRed).Sprint("Error:"), err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}
	if cfg.NoColor {
		color.NoColor = true
	}

	logger := app.NewLogger(config.LogConfig{Level: cfg.LogLevel, Format: "text"})

	c, err := client.New(cfg.APIURL, cfg.Timeout, logger)
	if err != nil {
		return err
	}
	c.WithUserAgent(app.UserAgent())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(app.Version, &cli.Env{
		Client:   c,
		PageSize: cfg.PageSize,
		Clock:    clockwork.NewRealClock(),
		Logger:   logger,
	})
	return cli.Explain(root.ExecuteContext(ctx), cfg.APIURL)
}
