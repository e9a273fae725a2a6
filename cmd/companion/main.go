package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taiwoajasa245/verse-companion/internal/app"
	"github.com/taiwoajasa245/verse-companion/internal/explain"
	"github.com/taiwoajasa245/verse-companion/pkg/config"
	"github.com/taiwoajasa245/verse-companion/pkg/logger"
)

// cli carries the state shared by every command of one invocation.
type cli struct {
	cfg    *config.Config
	log    *zap.Logger
	opener explain.Opener
	app    *app.App

	ephemeral bool
	driver    string
	path      string
}

func main() {
	c := &cli{cfg: config.LoadConfig(), log: logger.Quiet()}
	defer c.log.Sync()

	root := newRootCmd(c)
	err := root.Execute()
	if cerr := c.close(); cerr != nil {
		fmt.Fprintln(os.Stderr, "warning: changes may not have been saved:", cerr)
	}
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "companion",
		Short: "Verse Companion - daily verses, search and saved verses in your terminal",
		Long: `Verse Companion keeps your saved verses, preferred translation and
search history on this machine.

Storage is configured with STORAGE_DRIVER (file, sqlite, postgres) and
STORAGE_PATH, or overridden with --storage and --path.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.open(cmd.Context())
		},
	}

	root.PersistentFlags().BoolVar(&c.ephemeral, "ephemeral", false, "keep state in memory only")
	root.PersistentFlags().StringVar(&c.driver, "storage", "", "storage driver (file, sqlite, postgres)")
	root.PersistentFlags().StringVar(&c.path, "path", "", "storage path")

	root.AddCommand(
		dailyCmd(c),
		searchCmd(c),
		historyCmd(c),
		savedCmd(c),
		saveCmd(c),
		unsaveCmd(c),
		toggleCmd(c),
		translationCmd(c),
		translationsCmd(c),
		booksCmd(c),
		readCmd(c),
		explainCmd(c),
		askCmd(c),
		stateCmd(c),
	)
	return root
}

func (c *cli) open(ctx context.Context) error {
	if c.app != nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := *c.cfg
	if c.driver != "" {
		cfg.StorageDriver = c.driver
	}
	if c.path != "" {
		cfg.StoragePath = c.path
	}
	if c.ephemeral {
		cfg.StorageDriver = "memory"
	}

	var opts []app.Option
	if c.opener != nil {
		opts = append(opts, app.WithOpener(c.opener))
	}

	a, err := app.New(ctx, &cfg, c.log, opts...)
	if err != nil {
		return err
	}
	c.app = a
	return nil
}

// close waits for the write-behind to land; the process exits right after.
func (c *cli) close() error {
	if c.app == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := c.app.Close(ctx)
	c.app = nil
	return err
}
