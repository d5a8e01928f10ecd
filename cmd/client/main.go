// Command client is the gophcapsule CLI.
//
//	client [--server host:port] [--token T] [--journal path] [-c file] COMMAND [args]
//
// Without COMMAND it starts an interactive prompt.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophcapsule/internal/client/cli"
	"github.com/dmitrijs2005/gophcapsule/internal/client/config"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("client", pflag.ContinueOnError)
	// stop at the first positional so subcommand flags are left alone
	fs.SetInterspersed(false)

	flags := &config.Flags{}
	flags.Bind(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	return app.Run(ctx, fs.Args())
}
