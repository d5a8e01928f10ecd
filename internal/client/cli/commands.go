package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/pflag"
)

func (a *App) commands() []*Command {
	return []*Command{
		{
			Name:    "init-config",
			Summary: "create the fee config; the caller becomes its authority",
			Usage:   "init-config --price N --treasury ID",
			Flags: func() *pflag.FlagSet {
				fs := pflag.NewFlagSet("init-config", pflag.ContinueOnError)
				fs.Uint64("price", 0, "fee charged per capsule")
				fs.String("treasury", "", "identity receiving fees")
				return fs
			},
			Run: a.initConfig,
		},
		{Name: "update-price", Summary: "change the fee (authority only)", Usage: "update-price N", Run: a.updatePrice},
		{Name: "config", Summary: "show the current fee config", Usage: "config", Run: a.showConfig},
		{Name: "fund", Summary: "credit an account (authority only)", Usage: "fund ID AMOUNT", Run: a.fund},
		{Name: "balance", Summary: "show an account balance", Usage: "balance [ID]", Run: a.balance},
		{
			Name:    "create",
			Summary: "seal a message into a new capsule",
			Usage:   "create --recipient EMAIL (--unlock-at RFC3339 | --unlock-in DURATION) [--title T] [--hint H] [--message M]",
			Flags: func() *pflag.FlagSet {
				fs := pflag.NewFlagSet("create", pflag.ContinueOnError)
				fs.String("recipient", "", "recipient e-mail (only its hash is sent)")
				fs.String("unlock-at", "", "unlock time, RFC3339")
				fs.Duration("unlock-in", 0, "unlock after this long")
				fs.String("title", "", "message title")
				fs.String("hint", "", "password hint shown to anyone")
				fs.StringP("message", "m", "", "message text; prompted for when empty")
				fs.String("treasury", "", "treasury identity; read from the server config when empty")
				return fs
			},
			Run: a.create,
		},
		{
			Name:    "retrieve",
			Summary: "fetch and open an unlocked capsule",
			Usage:   "retrieve [--raw] CAPSULE_ID",
			Flags: func() *pflag.FlagSet {
				fs := pflag.NewFlagSet("retrieve", pflag.ContinueOnError)
				fs.Bool("raw", false, "print the sealed text without opening it")
				return fs
			},
			Run: a.retrieve,
		},
		{Name: "claim", Summary: "mark an unlocked capsule claimed", Usage: "claim CAPSULE_ID", Run: a.claim},
		{Name: "info", Summary: "show public capsule metadata", Usage: "info CAPSULE_ID", Run: a.info},
		{
			Name:    "list",
			Summary: "list your capsules",
			Usage:   "list [--local]",
			Flags: func() *pflag.FlagSet {
				fs := pflag.NewFlagSet("list", pflag.ContinueOnError)
				fs.Bool("local", false, "only read the local journal")
				return fs
			},
			Run: a.list,
		},
	}
}

func exactArgs(args []string, n int, usage string) error {
	if len(args) != n {
		return fmt.Errorf("usage: %s", usage)
	}
	return nil
}

func parseAmount(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return v, nil
}

func formatTime(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(time.RFC3339)
}
