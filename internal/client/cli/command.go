package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
)

// Command is one subcommand of the CLI.
type Command struct {
	Name    string
	Summary string
	Usage   string

	// Flags returns a fresh flag set; nil means the command takes no flags.
	Flags func() *pflag.FlagSet

	Run func(ctx context.Context, fs *pflag.FlagSet, args []string) error
}

func (c *Command) execute(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet(c.Name, pflag.ContinueOnError)
	if c.Flags != nil {
		fs = c.Flags()
	}
	fs.SetOutput(io.Discard)

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%s: %w\n\nusage: %s", c.Name, err, c.Usage)
	}
	return c.Run(ctx, fs, fs.Args())
}

func findCommand(cmds []*Command, name string) *Command {
	for _, c := range cmds {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func printHelp(w io.Writer, cmds []*Command) {
	fmt.Fprintln(w, "Commands:")
	tw := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
	for _, c := range cmds {
		fmt.Fprintf(tw, "  %s\t%s\n", c.Name, c.Summary)
	}
	tw.Flush()
}

func dispatch(ctx context.Context, cmds []*Command, w io.Writer, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("command required")
	}
	switch args[0] {
	case "help", "-h", "--help":
		printHelp(w, cmds)
		return nil
	}

	c := findCommand(cmds, args[0])
	if c == nil {
		return fmt.Errorf("unknown command %q (try 'help')", strings.TrimSpace(args[0]))
	}
	return c.execute(ctx, args[1:])
}
