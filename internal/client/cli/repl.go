package cli

import (
	"context"
	"fmt"
	"strings"
)

// repl reads commands line by line until EOF or exit. Command errors are
// printed and the loop continues.
func (a *App) repl(ctx context.Context) error {
	cmds := a.commands()

	fmt.Fprintln(a.out, "GophCapsule CLI (type 'help' for commands)")
	for {
		if a.identity != "" {
			fmt.Fprintf(a.out, "capsule (%s)> ", a.identity)
		} else {
			fmt.Fprint(a.out, "capsule> ")
		}

		line, err := a.reader.ReadString('\n')
		parts := strings.Fields(line)
		if len(parts) > 0 {
			switch parts[0] {
			case "exit", "quit":
				fmt.Fprintln(a.out, "Bye!")
				return nil
			}
			if derr := dispatch(ctx, cmds, a.out, parts); derr != nil {
				fmt.Fprintln(a.out, "error:", derr)
			}
		}
		if err != nil {
			fmt.Fprintln(a.out)
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}
