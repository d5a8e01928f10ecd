// Command token mints an access token for an identity using the server's
// secret. It reads the same config layers as the server.
//
//	token -id alice [-c server.json] [-s secret] [-ttl 24h]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophcapsule/internal/flagx"
	"github.com/dmitrijs2005/gophcapsule/internal/server/auth"
	"github.com/dmitrijs2005/gophcapsule/internal/server/config"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	identity := fs.String("id", "", "identity to put in the token")
	ttl := fs.Duration("ttl", cfg.AccessTokenValidityDuration, "token lifetime")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-id", "-ttl"})); err != nil {
		return err
	}
	if *identity == "" {
		return fmt.Errorf("-id is required")
	}

	tok, err := auth.GenerateToken(*identity, []byte(cfg.SecretKey), *ttl)
	if err != nil {
		return err
	}

	fmt.Println(tok)
	return nil
}
