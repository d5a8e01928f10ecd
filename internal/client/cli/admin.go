package cli

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"
)

func (a *App) initConfig(ctx context.Context, fs *pflag.FlagSet, _ []string) error {
	price, _ := fs.GetUint64("price")
	treasury, _ := fs.GetString("treasury")
	if treasury == "" {
		return fmt.Errorf("--treasury is required")
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	cfg, err := a.api.InitializeConfig(ctx, price, treasury)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "config initialized: price=%d treasury=%s authority=%s\n", cfg.Price, cfg.Treasury, cfg.Authority)
	return nil
}

func (a *App) updatePrice(ctx context.Context, _ *pflag.FlagSet, args []string) error {
	if err := exactArgs(args, 1, "update-price N"); err != nil {
		return err
	}
	price, err := parseAmount(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	if err := a.api.UpdatePrice(ctx, price); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "price updated to %d\n", price)
	return nil
}

func (a *App) showConfig(ctx context.Context, _ *pflag.FlagSet, _ []string) error {
	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	cfg, err := a.api.GetConfig(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "price:     %d\ntreasury:  %s\nauthority: %s\n", cfg.Price, cfg.Treasury, cfg.Authority)
	return nil
}

func (a *App) fund(ctx context.Context, _ *pflag.FlagSet, args []string) error {
	if err := exactArgs(args, 2, "fund ID AMOUNT"); err != nil {
		return err
	}
	amount, err := parseAmount(args[1])
	if err != nil {
		return err
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	bal, err := a.api.FundAccount(ctx, args[0], amount)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s balance: %d\n", args[0], bal)
	return nil
}

func (a *App) balance(ctx context.Context, _ *pflag.FlagSet, args []string) error {
	identity := a.identity
	if len(args) > 0 {
		identity = args[0]
	}
	if identity == "" {
		return fmt.Errorf("usage: balance ID (no identity in the access token)")
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	bal, err := a.api.GetBalance(ctx, identity)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s balance: %d\n", identity, bal)
	return nil
}
