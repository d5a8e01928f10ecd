package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/gophcapsule/internal/client/journal"
	"github.com/dmitrijs2005/gophcapsule/internal/common"
	"github.com/dmitrijs2005/gophcapsule/internal/cryptox"
	"github.com/dmitrijs2005/gophcapsule/internal/rpc"
	"github.com/spf13/pflag"
)

var ErrPasswordMismatch = errors.New("passwords do not match")

func (a *App) unlockTime(fs *pflag.FlagSet) (int64, error) {
	at, _ := fs.GetString("unlock-at")
	in, _ := fs.GetDuration("unlock-in")

	switch {
	case at != "" && in != 0:
		return 0, fmt.Errorf("use either --unlock-at or --unlock-in")
	case at != "":
		t, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return 0, fmt.Errorf("invalid --unlock-at: %w", err)
		}
		return t.Unix(), nil
	case in != 0:
		return a.clock.Now().Add(in).Unix(), nil
	default:
		return 0, fmt.Errorf("--unlock-at or --unlock-in is required")
	}
}

func (a *App) newPassword() ([]byte, error) {
	pw, err := GetPassword(a.out, "Capsule password: ")
	if err != nil {
		return nil, err
	}
	again, err := GetPassword(a.out, "Repeat password: ")
	if err != nil {
		common.WipeByteArray(pw)
		return nil, err
	}
	defer common.WipeByteArray(again)

	if !bytes.Equal(pw, again) {
		common.WipeByteArray(pw)
		return nil, ErrPasswordMismatch
	}
	return pw, nil
}

func (a *App) create(ctx context.Context, fs *pflag.FlagSet, _ []string) error {
	recipient, _ := fs.GetString("recipient")
	if recipient == "" {
		return fmt.Errorf("--recipient is required")
	}
	unlock, err := a.unlockTime(fs)
	if err != nil {
		return err
	}

	title, _ := fs.GetString("title")
	hint, _ := fs.GetString("hint")
	treasury, _ := fs.GetString("treasury")
	message, _ := fs.GetString("message")
	if message == "" {
		message, err = GetMultiline(a.reader, "Message:", a.out)
		if err != nil {
			return err
		}
	}

	pw, err := a.newPassword()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	sealed, err := cryptox.Seal([]byte(message), pw)
	if err != nil {
		return fmt.Errorf("seal message: %w", err)
	}
	seed, err := a.newSeed()
	if err != nil {
		return err
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	if treasury == "" {
		cfg, err := a.api.GetConfig(ctx)
		if err != nil {
			return err
		}
		treasury = cfg.Treasury
	}

	resp, err := a.api.CreateCapsule(ctx, &rpc.CreateCapsuleRequest{
		Seed:               seed,
		EncryptedMessage:   sealed,
		UnlockTimestamp:    unlock,
		RecipientEmailHash: cryptox.HashEmail(recipient),
		PasswordHash:       cryptox.HashPassword(pw),
		PasswordHint:       hint,
		MessageTitle:       title,
		Treasury:           treasury,
	})
	if err != nil {
		return err
	}

	entry := journal.Entry{
		CapsuleID:       resp.CapsuleID,
		Seed:            seed,
		Sender:          a.identity,
		MessageTitle:    title,
		PasswordHint:    hint,
		UnlockTimestamp: unlock,
		CreatedAt:       resp.CreatedAt,
		FeePaid:         resp.FeePaid,
	}
	if err := a.journal.Record(ctx, entry); err != nil {
		fmt.Fprintf(a.out, "warning: capsule created but not saved locally: %v\n", err)
	}

	fmt.Fprintf(a.out, "capsule %s created, unlocks %s (fee %d, rent %d, %d bytes)\n",
		resp.CapsuleID, formatTime(unlock), resp.FeePaid, resp.RentDeposit, resp.Space)
	return nil
}

func (a *App) retrieve(ctx context.Context, fs *pflag.FlagSet, args []string) error {
	if err := exactArgs(args, 1, "retrieve [--raw] CAPSULE_ID"); err != nil {
		return err
	}
	raw, _ := fs.GetBool("raw")

	pw, err := GetPassword(a.out, "Capsule password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	sealed, err := a.api.RetrieveMessage(ctx, args[0], cryptox.HashPassword(pw))
	if err != nil {
		return err
	}

	if raw {
		fmt.Fprintln(a.out, sealed)
		return nil
	}

	plain, err := cryptox.Open(sealed, pw)
	if err != nil {
		return fmt.Errorf("message could not be opened with this password: %w", err)
	}
	fmt.Fprintln(a.out, string(plain))
	return nil
}

func (a *App) claim(ctx context.Context, _ *pflag.FlagSet, args []string) error {
	if err := exactArgs(args, 1, "claim CAPSULE_ID"); err != nil {
		return err
	}

	pw, err := GetPassword(a.out, "Capsule password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	if err := a.api.MarkClaimed(ctx, args[0], cryptox.HashPassword(pw)); err != nil {
		return err
	}
	if err := a.journal.MarkClaimed(ctx, args[0]); err != nil {
		fmt.Fprintf(a.out, "warning: %v\n", err)
	}

	fmt.Fprintf(a.out, "capsule %s claimed\n", args[0])
	return nil
}

func (a *App) info(ctx context.Context, _ *pflag.FlagSet, args []string) error {
	if err := exactArgs(args, 1, "info CAPSULE_ID"); err != nil {
		return err
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	ci, err := a.api.GetCapsuleInfo(ctx, args[0])
	if err != nil {
		return err
	}

	state := "locked"
	if a.clock.Now().Unix() >= ci.UnlockTimestamp {
		state = "unlocked"
	}
	if ci.IsClaimed {
		state = "claimed"
	}

	tw := tabwriter.NewWriter(a.out, 2, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "title:\t%s\n", ci.MessageTitle)
	fmt.Fprintf(tw, "sender:\t%s\n", ci.Sender)
	fmt.Fprintf(tw, "created:\t%s\n", formatTime(ci.CreatedAt))
	fmt.Fprintf(tw, "unlocks:\t%s\n", formatTime(ci.UnlockTimestamp))
	fmt.Fprintf(tw, "hint:\t%s\n", ci.PasswordHint)
	fmt.Fprintf(tw, "state:\t%s\n", state)
	return tw.Flush()
}

func (a *App) list(ctx context.Context, fs *pflag.FlagSet, _ []string) error {
	local, _ := fs.GetBool("local")

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	var rows []rpc.UserCapsule
	if !local {
		remote, err := a.api.GetUserCapsules(ctx)
		if err != nil {
			return err
		}
		rows = remote
	}

	// the server keeps no sender index unless enabled; fall back to the journal
	if len(rows) == 0 {
		entries, err := a.journal.List(ctx)
		if err != nil {
			return err
		}
		for _, e := range entries {
			rows = append(rows, rpc.UserCapsule{
				CapsuleID:       e.CapsuleID,
				UnlockTimestamp: e.UnlockTimestamp,
				MessageTitle:    e.MessageTitle,
				IsClaimed:       e.IsClaimed,
			})
		}
	}

	if len(rows) == 0 {
		fmt.Fprintln(a.out, "no capsules")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 2, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUNLOCKS\tCLAIMED\tTITLE")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", r.CapsuleID, formatTime(r.UnlockTimestamp), r.IsClaimed, r.MessageTitle)
	}
	return tw.Flush()
}
