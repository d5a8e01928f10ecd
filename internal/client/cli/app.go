package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/gophcapsule/internal/client/client"
	"github.com/dmitrijs2005/gophcapsule/internal/client/config"
	"github.com/dmitrijs2005/gophcapsule/internal/client/journal"
	"github.com/dmitrijs2005/gophcapsule/internal/clock"
	"github.com/dmitrijs2005/gophcapsule/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Journal is the local record of capsules created from this machine.
type Journal interface {
	Record(ctx context.Context, e journal.Entry) error
	Get(ctx context.Context, capsuleID string) (*journal.Entry, error)
	MarkClaimed(ctx context.Context, capsuleID string) error
	List(ctx context.Context) ([]journal.Entry, error)
	Close() error
}

type App struct {
	config   *config.Config
	api      client.Client
	journal  Journal
	reader   *bufio.Reader
	out      io.Writer
	clock    clock.Clock
	newSeed  func() (string, error)
	identity string
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	j, err := journal.Open(ctx, cfg.JournalPath)
	if err != nil {
		return nil, fmt.Errorf("error opening journal: %w", err)
	}

	api, err := client.NewGRPCClient(cfg.ServerEndpointAddr, cfg.AccessToken)
	if err != nil {
		_ = j.Close()
		return nil, err
	}

	return newApp(cfg, api, j, os.Stdin, os.Stdout), nil
}

func newApp(cfg *config.Config, api client.Client, j Journal, in io.Reader, out io.Writer) *App {
	return &App{
		config:   cfg,
		api:      api,
		journal:  j,
		reader:   bufio.NewReader(in),
		out:      out,
		clock:    clock.Real(),
		newSeed:  func() (string, error) { return common.MakeRandHexString(16) },
		identity: identityFromToken(cfg.AccessToken),
	}
}

func (a *App) Close() error {
	jerr := a.journal.Close()
	if err := a.api.Close(); err != nil {
		return err
	}
	return jerr
}

// Run executes one command, or starts the prompt when args is empty.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.repl(ctx)
	}
	return dispatch(ctx, a.commands(), a.out, args)
}

func (a *App) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

// identityFromToken reads the identity claim without verifying the
// signature; the server does that. Used only for display and defaults.
func identityFromToken(token string) string {
	if token == "" {
		return ""
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	id, _ := claims["identity"].(string)
	return id
}
