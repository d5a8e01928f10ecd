package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophcapsule/internal/client/config"
	"github.com/dmitrijs2005/gophcapsule/internal/client/journal"
	"github.com/dmitrijs2005/gophcapsule/internal/clock"
	"github.com/dmitrijs2005/gophcapsule/internal/common"
	"github.com/dmitrijs2005/gophcapsule/internal/cryptox"
	"github.com/dmitrijs2005/gophcapsule/internal/rpc"
	"github.com/dmitrijs2005/gophcapsule/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	cfg       rpc.ConfigResponse
	created   *rpc.CreateCapsuleRequest
	createErr error
	sealed    string
	hashSeen  string
	claimed   []string
	info      *rpc.CapsuleInfo
	remote    []rpc.UserCapsule
	funded    map[string]uint64
	price     uint64
	closed    bool
}

func (f *fakeAPI) Close() error               { f.closed = true; return nil }
func (f *fakeAPI) Ping(context.Context) error { return nil }
func (f *fakeAPI) GetConfig(context.Context) (*rpc.ConfigResponse, error) {
	c := f.cfg
	return &c, nil
}

func (f *fakeAPI) InitializeConfig(_ context.Context, price uint64, treasury string) (*rpc.ConfigResponse, error) {
	f.cfg = rpc.ConfigResponse{Price: price, Treasury: treasury, Authority: "admin"}
	c := f.cfg
	return &c, nil
}

func (f *fakeAPI) UpdatePrice(_ context.Context, p uint64) error { f.price = p; return nil }

func (f *fakeAPI) FundAccount(_ context.Context, id string, amount uint64) (uint64, error) {
	if f.funded == nil {
		f.funded = map[string]uint64{}
	}
	f.funded[id] += amount
	return f.funded[id], nil
}

func (f *fakeAPI) GetBalance(_ context.Context, id string) (uint64, error) {
	return f.funded[id], nil
}

func (f *fakeAPI) CreateCapsule(_ context.Context, req *rpc.CreateCapsuleRequest) (*rpc.CreateCapsuleResponse, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = req
	f.sealed = req.EncryptedMessage
	return &rpc.CreateCapsuleResponse{CapsuleID: "cap-1", CreatedAt: 1000, Space: 300, FeePaid: f.cfg.Price}, nil
}

func (f *fakeAPI) RetrieveMessage(_ context.Context, _ string, hash string) (string, error) {
	f.hashSeen = hash
	return f.sealed, nil
}

func (f *fakeAPI) MarkClaimed(_ context.Context, id, hash string) error {
	f.hashSeen = hash
	f.claimed = append(f.claimed, id)
	return nil
}

func (f *fakeAPI) GetCapsuleInfo(context.Context, string) (*rpc.CapsuleInfo, error) {
	if f.info == nil {
		return nil, common.ErrorNotFound
	}
	return f.info, nil
}

func (f *fakeAPI) GetUserCapsules(context.Context) ([]rpc.UserCapsule, error) {
	return f.remote, nil
}

func stubPassword(t *testing.T, pws ...string) {
	t.Helper()
	orig := readPassword
	i := 0
	readPassword = func(int) ([]byte, error) {
		pw := pws[i%len(pws)]
		i++
		return []byte(pw), nil
	}
	t.Cleanup(func() { readPassword = orig })
}

func newTestApp(t *testing.T, api *fakeAPI, input string) (*App, *bytes.Buffer) {
	t.Helper()
	j, err := journal.Open(context.Background(), ":memory:")
	require.NoError(t, err)

	tok, err := auth.GenerateToken("alice", []byte("secret"), time.Hour)
	require.NoError(t, err)

	cfg := &config.Config{AccessToken: tok, RequestTimeout: time.Second}
	out := &bytes.Buffer{}
	a := newApp(cfg, api, j, strings.NewReader(input), out)
	a.clock = clock.NewFake(time.Unix(1000, 0))
	a.newSeed = func() (string, error) { return "seed-1", nil }
	t.Cleanup(func() { _ = a.Close() })
	return a, out
}

func TestIdentityFromToken(t *testing.T) {
	tok, err := auth.GenerateToken("bob", []byte("k"), time.Minute)
	require.NoError(t, err)

	assert.Equal(t, "bob", identityFromToken(tok))
	assert.Equal(t, "", identityFromToken(""))
	assert.Equal(t, "", identityFromToken("garbage"))
}

func TestCreate_SealsAndRecords(t *testing.T) {
	stubPassword(t, "pw")
	api := &fakeAPI{cfg: rpc.ConfigResponse{Price: 7, Treasury: "treasury"}}
	a, out := newTestApp(t, api, "")
	ctx := context.Background()

	err := a.Run(ctx, []string{"create", "--recipient", " Bob@Example.com", "--unlock-in", "1h",
		"--title", "hello", "--hint", "usual", "-m", "the secret"})
	require.NoError(t, err)

	req := api.created
	require.NotNil(t, req)
	assert.Equal(t, "seed-1", req.Seed)
	assert.Equal(t, int64(1000+3600), req.UnlockTimestamp)
	assert.Equal(t, cryptox.HashEmail("bob@example.com"), req.RecipientEmailHash)
	assert.Equal(t, cryptox.HashPassword([]byte("pw")), req.PasswordHash)
	assert.Equal(t, "treasury", req.Treasury)
	assert.NotContains(t, req.EncryptedMessage, "the secret")

	plain, err := cryptox.Open(req.EncryptedMessage, []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, "the secret", string(plain))

	e, err := a.journal.Get(ctx, "cap-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", e.Sender)
	assert.Equal(t, "seed-1", e.Seed)
	assert.Equal(t, uint64(7), e.FeePaid)

	assert.Contains(t, out.String(), "capsule cap-1 created")
}

func TestCreate_MessageFromPrompt(t *testing.T) {
	stubPassword(t, "pw")
	api := &fakeAPI{}
	a, _ := newTestApp(t, api, "line one\nline two\n\n")

	err := a.Run(context.Background(), []string{"create", "--recipient", "x@y", "--unlock-at", "2030-01-01T00:00:00Z", "--treasury", "t"})
	require.NoError(t, err)

	plain, err := cryptox.Open(api.created.EncryptedMessage, []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two", string(plain))
	assert.Equal(t, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC).Unix(), api.created.UnlockTimestamp)
}

func TestCreate_InputErrors(t *testing.T) {
	stubPassword(t, "pw")
	ctx := context.Background()

	tests := []struct {
		name string
		args []string
	}{
		{"no recipient", []string{"create", "--unlock-in", "1h"}},
		{"no unlock", []string{"create", "--recipient", "a@b"}},
		{"both unlocks", []string{"create", "--recipient", "a@b", "--unlock-in", "1h", "--unlock-at", "2030-01-01T00:00:00Z"}},
		{"bad unlock-at", []string{"create", "--recipient", "a@b", "--unlock-at", "tomorrow"}},
		{"unknown flag", []string{"create", "--nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{}
			a, _ := newTestApp(t, api, "")
			assert.Error(t, a.Run(ctx, tt.args))
			assert.Nil(t, api.created)
		})
	}
}

func TestCreate_PasswordMismatch(t *testing.T) {
	stubPassword(t, "one", "two")
	api := &fakeAPI{}
	a, _ := newTestApp(t, api, "")

	err := a.Run(context.Background(), []string{"create", "--recipient", "a@b", "--unlock-in", "1h", "-m", "x", "--treasury", "t"})
	assert.ErrorIs(t, err, ErrPasswordMismatch)
	assert.Nil(t, api.created)
}

func TestCreate_ServerErrorNotRecorded(t *testing.T) {
	stubPassword(t, "pw")
	api := &fakeAPI{createErr: common.ErrInsufficientBalance}
	a, _ := newTestApp(t, api, "")
	ctx := context.Background()

	err := a.Run(ctx, []string{"create", "--recipient", "a@b", "--unlock-in", "1h", "-m", "x", "--treasury", "t"})
	assert.ErrorIs(t, err, common.ErrInsufficientBalance)

	list, err := a.journal.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRetrieve_OpensMessage(t *testing.T) {
	stubPassword(t, "pw")
	sealed, err := cryptox.Seal([]byte("hello future"), []byte("pw"))
	require.NoError(t, err)

	api := &fakeAPI{sealed: sealed}
	a, out := newTestApp(t, api, "")

	require.NoError(t, a.Run(context.Background(), []string{"retrieve", "cap-1"}))
	assert.Equal(t, cryptox.HashPassword([]byte("pw")), api.hashSeen)
	assert.Contains(t, out.String(), "hello future")
}

func TestRetrieve_Raw(t *testing.T) {
	stubPassword(t, "pw")
	api := &fakeAPI{sealed: "opaque"}
	a, out := newTestApp(t, api, "")

	require.NoError(t, a.Run(context.Background(), []string{"retrieve", "--raw", "cap-1"}))
	assert.Contains(t, out.String(), "opaque")
}

func TestRetrieve_Usage(t *testing.T) {
	a, _ := newTestApp(t, &fakeAPI{}, "")
	assert.Error(t, a.Run(context.Background(), []string{"retrieve"}))
}

func TestClaim_UpdatesJournal(t *testing.T) {
	stubPassword(t, "pw")
	api := &fakeAPI{}
	a, out := newTestApp(t, api, "")
	ctx := context.Background()

	require.NoError(t, a.journal.Record(ctx, journal.Entry{CapsuleID: "cap-1", CreatedAt: 1, UnlockTimestamp: 2}))
	require.NoError(t, a.Run(ctx, []string{"claim", "cap-1"}))

	assert.Equal(t, []string{"cap-1"}, api.claimed)
	e, err := a.journal.Get(ctx, "cap-1")
	require.NoError(t, err)
	assert.True(t, e.IsClaimed)
	assert.Contains(t, out.String(), "claimed")
}

func TestInfo(t *testing.T) {
	api := &fakeAPI{info: &rpc.CapsuleInfo{Sender: "alice", MessageTitle: "t", UnlockTimestamp: 2000, CreatedAt: 500}}
	a, out := newTestApp(t, api, "")

	require.NoError(t, a.Run(context.Background(), []string{"info", "cap-1"}))
	assert.Contains(t, out.String(), "locked")
	assert.Contains(t, out.String(), "alice")

	api.info = nil
	assert.ErrorIs(t, a.Run(context.Background(), []string{"info", "x"}), common.ErrorNotFound)
}

func TestList_FallsBackToJournal(t *testing.T) {
	api := &fakeAPI{}
	a, out := newTestApp(t, api, "")
	ctx := context.Background()

	require.NoError(t, a.Run(ctx, []string{"list"}))
	assert.Contains(t, out.String(), "no capsules")

	require.NoError(t, a.journal.Record(ctx, journal.Entry{CapsuleID: "local-1", MessageTitle: "mine", CreatedAt: 1, UnlockTimestamp: 2}))
	out.Reset()
	require.NoError(t, a.Run(ctx, []string{"list"}))
	assert.Contains(t, out.String(), "local-1")
}

func TestList_PrefersServer(t *testing.T) {
	api := &fakeAPI{remote: []rpc.UserCapsule{{CapsuleID: "remote-1", MessageTitle: "srv"}}}
	a, out := newTestApp(t, api, "")
	ctx := context.Background()
	require.NoError(t, a.journal.Record(ctx, journal.Entry{CapsuleID: "local-1", CreatedAt: 1, UnlockTimestamp: 2}))

	require.NoError(t, a.Run(ctx, []string{"list"}))
	assert.Contains(t, out.String(), "remote-1")
	assert.NotContains(t, out.String(), "local-1")

	out.Reset()
	require.NoError(t, a.Run(ctx, []string{"list", "--local"}))
	assert.Contains(t, out.String(), "local-1")
}

func TestAdminCommands(t *testing.T) {
	api := &fakeAPI{}
	a, out := newTestApp(t, api, "")
	ctx := context.Background()

	require.NoError(t, a.Run(ctx, []string{"init-config", "--price", "5", "--treasury", "t"}))
	assert.Equal(t, "t", api.cfg.Treasury)

	require.NoError(t, a.Run(ctx, []string{"update-price", "9"}))
	assert.Equal(t, uint64(9), api.price)

	require.NoError(t, a.Run(ctx, []string{"fund", "alice", "100"}))
	out.Reset()
	require.NoError(t, a.Run(ctx, []string{"balance"}))
	assert.Contains(t, out.String(), "alice balance: 100")

	assert.Error(t, a.Run(ctx, []string{"update-price", "-1"}))
	assert.Error(t, a.Run(ctx, []string{"fund", "alice"}))
	assert.Error(t, a.Run(ctx, []string{"init-config", "--price", "1"}))
}

func TestDispatch_UnknownAndHelp(t *testing.T) {
	a, out := newTestApp(t, &fakeAPI{}, "")
	ctx := context.Background()

	assert.Error(t, a.Run(ctx, []string{"frobnicate"}))
	require.NoError(t, a.Run(ctx, []string{"help"}))
	assert.Contains(t, out.String(), "retrieve")
}

func TestREPL(t *testing.T) {
	api := &fakeAPI{}
	a, out := newTestApp(t, api, "help\nbogus\nupdate-price 3\nquit\n")

	require.NoError(t, a.Run(context.Background(), nil))
	assert.Equal(t, uint64(3), api.price)
	assert.Contains(t, out.String(), "error: unknown command")
	assert.Contains(t, out.String(), "Bye!")
}

func TestREPL_EOF(t *testing.T) {
	a, _ := newTestApp(t, &fakeAPI{}, "help")
	require.NoError(t, a.Run(context.Background(), nil))
}
