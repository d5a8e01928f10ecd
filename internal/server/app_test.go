package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophcapsule/internal/logging"
	"github.com/dmitrijs2005/gophcapsule/internal/server/config"
	"github.com/dmitrijs2005/gophcapsule/internal/server/eventsink"
	"github.com/dmitrijs2005/gophcapsule/internal/server/models"
	"github.com/dmitrijs2005/gophcapsule/internal/server/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.Storage = config.StorageMemory
	c.EndpointAddrGRPC = "127.0.0.1:0"
	c.EndpointAddrMetrics = "127.0.0.1:0"
	return c
}

type nopSink struct{}

func (nopSink) Publish(context.Context, *models.Event) error { return nil }

func TestNewApp_Memory(t *testing.T) {
	app, err := NewApp(context.Background(), memoryConfig(), logging.Nop{})
	require.NoError(t, err)
	assert.IsType(t, &storage.MemoryStore{}, app.store)
}

func TestNewApp_PostgresError(t *testing.T) {
	orig := openPostgres
	openPostgres = func(context.Context, string) (storage.Store, error) { return nil, errors.New("refused") }
	defer func() { openPostgres = orig }()

	c := memoryConfig()
	c.Storage = config.StoragePostgres
	_, err := NewApp(context.Background(), c, logging.Nop{})
	assert.ErrorContains(t, err, "db init error: refused")
}

func TestNewApp_UnknownStorage(t *testing.T) {
	c := memoryConfig()
	c.Storage = "tape"
	_, err := NewApp(context.Background(), c, logging.Nop{})
	assert.ErrorContains(t, err, "unknown storage")
}

func TestNewApp_Archive(t *testing.T) {
	orig := newS3Sink
	defer func() { newS3Sink = orig }()

	var got eventsink.S3Settings
	newS3Sink = func(_ context.Context, st eventsink.S3Settings) (eventsink.Sink, error) {
		got = st
		return nopSink{}, nil
	}

	c := memoryConfig()
	c.EventArchiveEnabled = true
	c.S3Bucket = "archive"
	_, err := NewApp(context.Background(), c, logging.Nop{})
	require.NoError(t, err)
	assert.Equal(t, "archive", got.Bucket)

	newS3Sink = func(context.Context, eventsink.S3Settings) (eventsink.Sink, error) {
		return nil, errors.New("no creds")
	}
	_, err = NewApp(context.Background(), c, logging.Nop{})
	assert.ErrorContains(t, err, "event archive init error")
}

func TestRun_StopsOnCancel(t *testing.T) {
	app, err := NewApp(context.Background(), memoryConfig(), logging.Nop{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop after cancel")
	}
}

func TestRun_BadAddressFails(t *testing.T) {
	c := memoryConfig()
	c.EndpointAddrGRPC = "127.0.0.1:99999"
	app, err := NewApp(context.Background(), c, logging.Nop{})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop after listen failure")
	}
}
