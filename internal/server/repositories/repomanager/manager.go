package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophcapsule/internal/dbx"
	"github.com/dmitrijs2005/gophcapsule/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/gophcapsule/internal/server/repositories/capsules"
	"github.com/dmitrijs2005/gophcapsule/internal/server/repositories/configs"
	"github.com/dmitrijs2005/gophcapsule/internal/server/repositories/events"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Configs(db dbx.DBTX) configs.Repository
	Accounts(db dbx.DBTX) accounts.Repository
	Capsules(db dbx.DBTX) capsules.Repository
	Events(db dbx.DBTX) events.Repository
}
