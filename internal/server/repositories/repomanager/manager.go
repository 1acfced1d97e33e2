package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/leavedesk/internal/dbx"
	"github.com/dmitrijs2005/leavedesk/internal/server/repositories/leaves"
	"github.com/dmitrijs2005/leavedesk/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/leavedesk/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Leaves(db dbx.DBTX) leaves.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
