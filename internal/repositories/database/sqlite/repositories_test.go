package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	portsrepo "github.com/SscSPs/money_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/money_tracker/internal/repositories/database/repotest"
	"github.com/SscSPs/money_tracker/internal/repositories/database/sqlite"
	"github.com/SscSPs/money_tracker/pkg/database"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestSQLiteRepositories(t *testing.T) {
	suite.Run(t, &repotest.Suite{
		Open: func(t *testing.T) portsrepo.RepositoryProvider {
			path := filepath.Join(t.TempDir(), "test.db")
			require.NoError(t, sqlite.RunMigrations(path))

			db, err := database.NewSQLiteDB(context.Background(), path)
			require.NoError(t, err)
			t.Cleanup(func() { db.Close() })
			return sqlite.NewRepositoryProvider(db)
		},
	})
}
