package sqlite

import (
	"database/sql"

	portsrepo "github.com/SscSPs/money_tracker/internal/core/ports/repositories"
)

func NewRepositoryProvider(db *sql.DB) portsrepo.RepositoryProvider {
	base := BaseRepository{DB: db}
	return portsrepo.RepositoryProvider{
		UserRepo:        newSQLiteUserRepository(base),
		PersonRepo:      newSQLitePersonRepository(base),
		TransactionRepo: newSQLiteTransactionRepository(base),
		Health:          &base,
	}
}
