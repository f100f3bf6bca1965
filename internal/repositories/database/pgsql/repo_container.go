package pgsql

import (
	portsrepo "github.com/SscSPs/money_tracker/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	base := BaseRepository{Pool: dbPool}
	return portsrepo.RepositoryProvider{
		UserRepo:        newPgxUserRepository(base),
		PersonRepo:      newPgxPersonRepository(base),
		TransactionRepo: newPgxTransactionRepository(base),
		Health:          &base,
	}
}
