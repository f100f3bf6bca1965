package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// Both the Postgres and the SQLite backends produce one.
type RepositoryProvider struct {
	UserRepo        UserRepositoryFacade
	PersonRepo      PersonRepositoryFacade
	TransactionRepo TransactionRepositoryFacade
	Health          HealthChecker
}
