package services

import (
	portsrepo "github.com/SscSPs/money_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/money_tracker/internal/core/ports/services"
	"github.com/SscSPs/money_tracker/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// publisher may be nil, in which case no transaction events are emitted.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher portssvc.TransactionEventPublisher) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo)
	container.Person = NewPersonService(repos.PersonRepo, repos.TransactionRepo)

	var txnOpts []TransactionServiceOption
	if publisher != nil {
		txnOpts = append(txnOpts, WithEventPublisher(publisher))
	}
	container.Transaction = NewTransactionService(repos.TransactionRepo, txnOpts...)
	container.Reporting = NewReportingService(repos.TransactionRepo)

	container.TokenService = NewTokenService(cfg, container.User)
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)

	return container
}
