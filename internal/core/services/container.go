package services

import (
	portsrepo "github.com/courierhq/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/courierhq/ledger_backend/internal/core/ports/services"
)

// NewServiceContainer wires the core services from the repository layer.
func NewServiceContainer(
	accountRepo portsrepo.AccountRepositoryFacade,
	txnRepo portsrepo.TransactionRepositoryFacade,
	reportingRepo portsrepo.ReportingRepository,
) *portssvc.ServiceContainer {
	accountSvc := NewAccountService(accountRepo)
	return &portssvc.ServiceContainer{
		Account:   accountSvc,
		Posting:   NewPostingService(txnRepo, accountSvc),
		Balance:   NewBalanceService(accountRepo, txnRepo),
		Reporting: NewReportingService(reportingRepo),
	}
}
