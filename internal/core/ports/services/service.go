package services

// ServiceContainer aggregates the core services for injection into the
// transport layer.
type ServiceContainer struct {
	Account   AccountService
	Posting   PostingService
	Balance   BalanceService
	Reporting ReportingService
}
