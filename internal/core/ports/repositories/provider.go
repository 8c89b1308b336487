package repositories

// RepositoryProvider aggregates the repository facades for injection into the
// service layer.
type RepositoryProvider struct {
	AccountRepo     AccountRepositoryFacade
	TransactionRepo TransactionRepositoryFacade
	ReportingRepo   ReportingRepository
}
