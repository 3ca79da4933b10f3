package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	DraftRepo       DraftRepositoryFacade
	PostingRepo     PostingRepositoryFacade
	AccountRepo     AccountRepositoryFacade
	ContactRepo     ContactRepositoryFacade
	SavingsPlanRepo SavingsPlanRepositoryFacade
	SecurityRepo    SecurityRepositoryFacade
	AttachmentRepo  AttachmentRepositoryFacade
	AggregateRepo   AggregateWriter
	UserRepo        UserRepositoryFacade
}
