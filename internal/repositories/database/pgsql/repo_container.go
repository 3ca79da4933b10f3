package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/kontoflow/kontoflow_backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	contactRepo := newPgxContactRepository(dbPool)
	savingsPlanRepo := newPgxSavingsPlanRepository(dbPool)
	securityRepo := newPgxSecurityRepository(dbPool)
	draftRepo := newPgxDraftRepository(dbPool)
	postingRepo := newPgxPostingRepository(dbPool, accountRepo, savingsPlanRepo)
	attachmentRepo := newPgxAttachmentRepository(dbPool)
	aggregateRepo := newPgxAggregateRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)

	return portsrepo.RepositoryProvider{
		DraftRepo:       draftRepo,
		PostingRepo:     postingRepo,
		AccountRepo:     accountRepo,
		ContactRepo:     contactRepo,
		SavingsPlanRepo: savingsPlanRepo,
		SecurityRepo:    securityRepo,
		AttachmentRepo:  attachmentRepo,
		AggregateRepo:   aggregateRepo,
		UserRepo:        userRepo,
	}
}
