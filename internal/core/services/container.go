package services

import (
	"time"

	"github.com/kontoflow/kontoflow_backend/internal/core/domain"
	portsrepo "github.com/kontoflow/kontoflow_backend/internal/core/ports/repositories"
	portssvc "github.com/kontoflow/kontoflow_backend/internal/core/ports/services"
)

// ContainerConfig carries the settings the service layer needs beyond its
// repositories.
type ContainerConfig struct {
	JWTSecret   string
	TokenExpiry time.Duration
	TokenIssuer string
	Split       domain.SplitConfig
}

// NewServiceContainer wires all application services against the given
// repositories.
func NewServiceContainer(repos portsrepo.RepositoryProvider, cfg ContainerConfig) *portssvc.ServiceContainer {
	splitterSvc := NewSplitterService(repos.DraftRepo)
	validationSvc := NewValidationService(repos.DraftRepo, repos.AccountRepo, repos.ContactRepo, repos.SavingsPlanRepo, repos.PostingRepo)
	attachmentSvc := NewAttachmentService(repos.AttachmentRepo)
	sink := NewAggregateSink(repos.AggregateRepo)

	return &portssvc.ServiceContainer{
		User:        NewUserService(repos.UserRepo),
		Token:       NewTokenService(cfg.JWTSecret, cfg.TokenExpiry, cfg.TokenIssuer),
		Draft:       NewDraftService(repos.DraftRepo, repos.AccountRepo, repos.ContactRepo, splitterSvc, cfg.Split),
		Splitter:    splitterSvc,
		Validation:  validationSvc,
		Booking:     NewBookingService(repos.DraftRepo, repos.PostingRepo, repos.AccountRepo, repos.ContactRepo, repos.SavingsPlanRepo, validationSvc, attachmentSvc, sink),
		Account:     NewAccountService(repos.AccountRepo, repos.ContactRepo),
		Contact:     NewContactService(repos.ContactRepo),
		SavingsPlan: NewSavingsPlanService(repos.SavingsPlanRepo),
		Security:    NewSecurityService(repos.SecurityRepo),
	}
}
