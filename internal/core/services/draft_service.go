package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kontoflow/kontoflow_backend/internal/apperrors"
	"github.com/kontoflow/kontoflow_backend/internal/core/domain"
	portsrepo "github.com/kontoflow/kontoflow_backend/internal/core/ports/repositories"
	portssvc "github.com/kontoflow/kontoflow_backend/internal/core/ports/services"
	"github.com/kontoflow/kontoflow_backend/internal/dto"
	"github.com/kontoflow/kontoflow_backend/internal/middleware"
)

var (
	ErrEntryAlreadySplit        = errors.New("entry already has a split draft assigned")
	ErrSplitSelfReference       = errors.New("a draft cannot be its own split target")
	ErrSplitSameUploadGroup     = errors.New("split draft belongs to the same upload as its parent")
	ErrSplitTargetHasAccount    = errors.New("split draft must not have a detected account")
	ErrSplitTargetAlreadyLinked = errors.New("split draft is already linked to another entry")
	ErrPlanNeedsSelfContact     = errors.New("savings plan requires the own contact as counter-party")
	ErrPlanNotAllowedOnAccount  = errors.New("account does not allow savings plan assignments")
	ErrSecurityNeedsBankContact = errors.New("security fields require the account's bank contact as counter-party")
	ErrDraftCommitted           = errors.New("draft is already committed")
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// draftService owns the draft lifecycle outside of booking: imports via the
// splitter, manual creation and edits, and the guarded assignment operations
// whose preconditions are structural contracts. Violating a precondition is a
// caller bug and returns an error, unlike the data-quality findings the
// validator reports as diagnostics.
type draftService struct {
	draftRepo   portsrepo.DraftRepositoryFacade
	accountRepo portsrepo.AccountReader
	contactRepo portsrepo.ContactReader
	splitter    portssvc.SplitterSvc
	splitCfg    domain.SplitConfig
}

// NewDraftService creates a new DraftService.
func NewDraftService(
	draftRepo portsrepo.DraftRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	contactRepo portsrepo.ContactReader,
	splitter portssvc.SplitterSvc,
	splitCfg domain.SplitConfig,
) portssvc.DraftSvcFacade {
	return &draftService{
		draftRepo:   draftRepo,
		accountRepo: accountRepo,
		contactRepo: contactRepo,
		splitter:    splitter,
		splitCfg:    splitCfg,
	}
}

// Ensure draftService implements the portssvc.DraftSvcFacade interface
var _ portssvc.DraftSvcFacade = (*draftService)(nil)

// loadOwnedDraft retrieves a draft and verifies ownership.
func (s *draftService) loadOwnedDraft(ctx context.Context, ownerID string, draftID string) (*domain.Draft, error) {
	draft, err := s.draftRepo.FindDraftByID(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to load draft %s: %w", draftID, err)
	}
	if draft.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: draft %s does not belong to the caller", apperrors.ErrForbidden, draftID)
	}
	return draft, nil
}

func (s *draftService) GetDraft(ctx context.Context, ownerID string, draftID string) (*domain.Draft, error) {
	draft, err := s.loadOwnedDraft(ctx, ownerID, draftID)
	if err != nil {
		return nil, err
	}
	entries, err := s.draftRepo.FindEntriesByDraftID(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries of draft %s: %w", draftID, err)
	}
	draft.Entries = entries
	return draft, nil
}

func (s *draftService) ListDrafts(ctx context.Context, ownerID string, params dto.ListDraftsParams) (*dto.ListDraftsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	} else if limit > maxListLimit {
		limit = maxListLimit
	}
	drafts, nextToken, err := s.draftRepo.ListDraftsByOwner(ctx, ownerID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	resp := &dto.ListDraftsResponse{
		Drafts:    make([]dto.DraftResponse, len(drafts)),
		NextToken: nextToken,
	}
	for i := range drafts {
		resp.Drafts[i] = dto.ToDraftResponse(&drafts[i])
	}
	return resp, nil
}

func (s *draftService) ImportMovements(ctx context.Context, ownerID string, req dto.ImportMovementsRequest) (*dto.ImportResult, error) {
	if req.AccountID != nil {
		account, err := s.accountRepo.FindAccountByID(ctx, *req.AccountID)
		if err != nil {
			return nil, fmt.Errorf("failed to load account %s: %w", *req.AccountID, err)
		}
		if account.OwnerID != ownerID {
			return nil, fmt.Errorf("%w: account %s does not belong to the caller", apperrors.ErrForbidden, *req.AccountID)
		}
	}

	movements := dto.ToDomainMovements(req.Movements)
	drafts, report, err := s.splitter.BuildDrafts(ctx, ownerID, req.FileName, req.AccountID, movements, s.splitCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build drafts from import: %w", err)
	}

	result := &dto.ImportResult{
		DraftIDs: make([]string, len(drafts)),
		Report:   report,
	}
	for i := range drafts {
		result.DraftIDs[i] = drafts[i].DraftID
	}
	return result, nil
}

func (s *draftService) CreateDraft(ctx context.Context, ownerID string, req dto.CreateDraftRequest) (*domain.Draft, error) {
	now := time.Now()
	draft := domain.Draft{
		DraftID:   uuid.NewString(),
		OwnerID:   ownerID,
		FileName:  req.FileName,
		AccountID: req.AccountID,
		Status:    domain.DraftOpen,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     ownerID,
			LastUpdatedAt: now,
			LastUpdatedBy: ownerID,
		},
	}
	if err := s.draftRepo.SaveDraft(ctx, draft, nil); err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}
	middleware.GetLoggerFromCtx(ctx).Info("draft created", slog.String("draft_id", draft.DraftID))
	return &draft, nil
}

func (s *draftService) AddEntry(ctx context.Context, ownerID string, draftID string, req dto.AddEntryRequest) (*domain.Entry, error) {
	draft, err := s.loadOwnedDraft(ctx, ownerID, draftID)
	if err != nil {
		return nil, err
	}
	if draft.Status == domain.DraftCommitted {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrConflict, ErrDraftCommitted)
	}

	now := time.Now()
	entry := domain.Entry{
		EntryID:     uuid.NewString(),
		DraftID:     draftID,
		BookingDate: req.BookingDate,
		ValutaDate:  req.ValutaDate,
		Amount:      req.Amount,
		Subject:     req.Subject,
		Status:      domain.EntryOpen,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     ownerID,
			LastUpdatedAt: now,
			LastUpdatedBy: ownerID,
		},
	}
	if err := s.draftRepo.SaveEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save entry: %w", err)
	}
	return &entry, nil
}

func (s *draftService) UpdateEntry(ctx context.Context, ownerID string, draftID string, entryID string, patch domain.EntryPatch) (*domain.Entry, error) {
	draft, err := s.loadOwnedDraft(ctx, ownerID, draftID)
	if err != nil {
		return nil, err
	}
	if draft.Status == domain.DraftCommitted {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrConflict, ErrDraftCommitted)
	}
	entry, err := s.draftRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load entry %s: %w", entryID, err)
	}
	if entry.DraftID != draftID {
		return nil, fmt.Errorf("%w: entry %s not found on draft %s", apperrors.ErrNotFound, entryID, draftID)
	}

	applyEntryPatch(entry, patch)

	if patch.SavingsPlanID != nil {
		if err := s.checkPlanAssignable(ctx, draft, entry); err != nil {
			return nil, err
		}
	}
	if patch.SecurityID != nil {
		if err := s.checkSecurityAssignable(ctx, draft, entry); err != nil {
			return nil, err
		}
	}

	entry.LastUpdatedAt = time.Now()
	entry.LastUpdatedBy = ownerID
	if err := s.draftRepo.UpdateEntry(ctx, *entry); err != nil {
		return nil, fmt.Errorf("failed to update entry %s: %w", entryID, err)
	}
	return entry, nil
}

// applyEntryPatch applies the presence-explicit patch: a nil field leaves the
// entry untouched, a Clear flag resets the optional field.
func applyEntryPatch(entry *domain.Entry, patch domain.EntryPatch) {
	if patch.BookingDate != nil {
		entry.BookingDate = *patch.BookingDate
	}
	if patch.Amount != nil {
		entry.Amount = *patch.Amount
	}
	if patch.Subject != nil {
		entry.Subject = *patch.Subject
	}
	if patch.Status != nil {
		entry.Status = *patch.Status
	}
	if patch.CostNeutral != nil {
		entry.CostNeutral = *patch.CostNeutral
	}

	if patch.ClearValutaDate {
		entry.ValutaDate = nil
	} else if patch.ValutaDate != nil {
		entry.ValutaDate = patch.ValutaDate
	}

	if patch.ClearContact {
		entry.ContactID = nil
	} else if patch.ContactID != nil {
		entry.ContactID = patch.ContactID
	}

	if patch.ClearSavingsPlan {
		entry.SavingsPlanID = nil
		entry.ArchiveOnBooking = false
	} else if patch.SavingsPlanID != nil {
		entry.SavingsPlanID = patch.SavingsPlanID
	}
	if patch.ArchiveOnBooking != nil {
		entry.ArchiveOnBooking = *patch.ArchiveOnBooking
	}

	if patch.ClearSecurity {
		entry.SecurityID = nil
		entry.SecurityTxKind = nil
		entry.Quantity = nil
	} else if patch.SecurityID != nil {
		entry.SecurityID = patch.SecurityID
	}
	if patch.SecurityTxKind != nil {
		entry.SecurityTxKind = patch.SecurityTxKind
	}
	if patch.Quantity != nil {
		entry.Quantity = patch.Quantity
	}
	if patch.Fee != nil {
		entry.Fee = *patch.Fee
	}
	if patch.Tax != nil {
		entry.Tax = *patch.Tax
	}
}

// checkPlanAssignable enforces the structural preconditions of a savings-plan
// assignment: the entry must resolve to the own contact, on an account that
// allows plans.
func (s *draftService) checkPlanAssignable(ctx context.Context, draft *domain.Draft, entry *domain.Entry) error {
	if entry.ContactID == nil {
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrPlanNeedsSelfContact)
	}
	contact, err := s.contactRepo.FindContactByID(ctx, *entry.ContactID)
	if err != nil {
		return fmt.Errorf("failed to load contact %s: %w", *entry.ContactID, err)
	}
	if !contact.Self {
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrPlanNeedsSelfContact)
	}
	if draft.AccountID == nil {
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrPlanNotAllowedOnAccount)
	}
	account, err := s.accountRepo.FindAccountByID(ctx, *draft.AccountID)
	if err != nil {
		return fmt.Errorf("failed to load account %s: %w", *draft.AccountID, err)
	}
	if !account.AllowsSavingsPlans() {
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrPlanNotAllowedOnAccount)
	}
	return nil
}

// checkSecurityAssignable enforces that security fields are only assigned when
// the entry's counter-party is the detected account's bank contact.
func (s *draftService) checkSecurityAssignable(ctx context.Context, draft *domain.Draft, entry *domain.Entry) error {
	if draft.AccountID == nil || entry.ContactID == nil {
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrSecurityNeedsBankContact)
	}
	account, err := s.accountRepo.FindAccountByID(ctx, *draft.AccountID)
	if err != nil {
		return fmt.Errorf("failed to load account %s: %w", *draft.AccountID, err)
	}
	if account.BankContactID == nil || *account.BankContactID != *entry.ContactID {
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrSecurityNeedsBankContact)
	}
	return nil
}

func (s *draftService) AssignSplitDraft(ctx context.Context, ownerID string, draftID string, entryID string, splitDraftID string) error {
	draft, err := s.loadOwnedDraft(ctx, ownerID, draftID)
	if err != nil {
		return err
	}
	entry, err := s.draftRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("failed to load entry %s: %w", entryID, err)
	}
	if entry.DraftID != draftID {
		return fmt.Errorf("%w: entry %s not found on draft %s", apperrors.ErrNotFound, entryID, draftID)
	}
	if entry.SplitDraftID != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrConflict, ErrEntryAlreadySplit)
	}
	if splitDraftID == draftID {
		return fmt.Errorf("%w: %w", apperrors.ErrConflict, ErrSplitSelfReference)
	}

	target, err := s.loadOwnedDraft(ctx, ownerID, splitDraftID)
	if err != nil {
		return err
	}
	if draft.UploadGroupID != nil && target.UploadGroupID != nil && *draft.UploadGroupID == *target.UploadGroupID {
		return fmt.Errorf("%w: %w", apperrors.ErrConflict, ErrSplitSameUploadGroup)
	}
	if target.AccountID != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrConflict, ErrSplitTargetHasAccount)
	}
	if _, err := s.draftRepo.FindParentEntryBySplitDraft(ctx, splitDraftID); err == nil {
		return fmt.Errorf("%w: %w", apperrors.ErrConflict, ErrSplitTargetAlreadyLinked)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to check links of draft %s: %w", splitDraftID, err)
	}

	entry.SplitDraftID = &splitDraftID
	entry.LastUpdatedAt = time.Now()
	entry.LastUpdatedBy = ownerID
	if err := s.draftRepo.UpdateEntry(ctx, *entry); err != nil {
		return fmt.Errorf("failed to update entry %s: %w", entryID, err)
	}
	middleware.GetLoggerFromCtx(ctx).Info("split draft assigned",
		slog.String("draft_id", draftID),
		slog.String("entry_id", entryID),
		slog.String("split_draft_id", splitDraftID),
	)
	return nil
}

func (s *draftService) DeleteDraft(ctx context.Context, ownerID string, draftID string) error {
	draft, err := s.loadOwnedDraft(ctx, ownerID, draftID)
	if err != nil {
		return err
	}
	if draft.Status == domain.DraftCommitted {
		return fmt.Errorf("%w: %w", apperrors.ErrConflict, ErrDraftCommitted)
	}
	if _, err := s.draftRepo.FindParentEntryBySplitDraft(ctx, draftID); err == nil {
		return fmt.Errorf("%w: %w", apperrors.ErrConflict, ErrSplitTargetAlreadyLinked)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to check links of draft %s: %w", draftID, err)
	}
	if err := s.draftRepo.DeleteDraft(ctx, draftID); err != nil {
		return fmt.Errorf("failed to delete draft %s: %w", draftID, err)
	}
	return nil
}
