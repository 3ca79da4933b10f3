package services_test

import (
	"context"
	"time"

	"github.com/kontoflow/kontoflow_backend/internal/core/domain"
	portsrepo "github.com/kontoflow/kontoflow_backend/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock DraftRepository ---
type MockDraftRepository struct {
	mock.Mock
}

// Ensure MockDraftRepository implements portsrepo.DraftRepositoryFacade
var _ portsrepo.DraftRepositoryFacade = (*MockDraftRepository)(nil)

func (m *MockDraftRepository) FindDraftByID(ctx context.Context, draftID string) (*domain.Draft, error) {
	args := m.Called(ctx, draftID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Draft), args.Error(1)
}

func (m *MockDraftRepository) FindEntriesByDraftID(ctx context.Context, draftID string) ([]domain.Entry, error) {
	args := m.Called(ctx, draftID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Entry), args.Error(1)
}

func (m *MockDraftRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.Entry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Entry), args.Error(1)
}

func (m *MockDraftRepository) FindDraftsByUploadGroup(ctx context.Context, uploadGroupID string) ([]domain.Draft, error) {
	args := m.Called(ctx, uploadGroupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Draft), args.Error(1)
}

func (m *MockDraftRepository) FindParentEntryBySplitDraft(ctx context.Context, splitDraftID string) (*domain.Entry, error) {
	args := m.Called(ctx, splitDraftID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Entry), args.Error(1)
}

func (m *MockDraftRepository) ListDraftsByOwner(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.Draft, *string, error) {
	args := m.Called(ctx, ownerID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Draft), returnedNextToken, args.Error(2)
}

func (m *MockDraftRepository) ExistsOpenEntryWithPlan(ctx context.Context, ownerID string, planID string, excludeDraftID string) (bool, error) {
	args := m.Called(ctx, ownerID, planID, excludeDraftID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDraftRepository) SaveDraft(ctx context.Context, draft domain.Draft, entries []domain.Entry) error {
	args := m.Called(ctx, draft, entries)
	return args.Error(0)
}

func (m *MockDraftRepository) UpdateDraftStatus(ctx context.Context, draftID string, status domain.DraftStatus, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, draftID, status, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockDraftRepository) UpdateEntry(ctx context.Context, entry domain.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockDraftRepository) UpdateEntryStatuses(ctx context.Context, entryIDs []string, status domain.EntryStatus, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, entryIDs, status, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockDraftRepository) SaveEntry(ctx context.Context, entry domain.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockDraftRepository) DeleteDraft(ctx context.Context, draftID string) error {
	args := m.Called(ctx, draftID)
	return args.Error(0)
}

// --- Mock PostingRepository ---
type MockPostingRepository struct {
	mock.Mock
}

// Ensure MockPostingRepository implements portsrepo.PostingRepositoryFacade
var _ portsrepo.PostingRepositoryFacade = (*MockPostingRepository)(nil)

func (m *MockPostingRepository) FindPostingByID(ctx context.Context, postingID string) (*domain.Posting, error) {
	args := m.Called(ctx, postingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Posting), args.Error(1)
}

func (m *MockPostingRepository) FindPostingsByGroupID(ctx context.Context, groupID string) ([]domain.Posting, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Posting), args.Error(1)
}

func (m *MockPostingRepository) FindLinkCandidates(ctx context.Context, ownerID string, contactID string, amount decimal.Decimal, subject string) ([]domain.Posting, error) {
	args := m.Called(ctx, ownerID, contactID, amount, subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Posting), args.Error(1)
}

func (m *MockPostingRepository) SumPlanPostings(ctx context.Context, planID string) (decimal.Decimal, error) {
	args := m.Called(ctx, planID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPostingRepository) ExistsPlanPostingInMonth(ctx context.Context, planID string, month time.Time) (bool, error) {
	args := m.Called(ctx, planID, month)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostingRepository) SaveBooking(ctx context.Context, commit portsrepo.BookingCommit) error {
	args := m.Called(ctx, commit)
	return args.Error(0)
}

func (m *MockPostingRepository) LinkPostings(ctx context.Context, postingID string, linkedPostingID string) error {
	args := m.Called(ctx, postingID, linkedPostingID)
	return args.Error(0)
}

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

// Ensure MockAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByOwner(ctx context.Context, ownerID string) ([]domain.Account, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, accountID, updatedBy, updatedAt)
	return args.Error(0)
}

// --- Mock ContactRepository ---
type MockContactRepository struct {
	mock.Mock
}

// Ensure MockContactRepository implements portsrepo.ContactRepositoryFacade
var _ portsrepo.ContactRepositoryFacade = (*MockContactRepository)(nil)

func (m *MockContactRepository) FindContactByID(ctx context.Context, contactID string) (*domain.Contact, error) {
	args := m.Called(ctx, contactID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contact), args.Error(1)
}

func (m *MockContactRepository) FindContactsByIDs(ctx context.Context, contactIDs []string) (map[string]domain.Contact, error) {
	args := m.Called(ctx, contactIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Contact), args.Error(1)
}

func (m *MockContactRepository) FindSelfContact(ctx context.Context, ownerID string) (*domain.Contact, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contact), args.Error(1)
}

func (m *MockContactRepository) ListContactsByOwner(ctx context.Context, ownerID string) ([]domain.Contact, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contact), args.Error(1)
}

func (m *MockContactRepository) SaveContact(ctx context.Context, contact domain.Contact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

func (m *MockContactRepository) UpdateContact(ctx context.Context, contact domain.Contact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

// --- Mock SavingsPlanRepository ---
type MockSavingsPlanRepository struct {
	mock.Mock
}

// Ensure MockSavingsPlanRepository implements portsrepo.SavingsPlanRepositoryFacade
var _ portsrepo.SavingsPlanRepositoryFacade = (*MockSavingsPlanRepository)(nil)

func (m *MockSavingsPlanRepository) FindPlanByID(ctx context.Context, planID string) (*domain.SavingsPlan, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SavingsPlan), args.Error(1)
}

func (m *MockSavingsPlanRepository) FindPlansByIDs(ctx context.Context, planIDs []string) (map[string]domain.SavingsPlan, error) {
	args := m.Called(ctx, planIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.SavingsPlan), args.Error(1)
}

func (m *MockSavingsPlanRepository) ListPlansByOwner(ctx context.Context, ownerID string, activeOnly bool) ([]domain.SavingsPlan, error) {
	args := m.Called(ctx, ownerID, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SavingsPlan), args.Error(1)
}

func (m *MockSavingsPlanRepository) SavePlan(ctx context.Context, plan domain.SavingsPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockSavingsPlanRepository) UpdatePlan(ctx context.Context, plan domain.SavingsPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

// --- Mock SecurityRepository ---
type MockSecurityRepository struct {
	mock.Mock
}

// Ensure MockSecurityRepository implements portsrepo.SecurityRepositoryFacade
var _ portsrepo.SecurityRepositoryFacade = (*MockSecurityRepository)(nil)

func (m *MockSecurityRepository) FindSecurityByID(ctx context.Context, securityID string) (*domain.Security, error) {
	args := m.Called(ctx, securityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Security), args.Error(1)
}

func (m *MockSecurityRepository) ListSecuritiesByOwner(ctx context.Context, ownerID string) ([]domain.Security, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Security), args.Error(1)
}

func (m *MockSecurityRepository) SaveSecurity(ctx context.Context, security domain.Security) error {
	args := m.Called(ctx, security)
	return args.Error(0)
}

// --- Mock AttachmentReassigner ---
type MockAttachmentReassigner struct {
	mock.Mock
}

func (m *MockAttachmentReassigner) Reassign(ctx context.Context, moves []domain.AttachmentMove) error {
	args := m.Called(ctx, moves)
	return args.Error(0)
}

// --- Mock PostingSink ---
type MockPostingSink struct {
	mock.Mock
}

func (m *MockPostingSink) PostingsBooked(ctx context.Context, postings []domain.Posting) error {
	args := m.Called(ctx, postings)
	return args.Error(0)
}
