package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/kontoflow/kontoflow_backend/internal/core/domain"
	portssvc "github.com/kontoflow/kontoflow_backend/internal/core/ports/services"
	"github.com/kontoflow/kontoflow_backend/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const (
	testOwnerID   = "owner-1"
	testAccountID = "account-1"
	testDraftID   = "draft-1"
)

type ValidationServiceTestSuite struct {
	suite.Suite
	ctx         context.Context
	draftRepo   *MockDraftRepository
	accountRepo *MockAccountRepository
	contactRepo *MockContactRepository
	planRepo    *MockSavingsPlanRepository
	postingRepo *MockPostingRepository
	svc         portssvc.ValidationSvcFacade
}

func (s *ValidationServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.draftRepo = new(MockDraftRepository)
	s.accountRepo = new(MockAccountRepository)
	s.contactRepo = new(MockContactRepository)
	s.planRepo = new(MockSavingsPlanRepository)
	s.postingRepo = new(MockPostingRepository)
	s.svc = services.NewValidationService(s.draftRepo, s.accountRepo, s.contactRepo, s.planRepo, s.postingRepo)
}

func TestValidationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ValidationServiceTestSuite))
}

func strPtr(v string) *string { return &v }

func (s *ValidationServiceTestSuite) checkingAccount() *domain.Account {
	return &domain.Account{
		AccountID:              testAccountID,
		OwnerID:                testOwnerID,
		Name:                   "Checking",
		AccountType:            domain.AccountChecking,
		BankContactID:          strPtr("bank-contact"),
		SavingsPlanExpectation: domain.SavingsPlanNone,
	}
}

func (s *ValidationServiceTestSuite) draftWithAccount() *domain.Draft {
	return &domain.Draft{
		DraftID:   testDraftID,
		OwnerID:   testOwnerID,
		FileName:  "statement.pdf",
		AccountID: strPtr(testAccountID),
		Status:    domain.DraftOpen,
	}
}

func (s *ValidationServiceTestSuite) accountedEntry(entryID string, amount int64) domain.Entry {
	return domain.Entry{
		EntryID:     entryID,
		DraftID:     testDraftID,
		BookingDate: time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.NewFromInt(amount),
		Subject:     "subject " + entryID,
		ContactID:   strPtr("contact-1"),
		Status:      domain.EntryAccounted,
	}
}

// expectNoDuePlans stubs the due-plan reminder to find nothing.
func (s *ValidationServiceTestSuite) expectNoDuePlans() {
	s.planRepo.On("ListPlansByOwner", s.ctx, testOwnerID, true).Return([]domain.SavingsPlan{}, nil)
}

func codesOf(messages []domain.Diagnostic) []domain.DiagnosticCode {
	codes := make([]domain.DiagnosticCode, len(messages))
	for i, m := range messages {
		codes[i] = m.Code
	}
	return codes
}

func (s *ValidationServiceTestSuite) TestValidate_NoAccount() {
	draft := s.draftWithAccount()
	draft.AccountID = nil
	s.draftRepo.On("FindDraftByID", s.ctx, testDraftID).Return(draft, nil)
	s.draftRepo.On("FindEntriesByDraftID", s.ctx, testDraftID).Return([]domain.Entry{}, nil)

	result, err := s.svc.Validate(s.ctx, testDraftID, nil, testOwnerID)

	s.Require().NoError(err)
	s.False(result.Valid)
	s.Require().Len(result.Messages, 1)
	s.Equal(domain.CodeNoAccount, result.Messages[0].Code)
	s.Equal(domain.SeverityError, result.Messages[0].Severity)
}

func (s *ValidationServiceTestSuite) TestValidate_CleanEntryIsValid() {
	entry := s.accountedEntry("entry-1", -42)
	s.draftRepo.On("FindDraftByID", s.ctx, testDraftID).Return(s.draftWithAccount(), nil)
	s.draftRepo.On("FindEntriesByDraftID", s.ctx, testDraftID).Return([]domain.Entry{entry}, nil)
	s.accountRepo.On("FindAccountByID", s.ctx, testAccountID).Return(s.checkingAccount(), nil)
	s.contactRepo.On("FindContactByID", s.ctx, "contact-1").Return(&domain.Contact{ContactID: "contact-1", Name: "Grocer"}, nil)
	s.expectNoDuePlans()

	result, err := s.svc.Validate(s.ctx, testDraftID, nil, testOwnerID)

	s.Require().NoError(err)
	s.True(result.Valid)
	s.Empty(result.Messages)
	s.draftRepo.AssertNotCalled(s.T(), "UpdateEntryStatuses", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ValidationServiceTestSuite) TestValidate_MissingContactFlipsEntryOpen() {
	entry := s.accountedEntry("entry-1", -42)
	entry.ContactID = nil
	s.draftRepo.On("FindDraftByID", s.ctx, testDraftID).Return(s.draftWithAccount(), nil)
	s.draftRepo.On("FindEntriesByDraftID", s.ctx, testDraftID).Return([]domain.Entry{entry}, nil)
	s.accountRepo.On("FindAccountByID", s.ctx, testAccountID).Return(s.checkingAccount(), nil)
	s.expectNoDuePlans()
	s.draftRepo.On("UpdateEntryStatuses", s.ctx, []string{"entry-1"}, domain.EntryOpen, testOwnerID, mock.AnythingOfType("time.Time")).Return(nil)

	result, err := s.svc.Validate(s.ctx, testDraftID, nil, testOwnerID)

	s.Require().NoError(err)
	s.False(result.Valid)
	s.Equal([]domain.DiagnosticCode{domain.CodeEntryNoContact}, codesOf(result.Messages))
	s.draftRepo.AssertExpectations(s.T())
}

func (s *ValidationServiceTestSuite) TestValidate_OpenEntryNeedsCheck() {
	entry := s.accountedEntry("entry-1", -42)
	entry.Status = domain.EntryOpen
	s.draftRepo.On("FindDraftByID", s.ctx, testDraftID).Return(s.draftWithAccount(), nil)
	s.draftRepo.On("FindEntriesByDraftID", s.ctx, testDraftID).Return([]domain.Entry{entry}, nil)
	s.accountRepo.On("FindAccountByID", s.ctx, testAccountID).Return(s.checkingAccount(), nil)
	s.expectNoDuePlans()

	result, err := s.svc.Validate(s.ctx, testDraftID, nil, testOwnerID)

	s.Require().NoError(err)
	s.False(result.Valid)
	s.Equal([]domain.DiagnosticCode{domain.CodeEntryNeedsCheck}, codesOf(result.Messages))
	// Already OPEN, nothing to flip.
	s.draftRepo.AssertNotCalled(s.T(), "UpdateEntryStatuses", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ValidationServiceTestSuite) TestValidate_SettledEntriesOutOfScope() {
	booked := s.accountedEntry("entry-1", -42)
	booked.Status = domain.EntryAlreadyBooked
	booked.ContactID = nil
	announced := s.accountedEntry("entry-2", -10)
	announced.Status = domain.EntryAnnounced
	announced.ContactID = nil
	s.draftRepo.On("FindDraftByID", s.ctx, testDraftID).Return(s.draftWithAccount(), nil)
	s.draftRepo.On("FindEntriesByDraftID", s.ctx, testDraftID).Return([]domain.Entry{booked, announced}, nil)
	s.accountRepo.On("FindAccountByID", s.ctx, testAccountID).Return(s.checkingAccount(), nil)
	s.expectNoDuePlans()

	result, err := s.svc.Validate(s.ctx, testDraftID, nil, testOwnerID)

	s.Require().NoError(err)
	s.True(result.Valid)
	s.Empty(result.Messages)
}

func (s *ValidationServiceTestSuite) TestValidate_IntermediaryWithoutSplit() {
	entry := s.accountedEntry("entry-1", -100)
	s.draftRepo.On("FindDraftByID", s.ctx, testDraftID).Return(s.draftWithAccount(), nil)
	s.draftRepo.On("FindEntriesByDraftID", s.ctx, testDraftID).Return([]domain.Entry{entry}, nil)
	s.accountRepo.On("FindAccountByID", s.ctx, testAccountID).Return(s.checkingAccount(), nil)
	s.contactRepo.On("FindContactByID", s.ctx, "contact-1").Return(&domain.Contact{ContactID: "contact-1", Name: "CardCorp", Intermediary: true}, nil)
	s.expectNoDuePlans()
	s.draftRepo.On("UpdateEntryStatuses", s.ctx, []string{"entry-1"}, domain.EntryOpen, testOwnerID, mock.AnythingOfType("time.Time")).Return(nil)

	result, err := s.svc.Validate(s.ctx, testDraftID, nil, testOwnerID)

	s.Require().NoError(err)
	s.False(result.Valid)
	s.Equal([]domain.DiagnosticCode{domain.CodeIntermediaryNoSplit}, codesOf(result.Messages))
}

func (s *ValidationServiceTestSuite) TestValidate_SplitGroupAmountMismatch() {
	parent := s.accountedEntry("entry-1", -100)
	parent.SplitDraftID = strPtr("split-1")
	splitDraft := &domain.Draft{DraftID: "split-1", OwnerID: testOwnerID, FileName: "split.csv", UploadGroupID: strPtr("upload-9"), Status: domain.DraftOpen}
	splitEntry := domain.Entry{
		EntryID:     "split-entry-1",
		DraftID:     "split-1",
		BookingDate: time.Date(2024, time.March, 6, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.NewFromInt(-80),
		Subject:     "underlying purchase",
		ContactID:   strPtr("contact-2"),
		Status:      domain.EntryAccounted,
	}

	s.draftRepo.On("FindDraftByID", s.ctx, testDraftID).Return(s.draftWithAccount(), nil)
	s.draftRepo.On("FindEntriesByDraftID", s.ctx, testDraftID).Return([]domain.Entry{parent}, nil)
	s.accountRepo.On("FindAccountByID", s.ctx, testAccountID).Return(s.checkingAccount(), nil)
	s.draftRepo.On("FindDraftByID", s.ctx, "split-1").Return(splitDraft, nil)
	s.draftRepo.On("FindEntriesByDraftID", s.ctx, "split-1").Return([]domain.Entry{splitEntry}, nil)
	s.draftRepo.On("FindDraftsByUploadGroup", s.ctx, "upload-9").Return([]domain.Draft{*splitDraft}, nil)
	s.contactRepo.On("FindContactByID", s.ctx, "contact-1").Return(&domain.Contact{ContactID: "contact-1", Name: "CardCorp", Intermediary: true}, nil)
	s.contactRepo.On("FindContactByID", s.ctx, "contact-2").Return(&domain.Contact{ContactID: "contact-2", Name: "Grocer"}, nil)
	s.expectNoDuePlans()
	s.draftRepo.On("UpdateEntryStatuses", s.ctx, []string{"entry-1"}, domain.EntryOpen, testOwnerID, mock.AnythingOfType("time.Time")).Return(nil)

	result, err := s.svc.Validate(s.ctx, testDraftID, nil, testOwnerID)

	s.Require().NoError(err)
	s.False(result.Valid)
	s.Equal([]domain.DiagnosticCode{domain.CodeSplitAmountMismatch}, codesOf(result.Messages))
}

func (s *ValidationServiceTestSuite) TestValidate_SplitGroupMessagesArePrefixed() {
	parent := s.accountedEntry("entry-1", -100)
	parent.SplitDraftID = strPtr("split-1")
	splitDraft := &domain.Draft{DraftID: "split-1", OwnerID: testOwnerID, FileName: "split.csv", UploadGroupID: strPtr("upload-9"), Status: domain.DraftOpen}
	splitEntry := domain.Entry{
		EntryID:     "split-entry-1",
		DraftID:     "split-1",
		BookingDate: time.Date(2024, time.March, 6, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.NewFromInt(-100),
		Subject:     "underlying purchase",
		Status:      domain.EntryAccounted,
	}

	s.draftRepo.On("FindDraftByID", s.ctx, testDraftID).Return(s.draftWithAccount(), nil)
	s.draftRepo.On("FindEntriesByDraftID", s.ctx, testDraftID).Return([]domain.Entry{parent}, nil)
	s.accountRepo.On("FindAccountByID", s.ctx, testAccountID).Return(s.checkingAccount(), nil)
	s.draftRepo.On("FindDraftByID", s.ctx, "split-1").Return(splitDraft, nil)
	s.draftRepo.On("FindEntriesByDraftID", s.ctx, "split-1").Return([]domain.Entry{splitEntry}, nil)
	s.draftRepo.On("FindDraftsByUploadGroup", s.ctx, "upload-9").Return([]domain.Draft{*splitDraft}, nil)
	s.contactRepo.On("FindContactByID", s.ctx, "contact-1").Return(&domain.Contact{ContactID: "contact-1", Name: "CardCorp", Intermediary: true}, nil)
	s.expectNoDuePlans()
	s.draftRepo.On("UpdateEntryStatuses", s.ctx, []string{"split-entry-1"}, domain.EntryOpen, testOwnerID, mock.AnythingOfType("time.Time")).Return(nil)

	result, err := s.svc.Validate(s.ctx, testDraftID, nil, testOwnerID)

	s.Require().NoError(err)
	s.False(result.Valid)
	s.Require().Len(result.Messages, 1)
	s.Equal(domain.CodeEntryNoContact, result.Messages[0].Code)
	s.Contains(result.Messages[0].Text, "[Split] ")
}

func (s *ValidationServiceTestSuite) TestValidate_SplitCycleDetected() {
	parent := s.accountedEntry("entry-1", -100)
	parent.SplitDraftID = strPtr("split-1")
	splitDraft := &domain.Draft{DraftID: "split-1", OwnerID: testOwnerID, FileName: "split.csv", Status: domain.DraftOpen}
	backRef := domain.Entry{
		EntryID:      "split-entry-1",
		DraftID:      "split-1",
		BookingDate:  time.Date(2024, time.March, 6, 0, 0, 0, 0, time.UTC),
		Amount:       decimal.NewFromInt(-100),
		Subject:      "loops back",
		ContactID:    strPtr("contact-2"),
		SplitDraftID: strPtr(testDraftID),
		Status:       domain.EntryAccounted,
	}

	s.draftRepo.On("FindDraftByID", s.ctx, testDraftID).Return(s.draftWithAccount(), nil)
	s.draftRepo.On("FindEntriesByDraftID", s.ctx, testDraftID).Return([]domain.Entry{parent}, nil)
	s.accountRepo.On("FindAccountByID", s.ctx, testAccountID).Return(s.checkingAccount(), nil)
	s.draftRepo.On("FindDraftByID", s.ctx, "split-1").Return(splitDraft, nil)
	s.draftRepo.On("FindEntriesByDraftID", s.ctx, "split-1").Return([]domain.Entry{backRef}, nil)
	s.contactRepo.On("FindContactByID", s.ctx, "contact-1").Return(&domain.Contact{ContactID: "contact-1", Name: "Grocer"}, nil)
	s.expectNoDuePlans()

	result, err := s.svc.Validate(s.ctx, testDraftID, nil, testOwnerID)

	s.Require().NoError(err)
	s.False(result.Valid)
	s.Contains(codesOf(result.Messages), domain.CodeSplitCycleDetected)
}

func (s *ValidationServiceTestSuite) TestValidate_SelfWithoutPlanSeverityByExpectation() {
	tests := []struct {
		name         string
		expectation  domain.SavingsPlanExpectation
		wantCount    int
		wantSeverity domain.Severity
	}{
		{"required", domain.SavingsPlanRequired, 1, domain.SeverityError},
		{"optional", domain.SavingsPlanOptional, 1, domain.SeverityWarning},
		{"none", domain.SavingsPlanNone, 0, ""},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()
			entry := s.accountedEntry("entry-1", -50)
			account := s.checkingAccount()
			account.SavingsPlanExpectation = tt.expectation

			s.draftRepo.On("FindDraftByID", s.ctx, testDraftID).Return(s.draftWithAccount(), nil)
			s.draftRepo.On("FindEntriesByDraftID", s.ctx, testDraftID).Return([]domain.Entry{entry}, nil)
			s.accountRepo.On("FindAccountByID", s.ctx, testAccountID).Return(account, nil)
			s.contactRepo.On("FindContactByID", s.ctx, "contact-1").Return(&domain.Contact{ContactID: "contact-1", Name: "Me", Self: true}, nil)
			s.expectNoDuePlans()
			s.draftRepo.On("UpdateEntryStatuses", s.ctx, mock.Anything, domain.EntryOpen, testOwnerID, mock.AnythingOfType("time.Time")).Return(nil).Maybe()

			result, err := s.svc.Validate(s.ctx, testDraftID, nil, testOwnerID)

			s.Require().NoError(err)
			s.Require().Len(result.Messages, tt.wantCount)
			if tt.wantCount > 0 {
				s.Equal(domain.CodeSavingsPlanMissingForSelf, result.Messages[0].Code)
				s.Equal(tt.wantSeverity, result.Messages[0].Severity)
			}
		})
	}
}

func (s *ValidationServiceTestSuite) TestValidate_PlanOnSavingsAccount() {
	entry := s.accountedEntry("entry-1", -50)
	entry.SavingsPlanID = strPtr("plan-1")
	account := s.checkingAccount()
	account.AccountType = domain.AccountSavings

	s.draftRepo.On("FindDraftByID", s.ctx, testDraftID).Return(s.draftWithAccount(), nil)
	s.draftRepo.On("FindEntriesByDraftID", s.ctx, testDraftID).Return([]domain.Entry{entry}, nil)
	s.accountRepo.On("FindAccountByID", s.ctx, testAccountID).Return(account, nil)
	s.contactRepo.On("FindContactByID", s.ctx, "contact-1").Return(&domain.Contact{ContactID: "contact-1", Name: "Me", Self: true}, nil)
	s.planRepo.On("FindPlansByIDs", s.ctx, []string{"plan-1"}).Return(map[string]domain.SavingsPlan{}, nil)
	s.expectNoDuePlans()
	s.draftRepo.On("UpdateEntryStatuses", s.ctx, []string{"entry-1"}, domain.EntryOpen, testOwnerID, mock.AnythingOfType("time.Time")).Return(nil)

	result, err := s.svc.Validate(s.ctx, testDraftID, nil, testOwnerID)

	s.Require().NoError(err)
	s.Equal([]domain.DiagnosticCode{domain.CodeSavingsPlanInvalidAccount}, codesOf(result.Messages))
}

func (s *ValidationServiceTestSuite) TestValidate_SecurityRules() {
	qty := decimal.NewFromInt(3)
	buy := domain.SecurityBuy
	dividend := domain.SecurityDividend

	tests := []struct {
		name      string
		mutate    func(e *domain.Entry)
		wantCodes []domain.DiagnosticCode
	}{
		{
			"missing tx kind",
			func(e *domain.Entry) { e.SecurityTxKind = nil },
			[]domain.DiagnosticCode{domain.CodeSecurityMissingTxType},
		},
		{
			"buy without quantity",
			func(e *domain.Entry) { e.Quantity = nil },
			[]domain.DiagnosticCode{domain.CodeSecurityMissingQuantity},
		},
		{
			"dividend with quantity",
			func(e *domain.Entry) { e.SecurityTxKind = &dividend },
			[]domain.DiagnosticCode{domain.CodeSecurityQuantityDividend},
		},
		{
			"fee and tax exceed amount",
			func(e *domain.Entry) {
				e.Fee = decimal.NewFromInt(60)
				e.Tax = decimal.NewFromInt(50)
			},
			[]domain.DiagnosticCode{domain.CodeSecurityFeeTaxExceeds},
		},
		{
			"wrong contact",
			func(e *domain.Entry) { e.ContactID = strPtr("contact-1") },
			[]domain.DiagnosticCode{domain.CodeSecurityInvalidContact},
		},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()
			entry := s.accountedEntry("entry-1", -100)
			entry.ContactID = strPtr("bank-contact")
			entry.SecurityID = strPtr("security-1")
			entry.SecurityTxKind = &buy
			entry.Quantity = &qty
			tt.mutate(&entry)

			s.draftRepo.On("FindDraftByID", s.ctx, testDraftID).Return(s.draftWithAccount(), nil)
			s.draftRepo.On("FindEntriesByDraftID", s.ctx, testDraftID).Return([]domain.Entry{entry}, nil)
			s.accountRepo.On("FindAccountByID", s.ctx, testAccountID).Return(s.checkingAccount(), nil)
			s.contactRepo.On("FindContactByID", s.ctx, "bank-contact").Return(&domain.Contact{ContactID: "bank-contact", Name: "Bank"}, nil)
			s.contactRepo.On("FindContactByID", s.ctx, "contact-1").Return(&domain.Contact{ContactID: "contact-1", Name: "Grocer"}, nil)
			s.expectNoDuePlans()
			s.draftRepo.On("UpdateEntryStatuses", s.ctx, []string{"entry-1"}, domain.EntryOpen, testOwnerID, mock.AnythingOfType("time.Time")).Return(nil)

			result, err := s.svc.Validate(s.ctx, testDraftID, nil, testOwnerID)

			s.Require().NoError(err)
			s.False(result.Valid)
			s.Equal(tt.wantCodes, codesOf(result.Messages))
		})
	}
}

func (s *ValidationServiceTestSuite) TestValidate_PlanGoalProjection() {
	target := decimal.NewFromInt(1000)

	tests := []struct {
		name     string
		posted   decimal.Decimal
		archive  bool
		wantCode domain.DiagnosticCode
		wantNone bool
	}{
		{"goal reached", decimal.NewFromInt(950), false, domain.CodeSavingsPlanGoalReached, false},
		{"goal exceeded", decimal.NewFromInt(980), false, domain.CodeSavingsPlanGoalExceeds, false},
		{"under goal", decimal.NewFromInt(100), false, "", true},
		{"archive mismatch", decimal.NewFromInt(100), true, domain.CodeSavingsPlanArchiveMism, false},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()
			entry := s.accountedEntry("entry-1", -50) // contributes +50 to the plan
			entry.SavingsPlanID = strPtr("plan-1")
			entry.ArchiveOnBooking = tt.archive

			plan := domain.SavingsPlan{PlanID: "plan-1", OwnerID: testOwnerID, Name: "Vacation", TargetAmount: &target}

			s.draftRepo.On("FindDraftByID", s.ctx, testDraftID).Return(s.draftWithAccount(), nil)
			s.draftRepo.On("FindEntriesByDraftID", s.ctx, testDraftID).Return([]domain.Entry{entry}, nil)
			s.accountRepo.On("FindAccountByID", s.ctx, testAccountID).Return(s.checkingAccount(), nil)
			s.contactRepo.On("FindContactByID", s.ctx, "contact-1").Return(&domain.Contact{ContactID: "contact-1", Name: "Me", Self: true}, nil)
			s.planRepo.On("FindPlansByIDs", s.ctx, []string{"plan-1"}).Return(map[string]domain.SavingsPlan{"plan-1": plan}, nil)
			s.postingRepo.On("SumPlanPostings", s.ctx, "plan-1").Return(tt.posted, nil)
			s.expectNoDuePlans()
			s.draftRepo.On("UpdateEntryStatuses", s.ctx, mock.Anything, domain.EntryOpen, testOwnerID, mock.AnythingOfType("time.Time")).Return(nil).Maybe()

			result, err := s.svc.Validate(s.ctx, testDraftID, nil, testOwnerID)

			s.Require().NoError(err)
			if tt.wantNone {
				s.Empty(result.Messages)
			} else {
				s.Equal([]domain.DiagnosticCode{tt.wantCode}, codesOf(result.Messages))
			}
		})
	}
}

func (s *ValidationServiceTestSuite) TestValidate_DuePlanReminder() {
	target := decimal.NewFromInt(500)
	// Saturday; the weekend adjustment moves it to Monday March 4th, still
	// before the entry's booking date.
	due := time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC)
	plan := domain.SavingsPlan{
		PlanID:       "plan-due",
		OwnerID:      testOwnerID,
		Name:         "Car",
		PlanType:     domain.PlanRecurring,
		Interval:     domain.IntervalMonthly,
		TargetAmount: &target,
		TargetDate:   &due,
	}
	entry := s.accountedEntry("entry-1", -42)

	s.draftRepo.On("FindDraftByID", s.ctx, testDraftID).Return(s.draftWithAccount(), nil)
	s.draftRepo.On("FindEntriesByDraftID", s.ctx, testDraftID).Return([]domain.Entry{entry}, nil)
	s.accountRepo.On("FindAccountByID", s.ctx, testAccountID).Return(s.checkingAccount(), nil)
	s.contactRepo.On("FindContactByID", s.ctx, "contact-1").Return(&domain.Contact{ContactID: "contact-1", Name: "Grocer"}, nil)
	s.planRepo.On("ListPlansByOwner", s.ctx, testOwnerID, true).Return([]domain.SavingsPlan{plan}, nil)
	s.postingRepo.On("ExistsPlanPostingInMonth", s.ctx, "plan-due", entry.BookingDate).Return(false, nil)
	s.draftRepo.On("ExistsOpenEntryWithPlan", s.ctx, testOwnerID, "plan-due", testDraftID).Return(false, nil)

	result, err := s.svc.Validate(s.ctx, testDraftID, nil, testOwnerID)

	s.Require().NoError(err)
	s.True(result.Valid)
	s.Equal([]domain.DiagnosticCode{domain.CodeSavingsPlanDue}, codesOf(result.Messages))
	s.Equal(domain.SeverityInfo, result.Messages[0].Severity)
}

func (s *ValidationServiceTestSuite) TestValidate_SingleEntrySkipsDraftLevelPlanChecks() {
	entry := s.accountedEntry("entry-1", -42)
	entryID := entry.EntryID
	s.draftRepo.On("FindDraftByID", s.ctx, testDraftID).Return(s.draftWithAccount(), nil)
	s.draftRepo.On("FindEntriesByDraftID", s.ctx, testDraftID).Return([]domain.Entry{entry}, nil)
	s.accountRepo.On("FindAccountByID", s.ctx, testAccountID).Return(s.checkingAccount(), nil)
	s.contactRepo.On("FindContactByID", s.ctx, "contact-1").Return(&domain.Contact{ContactID: "contact-1", Name: "Grocer"}, nil)

	result, err := s.svc.Validate(s.ctx, testDraftID, &entryID, testOwnerID)

	s.Require().NoError(err)
	s.True(result.Valid)
	s.planRepo.AssertNotCalled(s.T(), "ListPlansByOwner", mock.Anything, mock.Anything, mock.Anything)
}
