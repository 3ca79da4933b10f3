package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kontoflow/kontoflow_backend/internal/apperrors"
	"github.com/kontoflow/kontoflow_backend/internal/core/domain"
	portsrepo "github.com/kontoflow/kontoflow_backend/internal/core/ports/repositories"
	portssvc "github.com/kontoflow/kontoflow_backend/internal/core/ports/services"
	"github.com/kontoflow/kontoflow_backend/internal/core/services"
	"github.com/kontoflow/kontoflow_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ValidationService ---
type MockValidationService struct {
	mock.Mock
}

var _ portssvc.ValidationSvcFacade = (*MockValidationService)(nil)

func (m *MockValidationService) Validate(ctx context.Context, draftID string, entryID *string, ownerID string) (*dto.ValidationResult, error) {
	args := m.Called(ctx, draftID, entryID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ValidationResult), args.Error(1)
}

type BookingServiceTestSuite struct {
	suite.Suite
	ctx           context.Context
	draftRepo     *MockDraftRepository
	postingRepo   *MockPostingRepository
	accountRepo   *MockAccountRepository
	contactRepo   *MockContactRepository
	planRepo      *MockSavingsPlanRepository
	validationSvc *MockValidationService
	attachments   *MockAttachmentReassigner
	sink          *MockPostingSink
	svc           portssvc.BookingSvcFacade

	savedCommit portsrepo.BookingCommit
}

func (s *BookingServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.draftRepo = new(MockDraftRepository)
	s.postingRepo = new(MockPostingRepository)
	s.accountRepo = new(MockAccountRepository)
	s.contactRepo = new(MockContactRepository)
	s.planRepo = new(MockSavingsPlanRepository)
	s.validationSvc = new(MockValidationService)
	s.attachments = new(MockAttachmentReassigner)
	s.sink = new(MockPostingSink)
	s.svc = services.NewBookingService(
		s.draftRepo, s.postingRepo, s.accountRepo, s.contactRepo, s.planRepo,
		s.validationSvc, s.attachments, s.sink,
	)
	s.savedCommit = portsrepo.BookingCommit{}
}

func TestBookingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BookingServiceTestSuite))
}

func validResult() *dto.ValidationResult {
	r := dto.NewValidationResult()
	return &r
}

func resultWith(d domain.Diagnostic) *dto.ValidationResult {
	r := dto.NewValidationResult()
	r.Add(d)
	return &r
}

func (s *BookingServiceTestSuite) expectValidation(entryID *string, result *dto.ValidationResult) {
	s.validationSvc.On("Validate", s.ctx, testDraftID, entryID, testOwnerID).Return(result, nil)
}

// expectBookableDraft wires the draft, account and entry loading shared by the
// happy-path tests and captures the persisted commit.
func (s *BookingServiceTestSuite) expectBookableDraft(entries []domain.Entry) {
	s.draftRepo.On("FindParentEntryBySplitDraft", s.ctx, testDraftID).Return(nil, apperrors.ErrNotFound)
	s.draftRepo.On("FindDraftByID", s.ctx, testDraftID).Return(&domain.Draft{
		DraftID:   testDraftID,
		OwnerID:   testOwnerID,
		FileName:  "statement.pdf",
		AccountID: strPtr(testAccountID),
		Status:    domain.DraftOpen,
	}, nil)
	s.accountRepo.On("FindAccountByID", s.ctx, testAccountID).Return(&domain.Account{
		AccountID:     testAccountID,
		OwnerID:       testOwnerID,
		Name:          "Checking",
		AccountType:   domain.AccountChecking,
		BankContactID: strPtr("bank-contact"),
	}, nil)
	s.draftRepo.On("FindEntriesByDraftID", s.ctx, testDraftID).Return(entries, nil)
	s.postingRepo.On("SaveBooking", s.ctx, mock.AnythingOfType("repositories.BookingCommit")).
		Run(func(args mock.Arguments) {
			s.savedCommit = args.Get(1).(portsrepo.BookingCommit)
		}).Return(nil)
	s.attachments.On("Reassign", s.ctx, mock.Anything).Return(nil)
	s.sink.On("PostingsBooked", s.ctx, mock.Anything).Return(nil)
}

func plainEntry(entryID string, amount int64) domain.Entry {
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

func postingsOfKind(postings []domain.Posting, kind domain.PostingKind) []domain.Posting {
	var out []domain.Posting
	for _, p := range postings {
		if p.Kind == kind {
			out = append(out, p)
		}
	}
	return out
}

func (s *BookingServiceTestSuite) TestBook_ErrorSeverityAborts() {
	s.expectValidation(nil, resultWith(domain.NewDiagnostic(domain.CodeEntryNoContact, testDraftID, strPtr("entry-1"), "x")))

	result, err := s.svc.Book(s.ctx, testDraftID, nil, testOwnerID, false)

	s.Require().NoError(err)
	s.False(result.Booked)
	s.Zero(result.PostingsCreated)
	s.postingRepo.AssertNotCalled(s.T(), "SaveBooking", mock.Anything, mock.Anything)
}

func (s *BookingServiceTestSuite) TestBook_WarningNeedsForce() {
	warning := domain.NewDiagnosticWithSeverity(domain.CodeSavingsPlanMissingForSelf, domain.SeverityWarning, testDraftID, strPtr("entry-1"), "x")

	s.expectValidation(nil, resultWith(warning))
	result, err := s.svc.Book(s.ctx, testDraftID, nil, testOwnerID, false)
	s.Require().NoError(err)
	s.False(result.Booked)
	s.postingRepo.AssertNotCalled(s.T(), "SaveBooking", mock.Anything, mock.Anything)

	s.SetupTest()
	s.expectValidation(nil, resultWith(warning))
	entry := plainEntry("entry-1", -42)
	s.expectBookableDraft([]domain.Entry{entry})
	s.contactRepo.On("FindContactByID", s.ctx, "contact-1").Return(&domain.Contact{ContactID: "contact-1", Name: "Grocer"}, nil)

	result, err = s.svc.Book(s.ctx, testDraftID, nil, testOwnerID, true)
	s.Require().NoError(err)
	s.True(result.Booked)
	s.Equal(2, result.PostingsCreated)
}

func (s *BookingServiceTestSuite) TestBook_PlainEntry() {
	entry := plainEntry("entry-1", -42)
	s.expectValidation(nil, validResult())
	s.expectBookableDraft([]domain.Entry{entry})
	s.contactRepo.On("FindContactByID", s.ctx, "contact-1").Return(&domain.Contact{ContactID: "contact-1", Name: "Grocer"}, nil)

	result, err := s.svc.Book(s.ctx, testDraftID, nil, testOwnerID, false)

	s.Require().NoError(err)
	s.True(result.Booked)
	s.True(result.DraftCommitted)
	s.Equal(2, result.PostingsCreated)
	s.Zero(result.RemainingEntries)

	s.Require().Len(s.savedCommit.Postings, 2)
	bank, contact := s.savedCommit.Postings[0], s.savedCommit.Postings[1]
	s.Equal(domain.PostingBank, bank.Kind)
	s.Equal(testAccountID, *bank.AccountID)
	s.Equal(domain.PostingContact, contact.Kind)
	s.Equal("contact-1", *contact.ContactID)
	s.Equal(bank.GroupID, contact.GroupID)
	s.True(bank.Amount.Equal(decimal.NewFromInt(-42)))
	s.True(s.savedCommit.BalanceChanges[testAccountID].Equal(decimal.NewFromInt(-42)))
	s.Equal([]string{"entry-1"}, s.savedCommit.RemoveEntryIDs)
	s.Equal([]string{testDraftID}, s.savedCommit.CommitDraftIDs)
	s.sink.AssertCalled(s.T(), "PostingsBooked", s.ctx, mock.Anything)
}

func (s *BookingServiceTestSuite) TestBook_PartialLeavesDraftOpen() {
	first := plainEntry("entry-1", -42)
	second := plainEntry("entry-2", -13)
	entryID := "entry-1"
	s.expectValidation(&entryID, validResult())
	s.expectBookableDraft([]domain.Entry{first, second})
	s.contactRepo.On("FindContactByID", s.ctx, "contact-1").Return(&domain.Contact{ContactID: "contact-1", Name: "Grocer"}, nil)

	result, err := s.svc.Book(s.ctx, testDraftID, &entryID, testOwnerID, false)

	s.Require().NoError(err)
	s.True(result.Booked)
	s.False(result.DraftCommitted)
	s.Equal(1, result.RemainingEntries)
	s.Equal([]string{"entry-1"}, s.savedCommit.RemoveEntryIDs)
	s.Empty(s.savedCommit.CommitDraftIDs)
}

func (s *BookingServiceTestSuite) TestBook_SplitTargetRejected() {
	s.expectValidation(nil, validResult())
	parentEntry := plainEntry("parent-entry", -100)
	s.draftRepo.On("FindParentEntryBySplitDraft", s.ctx, testDraftID).Return(&parentEntry, nil)

	result, err := s.svc.Book(s.ctx, testDraftID, nil, testOwnerID, false)

	s.Require().Error(err)
	s.True(errors.Is(err, apperrors.ErrConflict))
	s.Nil(result)
	s.postingRepo.AssertNotCalled(s.T(), "SaveBooking", mock.Anything, mock.Anything)
}

func (s *BookingServiceTestSuite) TestBook_SecurityDecomposition() {
	buy := domain.SecurityBuy
	qty := decimal.NewFromInt(4)
	entry := plainEntry("entry-1", -1000)
	entry.ContactID = strPtr("bank-contact")
	entry.SecurityID = strPtr("security-1")
	entry.SecurityTxKind = &buy
	entry.Quantity = &qty
	entry.Fee = decimal.NewFromInt(9)
	entry.Tax = decimal.NewFromInt(3)

	s.expectValidation(nil, validResult())
	s.expectBookableDraft([]domain.Entry{entry})
	s.contactRepo.On("FindContactByID", s.ctx, "bank-contact").Return(&domain.Contact{ContactID: "bank-contact", Name: "Bank"}, nil)

	result, err := s.svc.Book(s.ctx, testDraftID, nil, testOwnerID, false)

	s.Require().NoError(err)
	s.True(result.Booked)
	s.Equal(5, result.PostingsCreated)

	legs := postingsOfKind(s.savedCommit.Postings, domain.PostingSecurity)
	s.Require().Len(legs, 3)
	main, fee, tax := legs[0], legs[1], legs[2]
	s.Equal(domain.SecurityBuy, *main.SecurityTxKind)
	s.True(main.Amount.Equal(decimal.NewFromInt(-1012))) // -1000 - 9 - 3
	s.True(main.Quantity.Equal(decimal.NewFromInt(4)))
	s.Equal(domain.SecurityFee, *fee.SecurityTxKind)
	s.True(fee.Amount.Equal(decimal.NewFromInt(9)))
	s.Equal(domain.SecurityTax, *tax.SecurityTxKind)
	s.True(tax.Amount.Equal(decimal.NewFromInt(3)))
	// The decomposition sums back to the entry amount exactly.
	s.True(main.Amount.Add(fee.Amount).Add(tax.Amount).Equal(entry.Amount))
}

func (s *BookingServiceTestSuite) TestBook_SecuritySellFlipsSigns() {
	sell := domain.SecuritySell
	qty := decimal.NewFromInt(2)
	entry := plainEntry("entry-1", 500)
	entry.ContactID = strPtr("bank-contact")
	entry.SecurityID = strPtr("security-1")
	entry.SecurityTxKind = &sell
	entry.Quantity = &qty
	entry.Fee = decimal.NewFromInt(5)

	s.expectValidation(nil, validResult())
	s.expectBookableDraft([]domain.Entry{entry})
	s.contactRepo.On("FindContactByID", s.ctx, "bank-contact").Return(&domain.Contact{ContactID: "bank-contact", Name: "Bank"}, nil)

	_, err := s.svc.Book(s.ctx, testDraftID, nil, testOwnerID, false)

	s.Require().NoError(err)
	legs := postingsOfKind(s.savedCommit.Postings, domain.PostingSecurity)
	s.Require().Len(legs, 2)
	s.True(legs[0].Amount.Equal(decimal.NewFromInt(505))) // 500 + 5
	s.True(legs[0].Quantity.Equal(decimal.NewFromInt(-2)))
	s.True(legs[1].Amount.Equal(decimal.NewFromInt(-5)))
	s.True(legs[0].Amount.Add(legs[1].Amount).Equal(entry.Amount))
}

func (s *BookingServiceTestSuite) TestBook_SavingsPlanLegAndAdvancement() {
	target := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)
	plan := &domain.SavingsPlan{
		PlanID:     "plan-1",
		OwnerID:    testOwnerID,
		Name:       "Vacation",
		PlanType:   domain.PlanRecurring,
		Interval:   domain.IntervalMonthly,
		TargetDate: &target,
	}
	entry := plainEntry("entry-1", -50)
	entry.BookingDate = time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)
	entry.SavingsPlanID = strPtr("plan-1")

	s.expectValidation(nil, validResult())
	s.expectBookableDraft([]domain.Entry{entry})
	s.contactRepo.On("FindContactByID", s.ctx, "contact-1").Return(&domain.Contact{ContactID: "contact-1", Name: "Me", Self: true}, nil)
	s.planRepo.On("FindPlanByID", s.ctx, "plan-1").Return(plan, nil)

	result, err := s.svc.Book(s.ctx, testDraftID, nil, testOwnerID, false)

	s.Require().NoError(err)
	s.Equal(3, result.PostingsCreated)

	planLegs := postingsOfKind(s.savedCommit.Postings, domain.PostingSavingsPlan)
	s.Require().Len(planLegs, 1)
	s.True(planLegs[0].Amount.Equal(decimal.NewFromInt(50))) // negated outflow
	s.Equal("plan-1", *planLegs[0].SavingsPlanID)

	s.Require().Len(s.savedCommit.PlanUpdates, 1)
	advanced := s.savedCommit.PlanUpdates[0]
	s.Equal(time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), *advanced.TargetDate)
}

func (s *BookingServiceTestSuite) TestBook_ArchivesPlanOnGoal() {
	targetAmount := decimal.NewFromInt(100)
	plan := &domain.SavingsPlan{
		PlanID:       "plan-1",
		OwnerID:      testOwnerID,
		Name:         "Vacation",
		PlanType:     domain.PlanOneTime,
		TargetAmount: &targetAmount,
	}
	entry := plainEntry("entry-1", -40)
	entry.SavingsPlanID = strPtr("plan-1")
	entry.ArchiveOnBooking = true

	s.expectValidation(nil, validResult())
	s.expectBookableDraft([]domain.Entry{entry})
	s.contactRepo.On("FindContactByID", s.ctx, "contact-1").Return(&domain.Contact{ContactID: "contact-1", Name: "Me", Self: true}, nil)
	s.planRepo.On("FindPlanByID", s.ctx, "plan-1").Return(plan, nil)
	s.postingRepo.On("SumPlanPostings", s.ctx, "plan-1").Return(decimal.NewFromInt(60), nil)

	result, err := s.svc.Book(s.ctx, testDraftID, nil, testOwnerID, false)

	s.Require().NoError(err)
	s.Require().Len(s.savedCommit.PlanUpdates, 1)
	s.True(s.savedCommit.PlanUpdates[0].Archived)
	s.Equal([]domain.DiagnosticCode{domain.CodeSavingsPlanArchived}, codesOf(result.Validation.Messages))
}

func (s *BookingServiceTestSuite) TestBook_SplitFanOut() {
	valuta := time.Date(2024, time.March, 7, 0, 0, 0, 0, time.UTC)
	parent := plainEntry("entry-1", -100)
	parent.ValutaDate = &valuta
	parent.SplitDraftID = strPtr("split-1")

	splitDraft := &domain.Draft{DraftID: "split-1", OwnerID: testOwnerID, FileName: "split.csv", Status: domain.DraftOpen}
	childEntry := domain.Entry{
		EntryID:     "child-entry-1",
		DraftID:     "split-1",
		BookingDate: time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.NewFromInt(-100),
		Subject:     "underlying purchase",
		ContactID:   strPtr("contact-2"),
		Status:      domain.EntryAccounted,
	}

	s.expectValidation(nil, validResult())
	s.expectBookableDraft([]domain.Entry{parent})
	s.contactRepo.On("FindContactByID", s.ctx, "contact-1").Return(&domain.Contact{ContactID: "contact-1", Name: "CardCorp", Intermediary: true}, nil)
	s.contactRepo.On("FindContactByID", s.ctx, "contact-2").Return(&domain.Contact{ContactID: "contact-2", Name: "Grocer"}, nil)
	s.draftRepo.On("FindDraftByID", s.ctx, "split-1").Return(splitDraft, nil)
	s.draftRepo.On("FindEntriesByDraftID", s.ctx, "split-1").Return([]domain.Entry{childEntry}, nil)

	result, err := s.svc.Book(s.ctx, testDraftID, nil, testOwnerID, false)

	s.Require().NoError(err)
	s.Equal(4, result.PostingsCreated)
	s.Require().Len(s.savedCommit.Postings, 4)

	parentBank, parentContact := s.savedCommit.Postings[0], s.savedCommit.Postings[1]
	childBank, childContact := s.savedCommit.Postings[2], s.savedCommit.Postings[3]

	s.True(parentBank.Amount.IsZero())
	s.True(parentContact.Amount.IsZero())
	s.True(childBank.Amount.Equal(decimal.NewFromInt(-100)))

	s.Require().NotNil(childBank.ParentPostingID)
	s.Equal(parentBank.PostingID, *childBank.ParentPostingID)
	s.Require().NotNil(childContact.ParentPostingID)
	s.Equal(parentContact.PostingID, *childContact.ParentPostingID)

	// Child keeps its own booking date but inherits the parent's valuta date.
	s.Equal(childEntry.BookingDate, childBank.BookingDate)
	s.Equal(valuta, childBank.ValutaDate)

	s.True(s.savedCommit.BalanceChanges[testAccountID].Equal(decimal.NewFromInt(-100)))
	s.Equal([]string{"split-1", testDraftID}, s.savedCommit.CommitDraftIDs)
	s.ElementsMatch([]string{"entry-1", "child-entry-1"}, s.savedCommit.RemoveEntryIDs)
}

func (s *BookingServiceTestSuite) TestBook_SelfTransferLinked() {
	entry := plainEntry("entry-1", -200)
	entry.ContactID = strPtr("self-contact")

	otherAccount := "account-2"
	candidate := domain.Posting{
		PostingID:   "posting-far",
		EntryID:     "other-entry",
		Kind:        domain.PostingContact,
		ContactID:   strPtr("self-contact"),
		BookingDate: entry.BookingDate.AddDate(0, 0, 5),
		Amount:      decimal.NewFromInt(200),
		GroupID:     "group-far",
	}
	closer := domain.Posting{
		PostingID:   "posting-near",
		EntryID:     "another-entry",
		Kind:        domain.PostingContact,
		ContactID:   strPtr("self-contact"),
		BookingDate: entry.BookingDate.AddDate(0, 0, 1),
		Amount:      decimal.NewFromInt(200),
		GroupID:     "group-near",
	}

	s.expectValidation(nil, validResult())
	s.expectBookableDraft([]domain.Entry{entry})
	s.contactRepo.On("FindContactByID", s.ctx, "self-contact").Return(&domain.Contact{ContactID: "self-contact", Name: "Me", Self: true}, nil)
	s.postingRepo.On("FindLinkCandidates", s.ctx, testOwnerID, "self-contact", mock.Anything, entry.Subject).
		Return([]domain.Posting{candidate, closer}, nil)
	s.postingRepo.On("FindPostingsByGroupID", s.ctx, "group-near").Return([]domain.Posting{
		{PostingID: "near-bank", Kind: domain.PostingBank, AccountID: &otherAccount, GroupID: "group-near"},
		closer,
	}, nil)
	s.postingRepo.On("LinkPostings", s.ctx, mock.AnythingOfType("string"), "posting-near").Return(nil)

	result, err := s.svc.Book(s.ctx, testDraftID, nil, testOwnerID, false)

	s.Require().NoError(err)
	s.True(result.Booked)
	s.postingRepo.AssertCalled(s.T(), "LinkPostings", s.ctx, mock.AnythingOfType("string"), "posting-near")
}

func (s *BookingServiceTestSuite) TestBook_SelfTransferSameAccountNotLinked() {
	entry := plainEntry("entry-1", -200)
	entry.ContactID = strPtr("self-contact")

	sameAccount := testAccountID
	candidate := domain.Posting{
		PostingID:   "posting-1",
		EntryID:     "other-entry",
		Kind:        domain.PostingContact,
		ContactID:   strPtr("self-contact"),
		BookingDate: entry.BookingDate.AddDate(0, 0, 1),
		Amount:      decimal.NewFromInt(200),
		GroupID:     "group-1",
	}

	s.expectValidation(nil, validResult())
	s.expectBookableDraft([]domain.Entry{entry})
	s.contactRepo.On("FindContactByID", s.ctx, "self-contact").Return(&domain.Contact{ContactID: "self-contact", Name: "Me", Self: true}, nil)
	s.postingRepo.On("FindLinkCandidates", s.ctx, testOwnerID, "self-contact", mock.Anything, entry.Subject).
		Return([]domain.Posting{candidate}, nil)
	s.postingRepo.On("FindPostingsByGroupID", s.ctx, "group-1").Return([]domain.Posting{
		{PostingID: "bank-1", Kind: domain.PostingBank, AccountID: &sameAccount, GroupID: "group-1"},
		candidate,
	}, nil)

	result, err := s.svc.Book(s.ctx, testDraftID, nil, testOwnerID, false)

	s.Require().NoError(err)
	s.True(result.Booked)
	s.postingRepo.AssertNotCalled(s.T(), "LinkPostings", mock.Anything, mock.Anything, mock.Anything)
}

func (s *BookingServiceTestSuite) TestBook_LinkFailureDoesNotAbort() {
	entry := plainEntry("entry-1", -200)
	entry.ContactID = strPtr("self-contact")

	s.expectValidation(nil, validResult())
	s.expectBookableDraft([]domain.Entry{entry})
	s.contactRepo.On("FindContactByID", s.ctx, "self-contact").Return(&domain.Contact{ContactID: "self-contact", Name: "Me", Self: true}, nil)
	s.postingRepo.On("FindLinkCandidates", s.ctx, testOwnerID, "self-contact", mock.Anything, entry.Subject).
		Return(nil, errors.New("lookup timed out"))

	result, err := s.svc.Book(s.ctx, testDraftID, nil, testOwnerID, false)

	s.Require().NoError(err)
	s.True(result.Booked)
	s.Equal(2, result.PostingsCreated)
}
