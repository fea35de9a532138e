package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"sahakari/bachatgat_ledger/internal/pkg/consts"
	"sahakari/bachatgat_ledger/internal/pkg/models"
)

type loanServiceFixture struct {
	groups        *mockGroupStore
	members       *mockMemberStore
	wallets       *mockWalletStore
	loans         *mockLoanStore
	approvals     *mockApprovalStore
	schedules     *mockScheduleStore
	distributions *mockDistributionStore
	auth          *mockAuthService
	service       *LoanService
}

func newLoanServiceFixture() *loanServiceFixture {
	f := &loanServiceFixture{
		groups:        &mockGroupStore{},
		members:       &mockMemberStore{},
		wallets:       &mockWalletStore{},
		loans:         &mockLoanStore{},
		approvals:     &mockApprovalStore{},
		schedules:     &mockScheduleStore{},
		distributions: &mockDistributionStore{},
		auth:          &mockAuthService{},
	}
	f.service = NewLoanService(uowStub{}, f.auth, f.groups, f.members, f.wallets, f.loans, f.approvals, f.schedules, nil, f.distributions, NewAmortizationService(), NewQuorumService())
	return f
}

func TestLoanService_CreateLoanRequest(t *testing.T) {
	ctx := context.Background()
	groupID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	t.Run("invalid amount", func(t *testing.T) {
		f := newLoanServiceFixture()
		_, err := f.service.CreateLoanRequest(ctx, groupID, userID, 0, "seed money")
		assert.ErrorIs(t, err, consts.ErrorInvalidAmount)
	})

	t.Run("amount above wallet balance", func(t *testing.T) {
		f := newLoanServiceFixture()
		f.groups.On("GetByID", mock.Anything, groupID).Return(models.Group{ID: groupID, IsActive: true}, nil)
		f.auth.On("IsGroupMember", mock.Anything, userID, groupID).Return(true)
		f.wallets.On("GetByGroupID", mock.Anything, groupID).Return(models.GroupWallet{Balance: 500}, nil)

		_, err := f.service.CreateLoanRequest(ctx, groupID, userID, 501, "seed money")
		assert.ErrorIs(t, err, consts.ErrorInsufficientBalance)
	})

	t.Run("open request already exists", func(t *testing.T) {
		f := newLoanServiceFixture()
		f.groups.On("GetByID", mock.Anything, groupID).Return(models.Group{ID: groupID, IsActive: true}, nil)
		f.auth.On("IsGroupMember", mock.Anything, userID, groupID).Return(true)
		f.wallets.On("GetByGroupID", mock.Anything, groupID).Return(models.GroupWallet{Balance: 5000}, nil)
		f.loans.On("FindPendingByRequester", mock.Anything, groupID, userID).Return([]models.LoanRequest{{}}, nil)

		_, err := f.service.CreateLoanRequest(ctx, groupID, userID, 1000, "seed money")
		assert.ErrorIs(t, err, consts.ErrorPendingLoanExists)
	})

	t.Run("freezes quorum numbers at creation", func(t *testing.T) {
		f := newLoanServiceFixture()
		f.groups.On("GetByID", mock.Anything, groupID).Return(models.Group{ID: groupID, IsActive: true}, nil)
		f.auth.On("IsGroupMember", mock.Anything, userID, groupID).Return(true)
		f.wallets.On("GetByGroupID", mock.Anything, groupID).Return(models.GroupWallet{Balance: 5000}, nil)
		f.loans.On("FindPendingByRequester", mock.Anything, groupID, userID).Return([]models.LoanRequest{}, nil)
		f.members.On("CountActive", mock.Anything, groupID).Return(int64(5), nil)
		f.loans.On("Insert", mock.Anything, mock.Anything).Return(nil)

		loan, err := f.service.CreateLoanRequest(ctx, groupID, userID, 1000, "seed money")
		require.NoError(t, err)
		assert.Equal(t, models.LoanPending, loan.Status)
		assert.Equal(t, 4, loan.TotalEligibleVoters)
		assert.Equal(t, 3, loan.RequiredApprovals)
		f.loans.AssertCalled(t, "Insert", mock.Anything, mock.Anything)
	})
}

func TestLoanService_CastVote(t *testing.T) {
	ctx := context.Background()
	groupID := primitive.NewObjectID()
	requesterID := primitive.NewObjectID()
	voterID := primitive.NewObjectID()
	loanID := primitive.NewObjectID()

	pendingLoan := models.LoanRequest{
		ID:                  loanID,
		GroupID:             groupID,
		RequestedBy:         requesterID,
		Amount:              1000,
		Status:              models.LoanPending,
		TotalEligibleVoters: 2,
		RequiredApprovals:   2,
		IsActive:            true,
	}

	t.Run("denied voter", func(t *testing.T) {
		f := newLoanServiceFixture()
		f.auth.On("CanVote", mock.Anything, voterID, loanID).Return(false, "You have already voted on this loan")

		_, _, err := f.service.CastVote(ctx, loanID, voterID, true, "")
		assert.ErrorIs(t, err, consts.ErrorAuthorizationDenied)
	})

	t.Run("approval quorum moves loan to pre_approved", func(t *testing.T) {
		f := newLoanServiceFixture()
		f.auth.On("CanVote", mock.Anything, voterID, loanID).Return(true, "")
		f.loans.On("GetByID", mock.Anything, loanID).Return(pendingLoan, nil)
		f.approvals.On("Insert", mock.Anything, mock.Anything).Return(nil)
		f.approvals.On("CountByLoan", mock.Anything, loanID, true).Return(int64(2), nil)
		f.approvals.On("CountByLoan", mock.Anything, loanID, false).Return(int64(0), nil)
		f.members.On("CountActive", mock.Anything, groupID).Return(int64(3), nil)
		f.members.On("GetActive", mock.Anything, groupID, requesterID).Return(models.GroupMember{UserID: requesterID, Role: models.RoleMember, IsActive: true}, nil)
		f.groups.On("GetByID", mock.Anything, groupID).Return(models.Group{
			ID:                    groupID,
			DefaultInterestRate:   12,
			DefaultDurationMonths: 6,
			DefaultRepaymentType:  string(models.RepaymentEMI),
			IsActive:              true,
		}, nil)
		f.schedules.On("InsertMany", mock.Anything, mock.Anything).Return(nil)
		f.loans.On("Update", mock.Anything, loanID, mock.Anything).Return(nil)

		vote, status, err := f.service.CastVote(ctx, loanID, voterID, true, "looks good")
		require.NoError(t, err)
		assert.True(t, vote.Approved)
		assert.Equal(t, models.LoanPreApproved, status)
		f.schedules.AssertCalled(t, "InsertMany", mock.Anything, mock.Anything)
	})

	t.Run("rejection quorum rejects the loan", func(t *testing.T) {
		f := newLoanServiceFixture()
		f.auth.On("CanVote", mock.Anything, voterID, loanID).Return(true, "")
		f.loans.On("GetByID", mock.Anything, loanID).Return(pendingLoan, nil)
		f.approvals.On("Insert", mock.Anything, mock.Anything).Return(nil)
		f.approvals.On("CountByLoan", mock.Anything, loanID, true).Return(int64(0), nil)
		f.approvals.On("CountByLoan", mock.Anything, loanID, false).Return(int64(2), nil)
		f.members.On("CountActive", mock.Anything, groupID).Return(int64(3), nil)
		f.members.On("GetActive", mock.Anything, groupID, requesterID).Return(models.GroupMember{UserID: requesterID, IsActive: true}, nil)
		f.loans.On("Update", mock.Anything, loanID, mock.Anything).Return(nil)

		_, status, err := f.service.CastVote(ctx, loanID, voterID, false, "too risky")
		require.NoError(t, err)
		assert.Equal(t, models.LoanRejected, status)
	})

	t.Run("requester who left forfeits the request", func(t *testing.T) {
		f := newLoanServiceFixture()
		f.auth.On("CanVote", mock.Anything, voterID, loanID).Return(true, "")
		f.loans.On("GetByID", mock.Anything, loanID).Return(pendingLoan, nil)
		f.approvals.On("Insert", mock.Anything, mock.Anything).Return(nil)
		f.approvals.On("CountByLoan", mock.Anything, loanID, true).Return(int64(1), nil)
		f.approvals.On("CountByLoan", mock.Anything, loanID, false).Return(int64(0), nil)
		f.members.On("CountActive", mock.Anything, groupID).Return(int64(2), nil)
		f.members.On("GetActive", mock.Anything, groupID, requesterID).Return(models.GroupMember{}, consts.ErrorMemberNotFound)
		f.loans.On("Update", mock.Anything, loanID, mock.Anything).Return(nil)

		_, status, err := f.service.CastVote(ctx, loanID, voterID, true, "")
		require.NoError(t, err)
		assert.Equal(t, models.LoanRejected, status)
	})
}

func TestLoanService_FinalizeApproval(t *testing.T) {
	ctx := context.Background()
	groupID := primitive.NewObjectID()
	requesterID := primitive.NewObjectID()
	adminID := primitive.NewObjectID()
	loanID := primitive.NewObjectID()

	preApproved := models.LoanRequest{
		ID:          loanID,
		GroupID:     groupID,
		RequestedBy: requesterID,
		Status:      models.LoanPreApproved,
	}

	t.Run("admin sign-off approves the loan", func(t *testing.T) {
		f := newLoanServiceFixture()
		f.loans.On("GetByID", mock.Anything, loanID).Return(preApproved, nil)
		f.auth.On("IsGroupAdmin", mock.Anything, adminID, groupID).Return(true)
		f.loans.On("Update", mock.Anything, loanID, mock.Anything).Return(nil)

		loan, err := f.service.FinalizeApproval(ctx, loanID, adminID)
		require.NoError(t, err)
		assert.Equal(t, models.LoanApproved, loan.Status)
		assert.Equal(t, adminID, loan.ApprovedBy)
	})

	t.Run("requester cannot finalize own loan", func(t *testing.T) {
		f := newLoanServiceFixture()
		f.loans.On("GetByID", mock.Anything, loanID).Return(preApproved, nil)
		f.auth.On("IsGroupAdmin", mock.Anything, requesterID, groupID).Return(true)

		_, err := f.service.FinalizeApproval(ctx, loanID, requesterID)
		assert.ErrorIs(t, err, consts.ErrorAuthorizationDenied)
	})

	t.Run("non-admin denied", func(t *testing.T) {
		f := newLoanServiceFixture()
		f.loans.On("GetByID", mock.Anything, loanID).Return(preApproved, nil)
		f.auth.On("IsGroupAdmin", mock.Anything, adminID, groupID).Return(false)

		_, err := f.service.FinalizeApproval(ctx, loanID, adminID)
		assert.ErrorIs(t, err, consts.ErrorAuthorizationDenied)
	})
}

func TestLoanService_UpdateLoanTerms(t *testing.T) {
	ctx := context.Background()
	groupID := primitive.NewObjectID()
	adminID := primitive.NewObjectID()
	loanID := primitive.NewObjectID()

	terms := models.LoanTerms{Amount: 2000, InterestRate: 10, DurationMonths: 6, RepaymentType: models.RepaymentEMI}

	t.Run("locked once an installment is paid", func(t *testing.T) {
		f := newLoanServiceFixture()
		f.loans.On("GetByID", mock.Anything, loanID).Return(models.LoanRequest{ID: loanID, GroupID: groupID, Status: models.LoanApproved}, nil)
		f.auth.On("IsGroupAdmin", mock.Anything, adminID, groupID).Return(true)
		f.schedules.On("CountPaid", mock.Anything, loanID).Return(int64(1), nil)

		_, err := f.service.UpdateLoanTerms(ctx, loanID, adminID, terms)
		assert.ErrorIs(t, err, consts.ErrorScheduleLocked)
	})

	t.Run("terminal state cannot be edited", func(t *testing.T) {
		f := newLoanServiceFixture()
		f.loans.On("GetByID", mock.Anything, loanID).Return(models.LoanRequest{ID: loanID, GroupID: groupID, Status: models.LoanRejected}, nil)
		f.auth.On("IsGroupAdmin", mock.Anything, adminID, groupID).Return(true)

		_, err := f.service.UpdateLoanTerms(ctx, loanID, adminID, terms)
		assert.ErrorIs(t, err, models.ErrorInvalidStateTransition)
	})

	t.Run("pending loan keeps its status and takes the new terms", func(t *testing.T) {
		f := newLoanServiceFixture()
		f.loans.On("GetByID", mock.Anything, loanID).Return(models.LoanRequest{ID: loanID, GroupID: groupID, Status: models.LoanPending}, nil)
		f.auth.On("IsGroupAdmin", mock.Anything, adminID, groupID).Return(true)
		f.schedules.On("CountPaid", mock.Anything, loanID).Return(int64(0), nil)
		f.groups.On("GetByID", mock.Anything, groupID).Return(models.Group{ID: groupID, IsActive: true}, nil)
		f.loans.On("Update", mock.Anything, loanID, mock.Anything).Return(nil)

		loan, err := f.service.UpdateLoanTerms(ctx, loanID, adminID, terms)
		require.NoError(t, err)
		assert.Equal(t, models.LoanPending, loan.Status)
		assert.Equal(t, 2000.0, loan.Amount)
		f.schedules.AssertNotCalled(t, "DeleteByLoan", mock.Anything, mock.Anything)
	})

	t.Run("approved loan falls back to pending when the majority is lost", func(t *testing.T) {
		f := newLoanServiceFixture()
		f.loans.On("GetByID", mock.Anything, loanID).Return(models.LoanRequest{
			ID: loanID, GroupID: groupID, Status: models.LoanApproved,
			TotalEligibleVoters: 4, RequiredApprovals: 3, ApprovedAmount: 1500,
		}, nil)
		f.auth.On("IsGroupAdmin", mock.Anything, adminID, groupID).Return(true)
		f.schedules.On("CountPaid", mock.Anything, loanID).Return(int64(0), nil)
		f.groups.On("GetByID", mock.Anything, groupID).Return(models.Group{ID: groupID, IsActive: true}, nil)
		f.schedules.On("DeleteByLoan", mock.Anything, loanID).Return(nil)
		f.approvals.On("CountByLoan", mock.Anything, loanID, true).Return(int64(2), nil)
		f.approvals.On("CountByLoan", mock.Anything, loanID, false).Return(int64(0), nil)
		f.members.On("CountActive", mock.Anything, groupID).Return(int64(5), nil)
		f.loans.On("Update", mock.Anything, loanID, mock.Anything).Return(nil)

		loan, err := f.service.UpdateLoanTerms(ctx, loanID, adminID, terms)
		require.NoError(t, err)
		assert.Equal(t, models.LoanPending, loan.Status)
	})
}

func TestLoanService_CloseLoan(t *testing.T) {
	ctx := context.Background()
	groupID := primitive.NewObjectID()
	adminID := primitive.NewObjectID()
	loanID := primitive.NewObjectID()

	t.Run("not fully repaid", func(t *testing.T) {
		f := newLoanServiceFixture()
		f.loans.On("GetByID", mock.Anything, loanID).Return(models.LoanRequest{
			ID: loanID, GroupID: groupID, Status: models.LoanDisbursed,
			TotalRepayable: 1100, TotalRepaid: 900,
		}, nil)
		f.auth.On("IsGroupAdmin", mock.Anything, adminID, groupID).Return(true)

		_, err := f.service.CloseLoan(ctx, loanID, adminID)
		assert.ErrorIs(t, err, consts.ErrorAuthorizationDenied)
	})

	t.Run("fully repaid loan completes", func(t *testing.T) {
		f := newLoanServiceFixture()
		f.loans.On("GetByID", mock.Anything, loanID).Return(models.LoanRequest{
			ID: loanID, GroupID: groupID, Status: models.LoanDisbursed,
			TotalRepayable: 1100, TotalRepaid: 1100,
		}, nil)
		f.auth.On("IsGroupAdmin", mock.Anything, adminID, groupID).Return(true)
		f.loans.On("Update", mock.Anything, loanID, mock.Anything).Return(nil)

		loan, err := f.service.CloseLoan(ctx, loanID, adminID)
		require.NoError(t, err)
		assert.Equal(t, models.LoanCompleted, loan.Status)
	})
}

func TestLoanService_GetLoanDetails(t *testing.T) {
	ctx := context.Background()
	groupID := primitive.NewObjectID()
	loanID := primitive.NewObjectID()
	beneficiaryID := primitive.NewObjectID()

	f := newLoanServiceFixture()
	f.loans.On("GetByID", mock.Anything, loanID).Return(models.LoanRequest{
		ID: loanID, GroupID: groupID, Status: models.LoanDisbursed,
		RepaymentType: models.RepaymentEMI,
		TotalEligibleVoters: 4, RequiredApprovals: 3,
		TotalRepayable: 1100, TotalRepaid: 300,
	}, nil)
	f.approvals.On("FindByLoan", mock.Anything, loanID).Return([]models.LoanApproval{
		{LoanID: loanID, Approved: true},
		{LoanID: loanID, Approved: true},
		{LoanID: loanID, Approved: false},
	}, nil)
	f.schedules.On("FindByLoan", mock.Anything, loanID).Return([]models.EMISchedule{
		{LoanID: loanID, InstallmentNumber: 1},
	}, nil)
	f.distributions.On("FindByLoan", mock.Anything, loanID).Return([]models.InterestDistribution{
		{LoanID: loanID, BeneficiaryID: beneficiaryID, InterestEarned: 33.34},
	}, nil)

	details, err := f.service.GetLoanDetails(ctx, loanID)
	require.NoError(t, err)
	assert.Equal(t, 2, details.Voting.Approvals)
	assert.Equal(t, 1, details.Voting.Rejections)
	assert.Equal(t, 3, details.Voting.VotesCast)
	assert.Equal(t, 1, details.Voting.PendingVotes)
	assert.Len(t, details.Votes, 3)
	assert.Len(t, details.Schedule, 1)
	require.Len(t, details.Distributions, 1)
	assert.Equal(t, beneficiaryID, details.Distributions[0].BeneficiaryID)
	assert.InDelta(t, 800.0, details.Financial.Remaining, 0.001)
}
