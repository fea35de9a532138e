package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"sahakari/bachatgat_ledger/internal/pkg/consts"
	"sahakari/bachatgat_ledger/internal/pkg/models"
)

type authServiceFixture struct {
	members    *mockMemberStore
	wallets    *mockWalletStore
	loans      *mockLoanStore
	approvals  *mockApprovalStore
	repayments *mockRepaymentStore
	service    *AuthorizationService
}

func newAuthServiceFixture() *authServiceFixture {
	f := &authServiceFixture{
		members:    &mockMemberStore{},
		wallets:    &mockWalletStore{},
		loans:      &mockLoanStore{},
		approvals:  &mockApprovalStore{},
		repayments: &mockRepaymentStore{},
	}
	f.service = NewAuthorizationService(f.members, f.wallets, f.loans, f.approvals, f.repayments)
	return f
}

func TestAuthorizationService_CanVote(t *testing.T) {
	ctx := context.Background()
	groupID := primitive.NewObjectID()
	requesterID := primitive.NewObjectID()
	voterID := primitive.NewObjectID()
	loanID := primitive.NewObjectID()

	activeLoan := models.LoanRequest{
		ID:          loanID,
		GroupID:     groupID,
		RequestedBy: requesterID,
		Status:      models.LoanPending,
		IsActive:    true,
	}

	t.Run("allowed", func(t *testing.T) {
		f := newAuthServiceFixture()
		f.loans.On("GetByID", mock.Anything, loanID).Return(activeLoan, nil)
		f.members.On("GetActive", mock.Anything, groupID, voterID).Return(models.GroupMember{UserID: voterID, IsActive: true}, nil)
		f.approvals.On("HasVoted", mock.Anything, loanID, voterID).Return(false, nil)

		allowed, reason := f.service.CanVote(ctx, voterID, loanID)
		assert.True(t, allowed)
		assert.Empty(t, reason)
	})

	t.Run("voting closed after quorum", func(t *testing.T) {
		f := newAuthServiceFixture()
		closed := activeLoan
		closed.Status = models.LoanPreApproved
		f.loans.On("GetByID", mock.Anything, loanID).Return(closed, nil)

		allowed, reason := f.service.CanVote(ctx, voterID, loanID)
		assert.False(t, allowed)
		assert.Contains(t, reason, "Voting is closed")
	})

	t.Run("requester cannot vote on own loan", func(t *testing.T) {
		f := newAuthServiceFixture()
		f.loans.On("GetByID", mock.Anything, loanID).Return(activeLoan, nil)
		f.members.On("GetActive", mock.Anything, groupID, requesterID).Return(models.GroupMember{UserID: requesterID, IsActive: true}, nil)

		allowed, reason := f.service.CanVote(ctx, requesterID, loanID)
		assert.False(t, allowed)
		assert.Contains(t, reason, "own loan")
	})

	t.Run("double vote denied", func(t *testing.T) {
		f := newAuthServiceFixture()
		f.loans.On("GetByID", mock.Anything, loanID).Return(activeLoan, nil)
		f.members.On("GetActive", mock.Anything, groupID, voterID).Return(models.GroupMember{UserID: voterID, IsActive: true}, nil)
		f.approvals.On("HasVoted", mock.Anything, loanID, voterID).Return(true, nil)

		allowed, reason := f.service.CanVote(ctx, voterID, loanID)
		assert.False(t, allowed)
		assert.Contains(t, reason, "already voted")
	})
}

func TestAuthorizationService_CanDisburse(t *testing.T) {
	ctx := context.Background()
	groupID := primitive.NewObjectID()
	adminID := primitive.NewObjectID()
	loanID := primitive.NewObjectID()

	approvedLoan := models.LoanRequest{
		ID:             loanID,
		GroupID:        groupID,
		Amount:         1000,
		ApprovedAmount: 1000,
		Status:         models.LoanApproved,
		IsActive:       true,
	}

	t.Run("allowed with sufficient balance", func(t *testing.T) {
		f := newAuthServiceFixture()
		f.loans.On("GetByID", mock.Anything, loanID).Return(approvedLoan, nil)
		f.members.On("GetActive", mock.Anything, groupID, adminID).Return(models.GroupMember{Role: models.RoleAdmin, IsActive: true}, nil)
		f.wallets.On("GetByGroupID", mock.Anything, groupID).Return(models.GroupWallet{Balance: 1500}, nil)

		allowed, _ := f.service.CanDisburse(ctx, adminID, loanID)
		assert.True(t, allowed)
	})

	t.Run("wallet cannot cover the loan", func(t *testing.T) {
		f := newAuthServiceFixture()
		f.loans.On("GetByID", mock.Anything, loanID).Return(approvedLoan, nil)
		f.members.On("GetActive", mock.Anything, groupID, adminID).Return(models.GroupMember{Role: models.RoleAdmin, IsActive: true}, nil)
		f.wallets.On("GetByGroupID", mock.Anything, groupID).Return(models.GroupWallet{Balance: 500}, nil)

		allowed, reason := f.service.CanDisburse(ctx, adminID, loanID)
		assert.False(t, allowed)
		assert.Contains(t, reason, "Insufficient balance")
	})

	t.Run("non-admin denied", func(t *testing.T) {
		f := newAuthServiceFixture()
		f.loans.On("GetByID", mock.Anything, loanID).Return(approvedLoan, nil)
		f.members.On("GetActive", mock.Anything, groupID, adminID).Return(models.GroupMember{Role: models.RoleMember, IsActive: true}, nil)

		allowed, reason := f.service.CanDisburse(ctx, adminID, loanID)
		assert.False(t, allowed)
		assert.Contains(t, reason, "admin")
	})

	t.Run("wrong state denied", func(t *testing.T) {
		f := newAuthServiceFixture()
		pending := approvedLoan
		pending.Status = models.LoanPending
		f.loans.On("GetByID", mock.Anything, loanID).Return(pending, nil)

		allowed, _ := f.service.CanDisburse(ctx, adminID, loanID)
		assert.False(t, allowed)
	})
}

func TestAuthorizationService_CanRepay(t *testing.T) {
	ctx := context.Background()
	borrowerID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()
	loanID := primitive.NewObjectID()

	disbursed := models.LoanRequest{
		ID:             loanID,
		RequestedBy:    borrowerID,
		Status:         models.LoanDisbursed,
		TotalRepayable: 1100,
		TotalRepaid:    100,
		IsActive:       true,
	}

	t.Run("borrower allowed", func(t *testing.T) {
		f := newAuthServiceFixture()
		f.loans.On("GetByID", mock.Anything, loanID).Return(disbursed, nil)

		allowed, _ := f.service.CanRepay(ctx, borrowerID, loanID)
		assert.True(t, allowed)
	})

	t.Run("only the borrower repays", func(t *testing.T) {
		f := newAuthServiceFixture()
		f.loans.On("GetByID", mock.Anything, loanID).Return(disbursed, nil)

		allowed, reason := f.service.CanRepay(ctx, otherID, loanID)
		assert.False(t, allowed)
		assert.Contains(t, reason, "borrower")
	})

	t.Run("fully repaid loan rejects further payments", func(t *testing.T) {
		f := newAuthServiceFixture()
		settled := disbursed
		settled.TotalRepaid = 1100
		f.loans.On("GetByID", mock.Anything, loanID).Return(settled, nil)

		allowed, reason := f.service.CanRepay(ctx, borrowerID, loanID)
		assert.False(t, allowed)
		assert.Contains(t, reason, "fully repaid")
	})
}

func TestAuthorizationService_CanLeaveGroup(t *testing.T) {
	ctx := context.Background()
	groupID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	t.Run("member with no liabilities leaves", func(t *testing.T) {
		f := newAuthServiceFixture()
		f.members.On("GetActive", mock.Anything, groupID, userID).Return(models.GroupMember{Role: models.RoleMember, IsActive: true}, nil)
		f.loans.On("FindByBorrower", mock.Anything, groupID, userID, mock.Anything).Return([]models.LoanRequest{}, nil)
		f.repayments.On("CountPendingByPayerAndGroup", mock.Anything, groupID, userID).Return(int64(0), nil)

		allowed, _ := f.service.CanLeaveGroup(ctx, userID, groupID)
		assert.True(t, allowed)
	})

	t.Run("unpaid loan blocks leaving", func(t *testing.T) {
		f := newAuthServiceFixture()
		f.members.On("GetActive", mock.Anything, groupID, userID).Return(models.GroupMember{Role: models.RoleMember, IsActive: true}, nil)
		f.loans.On("FindByBorrower", mock.Anything, groupID, userID, mock.Anything).Return([]models.LoanRequest{{
			Status:         models.LoanDisbursed,
			TotalRepayable: 1100,
			TotalRepaid:    500,
			IsActive:       true,
		}}, nil)

		allowed, reason := f.service.CanLeaveGroup(ctx, userID, groupID)
		assert.False(t, allowed)
		assert.Contains(t, reason, "unpaid loan")
	})

	t.Run("sole admin must transfer first", func(t *testing.T) {
		f := newAuthServiceFixture()
		f.members.On("GetActive", mock.Anything, groupID, userID).Return(models.GroupMember{Role: models.RoleAdmin, IsActive: true}, nil)
		f.loans.On("FindByBorrower", mock.Anything, groupID, userID, mock.Anything).Return([]models.LoanRequest{}, nil)
		f.repayments.On("CountPendingByPayerAndGroup", mock.Anything, groupID, userID).Return(int64(0), nil)
		f.members.On("CountActiveAdmins", mock.Anything, groupID).Return(int64(1), nil)

		allowed, reason := f.service.CanLeaveGroup(ctx, userID, groupID)
		assert.False(t, allowed)
		assert.Contains(t, reason, "only admin")
	})
}

func TestAuthorizationService_CanTransferAdmin(t *testing.T) {
	ctx := context.Background()
	groupID := primitive.NewObjectID()
	fromUserID := primitive.NewObjectID()
	toUserID := primitive.NewObjectID()

	t.Run("admin to member allowed", func(t *testing.T) {
		f := newAuthServiceFixture()
		f.members.On("GetActive", mock.Anything, groupID, fromUserID).Return(models.GroupMember{Role: models.RoleAdmin, IsActive: true}, nil)
		f.members.On("GetActive", mock.Anything, groupID, toUserID).Return(models.GroupMember{Role: models.RoleMember, IsActive: true}, nil)

		allowed, _ := f.service.CanTransferAdmin(ctx, fromUserID, toUserID, groupID)
		assert.True(t, allowed)
	})

	t.Run("non-admin cannot transfer", func(t *testing.T) {
		f := newAuthServiceFixture()
		f.members.On("GetActive", mock.Anything, groupID, fromUserID).Return(models.GroupMember{Role: models.RoleMember, IsActive: true}, nil)

		allowed, _ := f.service.CanTransferAdmin(ctx, fromUserID, toUserID, groupID)
		assert.False(t, allowed)
	})

	t.Run("target outside the group", func(t *testing.T) {
		f := newAuthServiceFixture()
		f.members.On("GetActive", mock.Anything, groupID, fromUserID).Return(models.GroupMember{Role: models.RoleAdmin, IsActive: true}, nil)
		f.members.On("GetActive", mock.Anything, groupID, toUserID).Return(models.GroupMember{}, consts.ErrorMemberNotFound)

		allowed, reason := f.service.CanTransferAdmin(ctx, fromUserID, toUserID, groupID)
		assert.False(t, allowed)
		assert.Contains(t, reason, "not a member")
	})
}
