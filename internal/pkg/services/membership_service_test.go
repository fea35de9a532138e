package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"sahakari/bachatgat_ledger/configs"
	"sahakari/bachatgat_ledger/internal/pkg/consts"
	"sahakari/bachatgat_ledger/internal/pkg/models"
)

type membershipServiceFixture struct {
	groups         *mockGroupStore
	members        *mockMemberStore
	wallets        *mockWalletStore
	loans          *mockLoanStore
	repayments     *mockRepaymentStore
	adminTransfers *mockAdminTransferStore
	auth           *mockAuthService
	service        *MembershipService
}

func newMembershipServiceFixture() *membershipServiceFixture {
	f := &membershipServiceFixture{
		groups:         &mockGroupStore{},
		members:        &mockMemberStore{},
		wallets:        &mockWalletStore{},
		loans:          &mockLoanStore{},
		repayments:     &mockRepaymentStore{},
		adminTransfers: &mockAdminTransferStore{},
		auth:           &mockAuthService{},
	}
	f.service = NewMembershipService(uowStub{}, f.auth, f.groups, f.members, f.wallets, f.loans, f.repayments, f.adminTransfers)
	return f
}

func TestMembershipService_CreateGroup(t *testing.T) {
	configs.LoadEnvValues()
	ctx := context.Background()
	creatorID := primitive.NewObjectID()

	f := newMembershipServiceFixture()
	f.groups.On("Insert", mock.Anything, mock.Anything).Return(nil)
	f.members.On("Insert", mock.Anything, mock.MatchedBy(func(m models.GroupMember) bool {
		return m.UserID == creatorID && m.Role == models.RoleAdmin && m.IsActive
	})).Return(nil)
	f.wallets.On("Insert", mock.Anything, mock.Anything).Return(nil)

	group, wallet, err := f.service.CreateGroup(ctx, creatorID, CreateGroupInput{Name: "Mahila Bachat Gat"})
	require.NoError(t, err)

	assert.Equal(t, "Mahila Bachat Gat", group.Name)
	assert.Equal(t, creatorID, group.CreatedBy)
	assert.Equal(t, configs.DEFAULT_INTEREST_RATE, group.DefaultInterestRate)
	assert.Equal(t, configs.DEFAULT_DURATION_MONTHS, group.DefaultDurationMonths)
	assert.Equal(t, configs.DEFAULT_REPAYMENT_TYPE, group.DefaultRepaymentType)
	assert.Equal(t, group.ID, wallet.GroupID)
	f.members.AssertExpectations(t)
	f.wallets.AssertCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestMembershipService_AddMember(t *testing.T) {
	ctx := context.Background()
	groupID := primitive.NewObjectID()
	adminID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	t.Run("non-admin denied", func(t *testing.T) {
		f := newMembershipServiceFixture()
		f.auth.On("IsGroupAdmin", mock.Anything, adminID, groupID).Return(false)

		_, err := f.service.AddMember(ctx, groupID, adminID, userID, models.RoleMember)
		assert.ErrorIs(t, err, consts.ErrorAuthorizationDenied)
	})

	t.Run("duplicate active membership", func(t *testing.T) {
		f := newMembershipServiceFixture()
		f.auth.On("IsGroupAdmin", mock.Anything, adminID, groupID).Return(true)
		f.members.On("GetActive", mock.Anything, groupID, userID).Return(models.GroupMember{UserID: userID, IsActive: true}, nil)

		_, err := f.service.AddMember(ctx, groupID, adminID, userID, models.RoleMember)
		assert.ErrorIs(t, err, consts.ErrorMemberAlreadyExists)
	})

	t.Run("defaults the role to member", func(t *testing.T) {
		f := newMembershipServiceFixture()
		f.auth.On("IsGroupAdmin", mock.Anything, adminID, groupID).Return(true)
		f.members.On("GetActive", mock.Anything, groupID, userID).Return(models.GroupMember{}, consts.ErrorMemberNotFound)
		f.members.On("Insert", mock.Anything, mock.Anything).Return(nil)

		member, err := f.service.AddMember(ctx, groupID, adminID, userID, "")
		require.NoError(t, err)
		assert.Equal(t, models.RoleMember, member.Role)
		assert.True(t, member.IsActive)
	})
}

func TestMembershipService_LeaveGroup(t *testing.T) {
	ctx := context.Background()
	groupID := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	membershipID := primitive.NewObjectID()

	t.Run("blocked by liabilities", func(t *testing.T) {
		f := newMembershipServiceFixture()
		f.auth.On("CanLeaveGroup", mock.Anything, userID, groupID).Return(false, "You have an outstanding loan")

		err := f.service.LeaveGroup(ctx, groupID, userID, "")
		assert.ErrorIs(t, err, consts.ErrorAuthorizationDenied)
	})

	t.Run("soft deletes the membership", func(t *testing.T) {
		f := newMembershipServiceFixture()
		f.auth.On("CanLeaveGroup", mock.Anything, userID, groupID).Return(true, "")
		f.members.On("GetActive", mock.Anything, groupID, userID).Return(models.GroupMember{ID: membershipID, UserID: userID}, nil)
		f.members.On("Deactivate", mock.Anything, membershipID, "Member left voluntarily", mock.Anything).Return(nil)

		err := f.service.LeaveGroup(ctx, groupID, userID, "")
		require.NoError(t, err)
		f.members.AssertExpectations(t)
	})
}

func TestMembershipService_RemoveMember_SelfRemovalDenied(t *testing.T) {
	ctx := context.Background()
	groupID := primitive.NewObjectID()
	adminID := primitive.NewObjectID()

	f := newMembershipServiceFixture()
	f.auth.On("IsGroupAdmin", mock.Anything, adminID, groupID).Return(true)

	err := f.service.RemoveMember(ctx, groupID, adminID, adminID, "")
	assert.ErrorIs(t, err, consts.ErrorAuthorizationDenied)
}

func TestMembershipService_TransferAdmin(t *testing.T) {
	ctx := context.Background()
	groupID := primitive.NewObjectID()
	fromUserID := primitive.NewObjectID()
	toUserID := primitive.NewObjectID()
	fromMembershipID := primitive.NewObjectID()
	toMembershipID := primitive.NewObjectID()

	f := newMembershipServiceFixture()
	f.auth.On("CanTransferAdmin", mock.Anything, fromUserID, toUserID, groupID).Return(true, "")
	f.members.On("GetActive", mock.Anything, groupID, fromUserID).Return(models.GroupMember{ID: fromMembershipID, Role: models.RoleAdmin}, nil)
	f.members.On("GetActive", mock.Anything, groupID, toUserID).Return(models.GroupMember{ID: toMembershipID, Role: models.RoleMember}, nil)
	f.members.On("SetRole", mock.Anything, fromMembershipID, models.RoleMember, mock.Anything).Return(nil)
	f.members.On("SetRole", mock.Anything, toMembershipID, models.RoleAdmin, mock.Anything).Return(nil)
	f.adminTransfers.On("Insert", mock.Anything, mock.Anything).Return(nil)

	transfer, err := f.service.TransferAdmin(ctx, groupID, fromUserID, toUserID, "rotating leadership")
	require.NoError(t, err)
	assert.Equal(t, fromUserID, transfer.FromUserID)
	assert.Equal(t, toUserID, transfer.ToUserID)
	f.members.AssertExpectations(t)
	f.adminTransfers.AssertExpectations(t)
}

func TestMembershipService_GetMemberLiabilities(t *testing.T) {
	ctx := context.Background()
	groupID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	t.Run("clear member can leave", func(t *testing.T) {
		f := newMembershipServiceFixture()
		f.loans.On("FindByBorrower", mock.Anything, groupID, userID, mock.Anything).Return([]models.LoanRequest{}, nil)
		f.repayments.On("CountPendingByPayerAndGroup", mock.Anything, groupID, userID).Return(int64(0), nil)

		liabilities, err := f.service.GetMemberLiabilities(ctx, groupID, userID)
		require.NoError(t, err)
		assert.True(t, liabilities.CanLeave)
		assert.Empty(t, liabilities.Reasons)
	})

	t.Run("outstanding loan blocks leaving", func(t *testing.T) {
		f := newMembershipServiceFixture()
		f.loans.On("FindByBorrower", mock.Anything, groupID, userID, []models.LoanStatus{models.LoanPending, models.LoanPreApproved}).
			Return([]models.LoanRequest{}, nil)
		f.loans.On("FindByBorrower", mock.Anything, groupID, userID, []models.LoanStatus{models.LoanApproved, models.LoanDisbursed}).
			Return([]models.LoanRequest{{
				Status:         models.LoanDisbursed,
				TotalRepayable: 1100,
				TotalRepaid:    200,
				IsActive:       true,
			}}, nil)
		f.repayments.On("CountPendingByPayerAndGroup", mock.Anything, groupID, userID).Return(int64(0), nil)

		liabilities, err := f.service.GetMemberLiabilities(ctx, groupID, userID)
		require.NoError(t, err)
		assert.False(t, liabilities.CanLeave)
		assert.Len(t, liabilities.ActiveLoans, 1)
	})
}
