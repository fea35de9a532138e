package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"sahakari/bachatgat_ledger/internal/pkg/models"
)

// uowStub runs the callback directly; transactional semantics are covered
// by the store layer, not here.
type uowStub struct{}

func (uowStub) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockGroupStore struct{ mock.Mock }

func (m *mockGroupStore) Insert(ctx context.Context, group models.Group) error {
	return m.Called(ctx, group).Error(0)
}

func (m *mockGroupStore) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Group), args.Error(1)
}

type mockMemberStore struct{ mock.Mock }

func (m *mockMemberStore) Insert(ctx context.Context, member models.GroupMember) error {
	return m.Called(ctx, member).Error(0)
}

func (m *mockMemberStore) GetActive(ctx context.Context, groupID, userID primitive.ObjectID) (models.GroupMember, error) {
	args := m.Called(ctx, groupID, userID)
	return args.Get(0).(models.GroupMember), args.Error(1)
}

func (m *mockMemberStore) CountActive(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, groupID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockMemberStore) CountActiveAdmins(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, groupID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockMemberStore) Deactivate(ctx context.Context, id primitive.ObjectID, reason string, now time.Time) error {
	return m.Called(ctx, id, reason, now).Error(0)
}

func (m *mockMemberStore) SetRole(ctx context.Context, id primitive.ObjectID, role models.MemberRole, now time.Time) error {
	return m.Called(ctx, id, role, now).Error(0)
}

type mockAdminTransferStore struct{ mock.Mock }

func (m *mockAdminTransferStore) Insert(ctx context.Context, transfer models.AdminTransferHistory) error {
	return m.Called(ctx, transfer).Error(0)
}

type mockWalletStore struct{ mock.Mock }

func (m *mockWalletStore) Insert(ctx context.Context, wallet models.GroupWallet) error {
	return m.Called(ctx, wallet).Error(0)
}

func (m *mockWalletStore) GetByID(ctx context.Context, id primitive.ObjectID) (models.GroupWallet, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.GroupWallet), args.Error(1)
}

func (m *mockWalletStore) GetByGroupID(ctx context.Context, groupID primitive.ObjectID) (models.GroupWallet, error) {
	args := m.Called(ctx, groupID)
	return args.Get(0).(models.GroupWallet), args.Error(1)
}

func (m *mockWalletStore) CreditContribution(ctx context.Context, id primitive.ObjectID, amount float64, now time.Time) error {
	return m.Called(ctx, id, amount, now).Error(0)
}

func (m *mockWalletStore) DebitIfSufficient(ctx context.Context, id primitive.ObjectID, amount float64, now time.Time) (models.GroupWallet, error) {
	args := m.Called(ctx, id, amount, now)
	return args.Get(0).(models.GroupWallet), args.Error(1)
}

func (m *mockWalletStore) CreditRepayment(ctx context.Context, id primitive.ObjectID, amount, interest float64, now time.Time) error {
	return m.Called(ctx, id, amount, interest, now).Error(0)
}

func (m *mockWalletStore) OverwriteAggregates(ctx context.Context, id primitive.ObjectID, balance, contributed, disbursed float64, now time.Time) error {
	return m.Called(ctx, id, balance, contributed, disbursed, now).Error(0)
}

func (m *mockWalletStore) MarkClean(ctx context.Context, id primitive.ObjectID, now time.Time) error {
	return m.Called(ctx, id, now).Error(0)
}

type mockLedgerStore struct{ mock.Mock }

func (m *mockLedgerStore) Insert(ctx context.Context, txn models.WalletTransaction) error {
	return m.Called(ctx, txn).Error(0)
}

func (m *mockLedgerStore) FindActiveByWallet(ctx context.Context, walletID primitive.ObjectID) ([]models.WalletTransaction, error) {
	args := m.Called(ctx, walletID)
	return args.Get(0).([]models.WalletTransaction), args.Error(1)
}

func (m *mockLedgerStore) MarkPublished(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

type mockMemberLedgerStore struct{ mock.Mock }

func (m *mockMemberLedgerStore) CreditPrincipal(ctx context.Context, walletID, userID primitive.ObjectID, amount float64, now time.Time) error {
	return m.Called(ctx, walletID, userID, amount, now).Error(0)
}

func (m *mockMemberLedgerStore) CreditInterest(ctx context.Context, walletID, userID primitive.ObjectID, amount float64, now time.Time) error {
	return m.Called(ctx, walletID, userID, amount, now).Error(0)
}

func (m *mockMemberLedgerStore) FindByWallet(ctx context.Context, walletID primitive.ObjectID) ([]models.MemberLedger, error) {
	args := m.Called(ctx, walletID)
	return args.Get(0).([]models.MemberLedger), args.Error(1)
}

func (m *mockMemberLedgerStore) FindContributorsExcluding(ctx context.Context, walletID, excludedUserID primitive.ObjectID) ([]models.MemberLedger, error) {
	args := m.Called(ctx, walletID, excludedUserID)
	return args.Get(0).([]models.MemberLedger), args.Error(1)
}

type mockContributionStore struct{ mock.Mock }

func (m *mockContributionStore) Insert(ctx context.Context, contribution models.MemberContribution) error {
	return m.Called(ctx, contribution).Error(0)
}

func (m *mockContributionStore) FindByWallet(ctx context.Context, walletID primitive.ObjectID) ([]models.MemberContribution, error) {
	args := m.Called(ctx, walletID)
	return args.Get(0).([]models.MemberContribution), args.Error(1)
}

type mockLoanStore struct{ mock.Mock }

func (m *mockLoanStore) Insert(ctx context.Context, loan models.LoanRequest) error {
	return m.Called(ctx, loan).Error(0)
}

func (m *mockLoanStore) GetByID(ctx context.Context, id primitive.ObjectID) (models.LoanRequest, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.LoanRequest), args.Error(1)
}

func (m *mockLoanStore) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	return m.Called(ctx, id, fields).Error(0)
}

func (m *mockLoanStore) FindPendingByRequester(ctx context.Context, groupID, userID primitive.ObjectID) ([]models.LoanRequest, error) {
	args := m.Called(ctx, groupID, userID)
	return args.Get(0).([]models.LoanRequest), args.Error(1)
}

func (m *mockLoanStore) FindByGroupAndStatus(ctx context.Context, groupID primitive.ObjectID, statuses []models.LoanStatus) ([]models.LoanRequest, error) {
	args := m.Called(ctx, groupID, statuses)
	return args.Get(0).([]models.LoanRequest), args.Error(1)
}

func (m *mockLoanStore) FindByBorrower(ctx context.Context, groupID, userID primitive.ObjectID, statuses []models.LoanStatus) ([]models.LoanRequest, error) {
	args := m.Called(ctx, groupID, userID, statuses)
	return args.Get(0).([]models.LoanRequest), args.Error(1)
}

type mockApprovalStore struct{ mock.Mock }

func (m *mockApprovalStore) Insert(ctx context.Context, approval models.LoanApproval) error {
	return m.Called(ctx, approval).Error(0)
}

func (m *mockApprovalStore) CountByLoan(ctx context.Context, loanID primitive.ObjectID, approved bool) (int64, error) {
	args := m.Called(ctx, loanID, approved)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockApprovalStore) FindByLoan(ctx context.Context, loanID primitive.ObjectID) ([]models.LoanApproval, error) {
	args := m.Called(ctx, loanID)
	return args.Get(0).([]models.LoanApproval), args.Error(1)
}

func (m *mockApprovalStore) HasVoted(ctx context.Context, loanID, userID primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, loanID, userID)
	return args.Bool(0), args.Error(1)
}

type mockScheduleStore struct{ mock.Mock }

func (m *mockScheduleStore) InsertMany(ctx context.Context, schedules []models.EMISchedule) error {
	return m.Called(ctx, schedules).Error(0)
}

func (m *mockScheduleStore) GetByID(ctx context.Context, id primitive.ObjectID) (models.EMISchedule, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.EMISchedule), args.Error(1)
}

func (m *mockScheduleStore) FindByLoan(ctx context.Context, loanID primitive.ObjectID) ([]models.EMISchedule, error) {
	args := m.Called(ctx, loanID)
	return args.Get(0).([]models.EMISchedule), args.Error(1)
}

func (m *mockScheduleStore) FirstUnpaid(ctx context.Context, loanID primitive.ObjectID) (models.EMISchedule, error) {
	args := m.Called(ctx, loanID)
	return args.Get(0).(models.EMISchedule), args.Error(1)
}

func (m *mockScheduleStore) DeleteByLoan(ctx context.Context, loanID primitive.ObjectID) error {
	return m.Called(ctx, loanID).Error(0)
}

func (m *mockScheduleStore) CountPaid(ctx context.Context, loanID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, loanID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockScheduleStore) MarkPaid(ctx context.Context, id, repaymentID primitive.ObjectID, paidAmount float64, now time.Time) error {
	return m.Called(ctx, id, repaymentID, paidAmount, now).Error(0)
}

type mockSnapshotStore struct{ mock.Mock }

func (m *mockSnapshotStore) InsertMany(ctx context.Context, snapshots []models.LoanContributionSnapshot) error {
	return m.Called(ctx, snapshots).Error(0)
}

func (m *mockSnapshotStore) FindByLoan(ctx context.Context, loanID primitive.ObjectID) ([]models.LoanContributionSnapshot, error) {
	args := m.Called(ctx, loanID)
	return args.Get(0).([]models.LoanContributionSnapshot), args.Error(1)
}

func (m *mockSnapshotStore) CountByLoan(ctx context.Context, loanID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, loanID)
	return args.Get(0).(int64), args.Error(1)
}

type mockRepaymentStore struct{ mock.Mock }

func (m *mockRepaymentStore) Insert(ctx context.Context, repayment models.LoanRepayment) error {
	return m.Called(ctx, repayment).Error(0)
}

func (m *mockRepaymentStore) GetByID(ctx context.Context, id primitive.ObjectID) (models.LoanRepayment, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.LoanRepayment), args.Error(1)
}

func (m *mockRepaymentStore) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	return m.Called(ctx, id, fields).Error(0)
}

func (m *mockRepaymentStore) FindByLoan(ctx context.Context, loanID primitive.ObjectID) ([]models.LoanRepayment, error) {
	args := m.Called(ctx, loanID)
	return args.Get(0).([]models.LoanRepayment), args.Error(1)
}

func (m *mockRepaymentStore) CountPendingByPayerAndGroup(ctx context.Context, groupID, payerID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, groupID, payerID)
	return args.Get(0).(int64), args.Error(1)
}

type mockDistributionStore struct{ mock.Mock }

func (m *mockDistributionStore) InsertMany(ctx context.Context, distributions []models.InterestDistribution) error {
	return m.Called(ctx, distributions).Error(0)
}

func (m *mockDistributionStore) FindByLoan(ctx context.Context, loanID primitive.ObjectID) ([]models.InterestDistribution, error) {
	args := m.Called(ctx, loanID)
	return args.Get(0).([]models.InterestDistribution), args.Error(1)
}

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) IsGroupMember(ctx context.Context, userID, groupID primitive.ObjectID) bool {
	return m.Called(ctx, userID, groupID).Bool(0)
}

func (m *mockAuthService) IsGroupAdmin(ctx context.Context, userID, groupID primitive.ObjectID) bool {
	return m.Called(ctx, userID, groupID).Bool(0)
}

func (m *mockAuthService) CanContribute(ctx context.Context, userID, walletID primitive.ObjectID) (bool, string) {
	args := m.Called(ctx, userID, walletID)
	return args.Bool(0), args.String(1)
}

func (m *mockAuthService) CanVote(ctx context.Context, userID, loanID primitive.ObjectID) (bool, string) {
	args := m.Called(ctx, userID, loanID)
	return args.Bool(0), args.String(1)
}

func (m *mockAuthService) CanDisburse(ctx context.Context, userID, loanID primitive.ObjectID) (bool, string) {
	args := m.Called(ctx, userID, loanID)
	return args.Bool(0), args.String(1)
}

func (m *mockAuthService) CanRepay(ctx context.Context, userID, loanID primitive.ObjectID) (bool, string) {
	args := m.Called(ctx, userID, loanID)
	return args.Bool(0), args.String(1)
}

func (m *mockAuthService) CanApproveRepayment(ctx context.Context, userID, repaymentID primitive.ObjectID) (bool, string) {
	args := m.Called(ctx, userID, repaymentID)
	return args.Bool(0), args.String(1)
}

func (m *mockAuthService) CanLeaveGroup(ctx context.Context, userID, groupID primitive.ObjectID) (bool, string) {
	args := m.Called(ctx, userID, groupID)
	return args.Bool(0), args.String(1)
}

func (m *mockAuthService) CanTransferAdmin(ctx context.Context, fromUserID, toUserID, groupID primitive.ObjectID) (bool, string) {
	args := m.Called(ctx, fromUserID, toUserID, groupID)
	return args.Bool(0), args.String(1)
}
