package services

import (
	"context"
	"time"

	"sahakari/bachatgat_ledger/internal/pkg/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Storage interfaces. Each service depends on the narrow slice of the
// store layer it actually uses; the concrete repositories in
// internal/pkg/store satisfy these.

type UnitOfWorkInterface interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}

type GroupStoreInterface interface {
	Insert(ctx context.Context, group models.Group) error
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error)
}

type MemberStoreInterface interface {
	Insert(ctx context.Context, member models.GroupMember) error
	GetActive(ctx context.Context, groupID, userID primitive.ObjectID) (models.GroupMember, error)
	CountActive(ctx context.Context, groupID primitive.ObjectID) (int64, error)
	CountActiveAdmins(ctx context.Context, groupID primitive.ObjectID) (int64, error)
	Deactivate(ctx context.Context, id primitive.ObjectID, reason string, now time.Time) error
	SetRole(ctx context.Context, id primitive.ObjectID, role models.MemberRole, now time.Time) error
}

type AdminTransferStoreInterface interface {
	Insert(ctx context.Context, transfer models.AdminTransferHistory) error
}

type WalletStoreInterface interface {
	Insert(ctx context.Context, wallet models.GroupWallet) error
	GetByID(ctx context.Context, id primitive.ObjectID) (models.GroupWallet, error)
	GetByGroupID(ctx context.Context, groupID primitive.ObjectID) (models.GroupWallet, error)
	CreditContribution(ctx context.Context, id primitive.ObjectID, amount float64, now time.Time) error
	DebitIfSufficient(ctx context.Context, id primitive.ObjectID, amount float64, now time.Time) (models.GroupWallet, error)
	CreditRepayment(ctx context.Context, id primitive.ObjectID, amount, interest float64, now time.Time) error
	OverwriteAggregates(ctx context.Context, id primitive.ObjectID, balance, contributed, disbursed float64, now time.Time) error
	MarkClean(ctx context.Context, id primitive.ObjectID, now time.Time) error
}

type LedgerStoreInterface interface {
	Insert(ctx context.Context, txn models.WalletTransaction) error
	FindActiveByWallet(ctx context.Context, walletID primitive.ObjectID) ([]models.WalletTransaction, error)
	MarkPublished(ctx context.Context, id primitive.ObjectID) error
}

type MemberLedgerStoreInterface interface {
	CreditPrincipal(ctx context.Context, walletID, userID primitive.ObjectID, amount float64, now time.Time) error
	CreditInterest(ctx context.Context, walletID, userID primitive.ObjectID, amount float64, now time.Time) error
	FindByWallet(ctx context.Context, walletID primitive.ObjectID) ([]models.MemberLedger, error)
	FindContributorsExcluding(ctx context.Context, walletID, excludedUserID primitive.ObjectID) ([]models.MemberLedger, error)
}

type ContributionStoreInterface interface {
	Insert(ctx context.Context, contribution models.MemberContribution) error
	FindByWallet(ctx context.Context, walletID primitive.ObjectID) ([]models.MemberContribution, error)
}

type LoanStoreInterface interface {
	Insert(ctx context.Context, loan models.LoanRequest) error
	GetByID(ctx context.Context, id primitive.ObjectID) (models.LoanRequest, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	FindPendingByRequester(ctx context.Context, groupID, userID primitive.ObjectID) ([]models.LoanRequest, error)
	FindByGroupAndStatus(ctx context.Context, groupID primitive.ObjectID, statuses []models.LoanStatus) ([]models.LoanRequest, error)
	FindByBorrower(ctx context.Context, groupID, userID primitive.ObjectID, statuses []models.LoanStatus) ([]models.LoanRequest, error)
}

type ApprovalStoreInterface interface {
	Insert(ctx context.Context, approval models.LoanApproval) error
	CountByLoan(ctx context.Context, loanID primitive.ObjectID, approved bool) (int64, error)
	FindByLoan(ctx context.Context, loanID primitive.ObjectID) ([]models.LoanApproval, error)
	HasVoted(ctx context.Context, loanID, userID primitive.ObjectID) (bool, error)
}

type ScheduleStoreInterface interface {
	InsertMany(ctx context.Context, schedules []models.EMISchedule) error
	GetByID(ctx context.Context, id primitive.ObjectID) (models.EMISchedule, error)
	FindByLoan(ctx context.Context, loanID primitive.ObjectID) ([]models.EMISchedule, error)
	FirstUnpaid(ctx context.Context, loanID primitive.ObjectID) (models.EMISchedule, error)
	DeleteByLoan(ctx context.Context, loanID primitive.ObjectID) error
	CountPaid(ctx context.Context, loanID primitive.ObjectID) (int64, error)
	MarkPaid(ctx context.Context, id, repaymentID primitive.ObjectID, paidAmount float64, now time.Time) error
}

type SnapshotStoreInterface interface {
	InsertMany(ctx context.Context, snapshots []models.LoanContributionSnapshot) error
	FindByLoan(ctx context.Context, loanID primitive.ObjectID) ([]models.LoanContributionSnapshot, error)
	CountByLoan(ctx context.Context, loanID primitive.ObjectID) (int64, error)
}

type RepaymentStoreInterface interface {
	Insert(ctx context.Context, repayment models.LoanRepayment) error
	GetByID(ctx context.Context, id primitive.ObjectID) (models.LoanRepayment, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	FindByLoan(ctx context.Context, loanID primitive.ObjectID) ([]models.LoanRepayment, error)
	CountPendingByPayerAndGroup(ctx context.Context, groupID, payerID primitive.ObjectID) (int64, error)
}

type DistributionStoreInterface interface {
	InsertMany(ctx context.Context, distributions []models.InterestDistribution) error
	FindByLoan(ctx context.Context, loanID primitive.ObjectID) ([]models.InterestDistribution, error)
}

type SummaryCacheInterface interface {
	Get(ctx context.Context, groupID string) (*models.WalletSummary, error)
	Set(ctx context.Context, groupID string, summary models.WalletSummary) error
	Invalidate(ctx context.Context, groupID string) error
}

type EventPublisherInterface interface {
	Publish(ctx context.Context, key string, payload []byte) error
}

// Authorization predicates. Each returns allowed plus a human-readable
// reason when denied; they never return errors of their own.
type AuthorizationServiceInterface interface {
	IsGroupMember(ctx context.Context, userID, groupID primitive.ObjectID) bool
	IsGroupAdmin(ctx context.Context, userID, groupID primitive.ObjectID) bool
	CanContribute(ctx context.Context, userID, walletID primitive.ObjectID) (bool, string)
	CanVote(ctx context.Context, userID, loanID primitive.ObjectID) (bool, string)
	CanDisburse(ctx context.Context, userID, loanID primitive.ObjectID) (bool, string)
	CanRepay(ctx context.Context, userID, loanID primitive.ObjectID) (bool, string)
	CanApproveRepayment(ctx context.Context, userID, repaymentID primitive.ObjectID) (bool, string)
	CanLeaveGroup(ctx context.Context, userID, groupID primitive.ObjectID) (bool, string)
	CanTransferAdmin(ctx context.Context, fromUserID, toUserID, groupID primitive.ObjectID) (bool, string)
}

type AmortizationServiceInterface interface {
	BuildPlan(loanID primitive.ObjectID, principal, annualRate float64, durationMonths int, repaymentType models.RepaymentType, useFlatRate bool, start time.Time) (AmortizationPlan, error)
}

// Handler-facing service contracts.

type LoanServiceInterface interface {
	CreateLoanRequest(ctx context.Context, groupID, userID primitive.ObjectID, amount float64, reason string) (models.LoanRequest, error)
	CastVote(ctx context.Context, loanID, userID primitive.ObjectID, approved bool, comment string) (models.LoanApproval, models.LoanStatus, error)
	FinalizeApproval(ctx context.Context, loanID, adminID primitive.ObjectID) (models.LoanRequest, error)
	UpdateLoanTerms(ctx context.Context, loanID, adminID primitive.ObjectID, terms models.LoanTerms) (models.LoanRequest, error)
	CloseLoan(ctx context.Context, loanID, adminID primitive.ObjectID) (models.LoanRequest, error)
	GetLoanDetails(ctx context.Context, loanID primitive.ObjectID) (models.LoanDetails, error)
	PendingDisbursements(ctx context.Context, groupID primitive.ObjectID) ([]models.LoanRequest, error)
	ActiveLoans(ctx context.Context, groupID primitive.ObjectID) ([]models.LoanRequest, error)
}

type WalletServiceInterface interface {
	CreateWalletForGroup(ctx context.Context, groupID primitive.ObjectID) (models.GroupWallet, error)
	Contribute(ctx context.Context, groupID, userID primitive.ObjectID, amount float64, description, idempotencyKey string) (models.MemberContribution, models.WalletTransaction, error)
	Disburse(ctx context.Context, loanID, adminID primitive.ObjectID, idempotencyKey string) (models.WalletTransaction, error)
	SubmitRepayment(ctx context.Context, loanID, userID primitive.ObjectID, amount float64, description string, scheduleID primitive.ObjectID) (models.LoanRepayment, error)
	ApproveRepayment(ctx context.Context, repaymentID, adminID primitive.ObjectID) (models.LoanRepayment, models.WalletTransaction, []models.InterestDistribution, error)
	RejectRepayment(ctx context.Context, repaymentID, adminID primitive.ObjectID, reason string) (models.LoanRepayment, error)
	Recalculate(ctx context.Context, walletID primitive.ObjectID) (models.RecalcResult, error)
	GetWalletSummary(ctx context.Context, groupID primitive.ObjectID) (models.WalletSummary, error)
	LedgerFeed(ctx context.Context, groupID primitive.ObjectID) ([]models.WalletTransaction, error)
}

type MembershipServiceInterface interface {
	CreateGroup(ctx context.Context, creatorID primitive.ObjectID, input CreateGroupInput) (models.Group, models.GroupWallet, error)
	AddMember(ctx context.Context, groupID, adminID, userID primitive.ObjectID, role models.MemberRole) (models.GroupMember, error)
	RemoveMember(ctx context.Context, groupID, adminID, userID primitive.ObjectID, reason string) error
	LeaveGroup(ctx context.Context, groupID, userID primitive.ObjectID, reason string) error
	TransferAdmin(ctx context.Context, groupID, fromUserID, toUserID primitive.ObjectID, reason string) (models.AdminTransferHistory, error)
	GetMemberLiabilities(ctx context.Context, groupID, userID primitive.ObjectID) (models.MemberLiabilities, error)
}
