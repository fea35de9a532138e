package services

import (
	"context"
	"fmt"

	"sahakari/bachatgat_ledger/internal/pkg/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthorizationService centralizes every permission predicate. Each
// predicate returns allowed plus a reason string when denied; callers
// wrap the reason in an AuthorizationDenied error. Predicates read state
// but never mutate it.
type AuthorizationService struct {
	members    MemberStoreInterface
	wallets    WalletStoreInterface
	loans      LoanStoreInterface
	approvals  ApprovalStoreInterface
	repayments RepaymentStoreInterface
}

func NewAuthorizationService(members MemberStoreInterface, wallets WalletStoreInterface, loans LoanStoreInterface, approvals ApprovalStoreInterface, repayments RepaymentStoreInterface) *AuthorizationService {
	return &AuthorizationService{
		members:    members,
		wallets:    wallets,
		loans:      loans,
		approvals:  approvals,
		repayments: repayments,
	}
}

func (s *AuthorizationService) IsGroupMember(ctx context.Context, userID, groupID primitive.ObjectID) bool {
	_, err := s.members.GetActive(ctx, groupID, userID)
	return err == nil
}

func (s *AuthorizationService) IsGroupAdmin(ctx context.Context, userID, groupID primitive.ObjectID) bool {
	member, err := s.members.GetActive(ctx, groupID, userID)
	return err == nil && member.Role == models.RoleAdmin
}

func (s *AuthorizationService) CanContribute(ctx context.Context, userID, walletID primitive.ObjectID) (bool, string) {
	wallet, err := s.wallets.GetByID(ctx, walletID)
	if err != nil {
		return false, "Wallet not found"
	}
	if !s.IsGroupMember(ctx, userID, wallet.GroupID) {
		return false, "You are not a member of this group"
	}
	return true, ""
}

func (s *AuthorizationService) CanVote(ctx context.Context, userID, loanID primitive.ObjectID) (bool, string) {
	loan, err := s.loans.GetByID(ctx, loanID)
	if err != nil {
		return false, "Loan not found"
	}
	if !loan.IsActive {
		return false, "This loan request is no longer active"
	}
	if loan.Status != models.LoanPending {
		return false, fmt.Sprintf("Voting is closed. Loan is %s", loan.Status)
	}
	if !s.IsGroupMember(ctx, userID, loan.GroupID) {
		return false, "You are not a member of this group"
	}
	if loan.RequestedBy == userID {
		return false, "You cannot vote on your own loan request"
	}
	voted, err := s.approvals.HasVoted(ctx, loanID, userID)
	if err == nil && voted {
		return false, "You have already voted on this loan"
	}
	return true, ""
}

func (s *AuthorizationService) CanDisburse(ctx context.Context, userID, loanID primitive.ObjectID) (bool, string) {
	loan, err := s.loans.GetByID(ctx, loanID)
	if err != nil {
		return false, "Loan not found"
	}
	if !loan.IsActive {
		return false, "This loan request is no longer active"
	}
	if loan.Status != models.LoanApproved {
		return false, fmt.Sprintf("Cannot disburse. Loan status is %s", loan.Status)
	}
	if !s.IsGroupAdmin(ctx, userID, loan.GroupID) {
		return false, "Only group admin can disburse loans"
	}
	wallet, err := s.wallets.GetByGroupID(ctx, loan.GroupID)
	if err != nil {
		return false, "Group wallet not found"
	}
	amount := loan.DisburseAmount()
	if wallet.Balance < amount {
		return false, fmt.Sprintf("Insufficient balance. Required: %.2f, Available: %.2f", amount, wallet.Balance)
	}
	return true, ""
}

func (s *AuthorizationService) CanRepay(ctx context.Context, userID, loanID primitive.ObjectID) (bool, string) {
	loan, err := s.loans.GetByID(ctx, loanID)
	if err != nil {
		return false, "Loan not found"
	}
	if loan.Status != models.LoanDisbursed {
		if loan.Status == models.LoanCompleted {
			return false, "This loan is already fully repaid"
		}
		return false, fmt.Sprintf("Cannot repay. Loan status is %s", loan.Status)
	}
	if loan.RequestedBy != userID {
		return false, "Only the borrower can repay this loan"
	}
	if loan.IsFullyRepaid() {
		return false, "This loan is already fully repaid"
	}
	return true, ""
}

func (s *AuthorizationService) CanApproveRepayment(ctx context.Context, userID, repaymentID primitive.ObjectID) (bool, string) {
	repayment, err := s.repayments.GetByID(ctx, repaymentID)
	if err != nil {
		return false, "Repayment not found"
	}
	if repayment.Status != models.RepaymentPending {
		return false, fmt.Sprintf("Repayment is already %s", repayment.Status)
	}
	loan, err := s.loans.GetByID(ctx, repayment.LoanID)
	if err != nil {
		return false, "Loan not found"
	}
	if !s.IsGroupAdmin(ctx, userID, loan.GroupID) {
		return false, "Only group admin can approve repayments"
	}
	return true, ""
}

func (s *AuthorizationService) CanLeaveGroup(ctx context.Context, userID, groupID primitive.ObjectID) (bool, string) {
	membership, err := s.members.GetActive(ctx, groupID, userID)
	if err != nil {
		return false, "You are not a member of this group"
	}

	openLoans, err := s.loans.FindByBorrower(ctx, groupID, userID, []models.LoanStatus{
		models.LoanPending, models.LoanPreApproved, models.LoanApproved, models.LoanDisbursed,
	})
	if err == nil {
		for _, loan := range openLoans {
			if !loan.IsActive {
				continue
			}
			switch loan.Status {
			case models.LoanPending, models.LoanPreApproved:
				return false, "You have pending loan requests. Cancel them first."
			case models.LoanApproved:
				return false, "You have an approved loan pending disbursement."
			case models.LoanDisbursed:
				return false, fmt.Sprintf("You have an unpaid loan of %.2f. Clear it first.", loan.RemainingAmount())
			}
		}
	}

	pendingRepayments, err := s.repayments.CountPendingByPayerAndGroup(ctx, groupID, userID)
	if err == nil && pendingRepayments > 0 {
		return false, fmt.Sprintf("You have %d pending repayment(s) awaiting approval.", pendingRepayments)
	}

	if membership.Role == models.RoleAdmin {
		adminCount, err := s.members.CountActiveAdmins(ctx, groupID)
		if err == nil && adminCount == 1 {
			return false, "You are the only admin. Transfer admin rights first."
		}
	}
	return true, ""
}

func (s *AuthorizationService) CanTransferAdmin(ctx context.Context, fromUserID, toUserID, groupID primitive.ObjectID) (bool, string) {
	fromMembership, err := s.members.GetActive(ctx, groupID, fromUserID)
	if err != nil {
		return false, "You are not a member of this group"
	}
	if fromMembership.Role != models.RoleAdmin {
		return false, "You are not an admin of this group"
	}
	toMembership, err := s.members.GetActive(ctx, groupID, toUserID)
	if err != nil {
		return false, "Target user is not a member of this group"
	}
	if toMembership.Role == models.RoleAdmin {
		return false, "Target user is already an admin"
	}
	return true, ""
}
