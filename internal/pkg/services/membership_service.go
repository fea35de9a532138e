package services

import (
	"context"
	"fmt"
	"time"

	"sahakari/bachatgat_ledger/configs"
	"sahakari/bachatgat_ledger/internal/pkg/common"
	"sahakari/bachatgat_ledger/internal/pkg/consts"
	"sahakari/bachatgat_ledger/internal/pkg/logger"
	"sahakari/bachatgat_ledger/internal/pkg/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateGroupInput carries the group settings at creation; zero values
// fall back to the configured defaults.
type CreateGroupInput struct {
	Name                  string  `json:"name" validate:"required"`
	Description           string  `json:"description"`
	DefaultInterestRate   float64 `json:"defaultInterestRate" validate:"gte=0"`
	DefaultDurationMonths int     `json:"defaultDurationMonths" validate:"gte=0"`
	DefaultRepaymentType  string  `json:"defaultRepaymentType" validate:"omitempty,oneof=emi bullet"`
	UseFlatRate           bool    `json:"useFlatRate"`
}

// MembershipService manages group provisioning and the membership
// lifecycle. Leaving is always a soft delete so historical votes,
// snapshots and ledger attributions keep their subject.
type MembershipService struct {
	uow            UnitOfWorkInterface
	auth           AuthorizationServiceInterface
	groups         GroupStoreInterface
	members        MemberStoreInterface
	wallets        WalletStoreInterface
	loans          LoanStoreInterface
	repayments     RepaymentStoreInterface
	adminTransfers AdminTransferStoreInterface
}

func NewMembershipService(uow UnitOfWorkInterface, auth AuthorizationServiceInterface, groups GroupStoreInterface, members MemberStoreInterface, wallets WalletStoreInterface, loans LoanStoreInterface, repayments RepaymentStoreInterface, adminTransfers AdminTransferStoreInterface) *MembershipService {
	return &MembershipService{
		uow:            uow,
		auth:           auth,
		groups:         groups,
		members:        members,
		wallets:        wallets,
		loans:          loans,
		repayments:     repayments,
		adminTransfers: adminTransfers,
	}
}

// CreateGroup provisions the group, its wallet and the creator's admin
// membership in one unit of work; a group never exists without a wallet.
func (s *MembershipService) CreateGroup(ctx context.Context, creatorID primitive.ObjectID, input CreateGroupInput) (models.Group, models.GroupWallet, error) {
	if input.DefaultInterestRate == 0 {
		input.DefaultInterestRate = configs.DEFAULT_INTEREST_RATE
	}
	if input.DefaultDurationMonths == 0 {
		input.DefaultDurationMonths = configs.DEFAULT_DURATION_MONTHS
	}
	if input.DefaultRepaymentType == "" {
		input.DefaultRepaymentType = configs.DEFAULT_REPAYMENT_TYPE
	}

	now := time.Now().UTC()
	group := models.Group{
		ID:                    primitive.NewObjectID(),
		Name:                  input.Name,
		Description:           input.Description,
		CreatedBy:             creatorID,
		DefaultInterestRate:   input.DefaultInterestRate,
		DefaultDurationMonths: input.DefaultDurationMonths,
		DefaultRepaymentType:  input.DefaultRepaymentType,
		UseFlatRate:           input.UseFlatRate,
		IsActive:              true,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	wallet := common.SerializeGroupWallet(group.ID)
	membership := common.SerializeGroupMember(group.ID, creatorID, models.RoleAdmin)

	err := s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.groups.Insert(ctx, group); err != nil {
			return err
		}
		if err := s.members.Insert(ctx, membership); err != nil {
			return err
		}
		return s.wallets.Insert(ctx, wallet)
	})
	if err != nil {
		return models.Group{}, models.GroupWallet{}, err
	}

	logger.Info(ctx, "group %s created by %s", group.ID.Hex(), creatorID.Hex())
	return group, wallet, nil
}

func (s *MembershipService) AddMember(ctx context.Context, groupID, adminID, userID primitive.ObjectID, role models.MemberRole) (models.GroupMember, error) {
	if !s.auth.IsGroupAdmin(ctx, adminID, groupID) {
		return models.GroupMember{}, consts.AuthorizationDenied("Only admin can add members")
	}
	if _, err := s.members.GetActive(ctx, groupID, userID); err == nil {
		return models.GroupMember{}, consts.ErrorMemberAlreadyExists
	}
	if role == "" {
		role = models.RoleMember
	}
	membership := common.SerializeGroupMember(groupID, userID, role)
	if err := s.members.Insert(ctx, membership); err != nil {
		return models.GroupMember{}, err
	}
	return membership, nil
}

// RemoveMember is the admin-initiated exit. The target still has to pass
// the same liability checks as a voluntary leave.
func (s *MembershipService) RemoveMember(ctx context.Context, groupID, adminID, userID primitive.ObjectID, reason string) error {
	if !s.auth.IsGroupAdmin(ctx, adminID, groupID) {
		return consts.AuthorizationDenied("Only admin can remove members")
	}
	if userID == adminID {
		return consts.AuthorizationDenied("Use leave group to remove yourself")
	}
	if allowed, denyReason := s.auth.CanLeaveGroup(ctx, userID, groupID); !allowed {
		return consts.AuthorizationDenied("Cannot remove: " + denyReason)
	}
	membership, err := s.members.GetActive(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if reason == "" {
		reason = fmt.Sprintf("Removed by admin %s", adminID.Hex())
	}
	return s.members.Deactivate(ctx, membership.ID, reason, time.Now().UTC())
}

func (s *MembershipService) LeaveGroup(ctx context.Context, groupID, userID primitive.ObjectID, reason string) error {
	if allowed, denyReason := s.auth.CanLeaveGroup(ctx, userID, groupID); !allowed {
		return consts.AuthorizationDenied(denyReason)
	}
	membership, err := s.members.GetActive(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if reason == "" {
		reason = "Member left voluntarily"
	}
	return s.members.Deactivate(ctx, membership.ID, reason, time.Now().UTC())
}

// TransferAdmin swaps the admin role between two members and writes the
// audit row in one unit of work, so the group can never observe zero or
// two admins from a half-applied transfer.
func (s *MembershipService) TransferAdmin(ctx context.Context, groupID, fromUserID, toUserID primitive.ObjectID, reason string) (models.AdminTransferHistory, error) {
	if allowed, denyReason := s.auth.CanTransferAdmin(ctx, fromUserID, toUserID, groupID); !allowed {
		return models.AdminTransferHistory{}, consts.AuthorizationDenied(denyReason)
	}
	fromMembership, err := s.members.GetActive(ctx, groupID, fromUserID)
	if err != nil {
		return models.AdminTransferHistory{}, err
	}
	toMembership, err := s.members.GetActive(ctx, groupID, toUserID)
	if err != nil {
		return models.AdminTransferHistory{}, err
	}

	now := time.Now().UTC()
	transfer := models.AdminTransferHistory{
		ID:            primitive.NewObjectID(),
		GroupID:       groupID,
		FromUserID:    fromUserID,
		ToUserID:      toUserID,
		Reason:        reason,
		TransferredAt: now,
	}
	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.members.SetRole(ctx, fromMembership.ID, models.RoleMember, now); err != nil {
			return err
		}
		if err := s.members.SetRole(ctx, toMembership.ID, models.RoleAdmin, now); err != nil {
			return err
		}
		return s.adminTransfers.Insert(ctx, transfer)
	})
	if err != nil {
		return models.AdminTransferHistory{}, err
	}
	return transfer, nil
}

// GetMemberLiabilities explains, item by item, why a member can or cannot
// leave the group.
func (s *MembershipService) GetMemberLiabilities(ctx context.Context, groupID, userID primitive.ObjectID) (models.MemberLiabilities, error) {
	liabilities := models.MemberLiabilities{
		CanLeave: true,
		Reasons:  []string{},
	}

	pending, err := s.loans.FindByBorrower(ctx, groupID, userID, []models.LoanStatus{models.LoanPending, models.LoanPreApproved})
	if err != nil {
		return models.MemberLiabilities{}, err
	}
	if len(pending) > 0 {
		liabilities.CanLeave = false
		liabilities.Reasons = append(liabilities.Reasons, "You have pending loan requests")
		liabilities.PendingLoans = pending
	}

	active, err := s.loans.FindByBorrower(ctx, groupID, userID, []models.LoanStatus{models.LoanApproved, models.LoanDisbursed})
	if err != nil {
		return models.MemberLiabilities{}, err
	}
	for _, loan := range active {
		if !loan.IsActive {
			continue
		}
		if loan.Status == models.LoanApproved || loan.RemainingAmount() > 0 {
			liabilities.CanLeave = false
			liabilities.Reasons = append(liabilities.Reasons, fmt.Sprintf("Outstanding loan: %.2f", loan.RemainingAmount()))
			liabilities.ActiveLoans = append(liabilities.ActiveLoans, loan)
		}
	}

	pendingRepayments, err := s.repayments.CountPendingByPayerAndGroup(ctx, groupID, userID)
	if err != nil {
		return models.MemberLiabilities{}, err
	}
	if pendingRepayments > 0 {
		liabilities.CanLeave = false
		liabilities.Reasons = append(liabilities.Reasons, "You have pending repayments awaiting approval")
	}
	return liabilities, nil
}
