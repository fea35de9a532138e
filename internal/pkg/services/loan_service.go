package services

import (
	"context"
	"time"

	"sahakari/bachatgat_ledger/internal/pkg/consts"
	"sahakari/bachatgat_ledger/internal/pkg/logger"
	"sahakari/bachatgat_ledger/internal/pkg/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LoanService drives the loan lifecycle: request creation with frozen
// quorum numbers, vote tallying, terms computation at quorum, the
// pre-approval sign-off tier, terms editing and explicit closure.
type LoanService struct {
	uow           UnitOfWorkInterface
	auth          AuthorizationServiceInterface
	groups        GroupStoreInterface
	members       MemberStoreInterface
	wallets       WalletStoreInterface
	loans         LoanStoreInterface
	approvals     ApprovalStoreInterface
	schedules     ScheduleStoreInterface
	repayments    RepaymentStoreInterface
	distributions DistributionStoreInterface
	amortizer     AmortizationServiceInterface
	quorum        *QuorumService
}

func NewLoanService(uow UnitOfWorkInterface, auth AuthorizationServiceInterface, groups GroupStoreInterface, members MemberStoreInterface, wallets WalletStoreInterface, loans LoanStoreInterface, approvals ApprovalStoreInterface, schedules ScheduleStoreInterface, repayments RepaymentStoreInterface, distributions DistributionStoreInterface, amortizer AmortizationServiceInterface, quorum *QuorumService) *LoanService {
	return &LoanService{
		uow:           uow,
		auth:          auth,
		groups:        groups,
		members:       members,
		wallets:       wallets,
		loans:         loans,
		approvals:     approvals,
		schedules:     schedules,
		repayments:    repayments,
		distributions: distributions,
		amortizer:     amortizer,
		quorum:        quorum,
	}
}

func (s *LoanService) CreateLoanRequest(ctx context.Context, groupID, userID primitive.ObjectID, amount float64, reason string) (models.LoanRequest, error) {
	if amount <= 0 {
		return models.LoanRequest{}, consts.ErrorInvalidAmount
	}

	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return models.LoanRequest{}, err
	}
	if !s.auth.IsGroupMember(ctx, userID, groupID) {
		return models.LoanRequest{}, consts.AuthorizationDenied("You are not a member of this group")
	}

	wallet, err := s.wallets.GetByGroupID(ctx, groupID)
	if err != nil {
		return models.LoanRequest{}, err
	}
	if amount > wallet.Balance {
		return models.LoanRequest{}, consts.ErrorInsufficientBalance
	}

	open, err := s.loans.FindPendingByRequester(ctx, groupID, userID)
	if err != nil {
		return models.LoanRequest{}, err
	}
	if len(open) > 0 {
		return models.LoanRequest{}, consts.ErrorPendingLoanExists
	}

	activeCount, err := s.members.CountActive(ctx, groupID)
	if err != nil {
		return models.LoanRequest{}, err
	}
	eligible, required, err := s.quorum.FrozenQuorum(int(activeCount))
	if err != nil {
		return models.LoanRequest{}, err
	}

	now := time.Now().UTC()
	loan := models.LoanRequest{
		ID:                  primitive.NewObjectID(),
		GroupID:             groupID,
		RequestedBy:         userID,
		Amount:              amount,
		Reason:              reason,
		Status:              models.LoanPending,
		TotalEligibleVoters: eligible,
		RequiredApprovals:   required,
		IsActive:            true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.loans.Insert(ctx, loan); err != nil {
		return models.LoanRequest{}, err
	}

	logger.Info(ctx, "loan request %s created in group %s, eligible=%d required=%d", loan.ID.Hex(), groupID.Hex(), eligible, required)
	return loan, nil
}

// CastVote records one member's vote and re-tallies the loan. Reaching
// the effective quorum computes the financial terms and moves the loan
// to pre_approved, or straight to approved when the requester is the
// group's only active admin and nobody else could sign off.
func (s *LoanService) CastVote(ctx context.Context, loanID, userID primitive.ObjectID, approved bool, comment string) (models.LoanApproval, models.LoanStatus, error) {
	if allowed, reason := s.auth.CanVote(ctx, userID, loanID); !allowed {
		return models.LoanApproval{}, "", consts.AuthorizationDenied(reason)
	}

	vote := models.LoanApproval{
		ID:       primitive.NewObjectID(),
		LoanID:   loanID,
		UserID:   userID,
		Approved: approved,
		Comment:  comment,
		VotedAt:  time.Now().UTC(),
	}

	var status models.LoanStatus
	err := s.uow.Run(ctx, func(ctx context.Context) error {
		loan, err := s.loans.GetByID(ctx, loanID)
		if err != nil {
			return err
		}
		if err := s.approvals.Insert(ctx, vote); err != nil {
			return err
		}

		approvalCount, err := s.approvals.CountByLoan(ctx, loanID, true)
		if err != nil {
			return err
		}
		rejectionCount, err := s.approvals.CountByLoan(ctx, loanID, false)
		if err != nil {
			return err
		}
		activeCount, err := s.members.CountActive(ctx, loan.GroupID)
		if err != nil {
			return err
		}

		votesCast := int(approvalCount + rejectionCount)
		_, required := s.quorum.EffectiveQuorum(loan.TotalEligibleVoters, int(activeCount), votesCast)

		// A requester who left mid-vote forfeits the request.
		if _, err := s.members.GetActive(ctx, loan.GroupID, loan.RequestedBy); err != nil {
			if err := s.rejectLoan(ctx, &loan, userID); err != nil {
				return err
			}
			status = loan.Status
			return nil
		}

		switch {
		case int(approvalCount) >= required:
			if err := s.approveWithTerms(ctx, &loan); err != nil {
				return err
			}
		case int(rejectionCount) >= required:
			if err := s.rejectLoan(ctx, &loan, userID); err != nil {
				return err
			}
		}
		status = loan.Status
		return nil
	})
	if err != nil {
		return models.LoanApproval{}, "", err
	}
	return vote, status, nil
}

func (s *LoanService) rejectLoan(ctx context.Context, loan *models.LoanRequest, byUserID primitive.ObjectID) error {
	if err := loan.TransitionTo(models.LoanRejected, byUserID); err != nil {
		return err
	}
	return s.loans.Update(ctx, loan.ID, bson.M{
		"status":     loan.Status,
		"rejectedAt": loan.RejectedAt,
		"rejectedBy": loan.RejectedBy,
		"updatedAt":  time.Now().UTC(),
	})
}

// approveWithTerms runs once the vote crosses the quorum: it binds the
// financial terms, computes the amortization plan and persists both the
// schedule and the loan's new state.
func (s *LoanService) approveWithTerms(ctx context.Context, loan *models.LoanRequest) error {
	group, err := s.groups.GetByID(ctx, loan.GroupID)
	if err != nil {
		return err
	}

	// Terms set by an earlier edit stick; otherwise group defaults apply.
	if loan.InterestRate == 0 {
		loan.InterestRate = group.DefaultInterestRate
	}
	if loan.DurationMonths == 0 {
		loan.DurationMonths = group.DefaultDurationMonths
	}
	if loan.RepaymentType == "" {
		loan.RepaymentType = models.RepaymentType(group.DefaultRepaymentType)
	}
	loan.ApprovedAmount = loan.Amount

	plan, err := s.amortizer.BuildPlan(loan.ID, loan.ApprovedAmount, loan.InterestRate, loan.DurationMonths, loan.RepaymentType, group.UseFlatRate, time.Now().UTC())
	if err != nil {
		return err
	}
	loan.TotalInterest = plan.TotalInterest
	loan.TotalRepayable = plan.TotalRepayable
	loan.EMIAmount = plan.EMIAmount

	next := models.LoanPreApproved
	if s.isSoleActiveAdmin(ctx, loan.RequestedBy, loan.GroupID) {
		// Nobody else can give final sign-off, so the second tier is
		// skipped.
		next = models.LoanApproved
	}
	if err := loan.TransitionTo(next, loan.RequestedBy); err != nil {
		return err
	}

	if err := s.schedules.InsertMany(ctx, plan.Schedule); err != nil {
		return err
	}
	return s.loans.Update(ctx, loan.ID, s.termsFields(loan))
}

func (s *LoanService) isSoleActiveAdmin(ctx context.Context, userID, groupID primitive.ObjectID) bool {
	member, err := s.members.GetActive(ctx, groupID, userID)
	if err != nil || member.Role != models.RoleAdmin {
		return false
	}
	count, err := s.members.CountActiveAdmins(ctx, groupID)
	return err == nil && count == 1
}

func (s *LoanService) termsFields(loan *models.LoanRequest) bson.M {
	return bson.M{
		"status":             loan.Status,
		"interestRate":       loan.InterestRate,
		"loanDurationMonths": loan.DurationMonths,
		"repaymentType":      loan.RepaymentType,
		"approvedAmount":     loan.ApprovedAmount,
		"totalInterest":      loan.TotalInterest,
		"totalRepayable":     loan.TotalRepayable,
		"emiAmount":          loan.EMIAmount,
		"approvedAt":         loan.ApprovedAt,
		"approvedBy":         loan.ApprovedBy,
		"updatedAt":          time.Now().UTC(),
	}
}

// FinalizeApproval is the second-tier sign-off: an admin who is not the
// requester confirms a pre-approved loan.
func (s *LoanService) FinalizeApproval(ctx context.Context, loanID, adminID primitive.ObjectID) (models.LoanRequest, error) {
	loan, err := s.loans.GetByID(ctx, loanID)
	if err != nil {
		return models.LoanRequest{}, err
	}
	if !s.auth.IsGroupAdmin(ctx, adminID, loan.GroupID) {
		return models.LoanRequest{}, consts.AuthorizationDenied("Only group admin can finalize loan approval")
	}
	if loan.RequestedBy == adminID {
		return models.LoanRequest{}, consts.AuthorizationDenied("You cannot finalize your own loan request")
	}
	if err := loan.TransitionTo(models.LoanApproved, adminID); err != nil {
		return models.LoanRequest{}, err
	}
	err = s.loans.Update(ctx, loan.ID, bson.M{
		"status":     loan.Status,
		"approvedAt": loan.ApprovedAt,
		"approvedBy": loan.ApprovedBy,
		"updatedAt":  time.Now().UTC(),
	})
	if err != nil {
		return models.LoanRequest{}, err
	}
	return loan, nil
}

// UpdateLoanTerms edits the financial terms of a loan that has no paid
// installment yet. Past the pending state the schedule is regenerated
// from scratch, and if the existing approvals no longer form a majority
// the loan drops back to pending for a fresh round.
func (s *LoanService) UpdateLoanTerms(ctx context.Context, loanID, adminID primitive.ObjectID, terms models.LoanTerms) (models.LoanRequest, error) {
	if terms.Amount <= 0 {
		return models.LoanRequest{}, consts.ErrorInvalidAmount
	}
	if terms.DurationMonths < 1 {
		return models.LoanRequest{}, consts.ErrorInvalidDuration
	}
	if terms.RepaymentType != models.RepaymentEMI && terms.RepaymentType != models.RepaymentBullet {
		return models.LoanRequest{}, consts.ErrorInvalidRepaymentType
	}

	loan, err := s.loans.GetByID(ctx, loanID)
	if err != nil {
		return models.LoanRequest{}, err
	}
	if !s.auth.IsGroupAdmin(ctx, adminID, loan.GroupID) {
		return models.LoanRequest{}, consts.AuthorizationDenied("Only group admin can edit loan terms")
	}
	switch loan.Status {
	case models.LoanPending, models.LoanPreApproved, models.LoanApproved, models.LoanDisbursed:
	default:
		return models.LoanRequest{}, &models.CustomError{
			Code:    models.ErrorInvalidStateTransition.Code,
			Message: "Loan terms cannot be edited in state " + string(loan.Status),
		}
	}
	paid, err := s.schedules.CountPaid(ctx, loanID)
	if err != nil {
		return models.LoanRequest{}, err
	}
	if paid > 0 {
		return models.LoanRequest{}, consts.ErrorScheduleLocked
	}

	group, err := s.groups.GetByID(ctx, loan.GroupID)
	if err != nil {
		return models.LoanRequest{}, err
	}

	err = s.uow.Run(ctx, func(ctx context.Context) error {
		loan.Amount = terms.Amount
		loan.InterestRate = terms.InterestRate
		loan.DurationMonths = terms.DurationMonths
		loan.RepaymentType = terms.RepaymentType
		loan.UpdatedAt = time.Now().UTC()

		if loan.Status == models.LoanPending {
			// No schedule or totals exist yet; the terms are picked up
			// when the vote reaches quorum.
			return s.loans.Update(ctx, loan.ID, bson.M{
				"amount":             loan.Amount,
				"interestRate":       loan.InterestRate,
				"loanDurationMonths": loan.DurationMonths,
				"repaymentType":      loan.RepaymentType,
				"updatedAt":          loan.UpdatedAt,
			})
		}

		if err := s.schedules.DeleteByLoan(ctx, loan.ID); err != nil {
			return err
		}

		approvalCount, err := s.approvals.CountByLoan(ctx, loan.ID, true)
		if err != nil {
			return err
		}
		rejectionCount, err := s.approvals.CountByLoan(ctx, loan.ID, false)
		if err != nil {
			return err
		}
		activeCount, err := s.members.CountActive(ctx, loan.GroupID)
		if err != nil {
			return err
		}
		_, required := s.quorum.EffectiveQuorum(loan.TotalEligibleVoters, int(activeCount), int(approvalCount+rejectionCount))

		if int(approvalCount) < required {
			// The edit invalidated the majority; back to a fresh vote.
			if err := loan.TransitionTo(models.LoanPending, adminID); err != nil {
				return err
			}
			return s.loans.Update(ctx, loan.ID, bson.M{
				"status":             loan.Status,
				"amount":             loan.Amount,
				"interestRate":       loan.InterestRate,
				"loanDurationMonths": loan.DurationMonths,
				"repaymentType":      loan.RepaymentType,
				"approvedAmount":     float64(0),
				"totalInterest":      float64(0),
				"totalRepayable":     float64(0),
				"emiAmount":          float64(0),
				"updatedAt":          loan.UpdatedAt,
			})
		}

		loan.ApprovedAmount = loan.Amount
		plan, err := s.amortizer.BuildPlan(loan.ID, loan.ApprovedAmount, loan.InterestRate, loan.DurationMonths, loan.RepaymentType, group.UseFlatRate, time.Now().UTC())
		if err != nil {
			return err
		}
		loan.TotalInterest = plan.TotalInterest
		loan.TotalRepayable = plan.TotalRepayable
		loan.EMIAmount = plan.EMIAmount

		if err := s.schedules.InsertMany(ctx, plan.Schedule); err != nil {
			return err
		}
		return s.loans.Update(ctx, loan.ID, bson.M{
			"amount":             loan.Amount,
			"interestRate":       loan.InterestRate,
			"loanDurationMonths": loan.DurationMonths,
			"repaymentType":      loan.RepaymentType,
			"approvedAmount":     loan.ApprovedAmount,
			"totalInterest":      loan.TotalInterest,
			"totalRepayable":     loan.TotalRepayable,
			"emiAmount":          loan.EMIAmount,
			"updatedAt":          loan.UpdatedAt,
		})
	})
	if err != nil {
		return models.LoanRequest{}, err
	}
	return loan, nil
}

// CloseLoan is the explicit admin close of a fully repaid loan. The
// repayment-approval path also completes loans automatically; this covers
// a loan left disbursed after an out-of-band settlement.
func (s *LoanService) CloseLoan(ctx context.Context, loanID, adminID primitive.ObjectID) (models.LoanRequest, error) {
	loan, err := s.loans.GetByID(ctx, loanID)
	if err != nil {
		return models.LoanRequest{}, err
	}
	if !s.auth.IsGroupAdmin(ctx, adminID, loan.GroupID) {
		return models.LoanRequest{}, consts.AuthorizationDenied("Only group admin can close loans")
	}
	if !loan.IsFullyRepaid() {
		return models.LoanRequest{}, consts.AuthorizationDenied("Loan is not fully repaid")
	}
	if err := loan.TransitionTo(models.LoanCompleted, adminID); err != nil {
		return models.LoanRequest{}, err
	}
	err = s.loans.Update(ctx, loan.ID, bson.M{
		"status":      loan.Status,
		"completedAt": loan.CompletedAt,
		"updatedAt":   time.Now().UTC(),
	})
	if err != nil {
		return models.LoanRequest{}, err
	}
	return loan, nil
}

func (s *LoanService) GetLoanDetails(ctx context.Context, loanID primitive.ObjectID) (models.LoanDetails, error) {
	loan, err := s.loans.GetByID(ctx, loanID)
	if err != nil {
		return models.LoanDetails{}, err
	}

	votes, err := s.approvals.FindByLoan(ctx, loanID)
	if err != nil {
		return models.LoanDetails{}, err
	}
	approvalCount := 0
	for _, v := range votes {
		if v.Approved {
			approvalCount++
		}
	}
	votesCast := len(votes)
	rejectionCount := votesCast - approvalCount

	var schedule []models.EMISchedule
	if loan.RepaymentType == models.RepaymentEMI {
		schedule, err = s.schedules.FindByLoan(ctx, loanID)
		if err != nil {
			return models.LoanDetails{}, err
		}
	}
	repayments, err := s.repaymentsForLoan(ctx, loanID)
	if err != nil {
		return models.LoanDetails{}, err
	}
	distributions, err := s.distributionsForLoan(ctx, loanID)
	if err != nil {
		return models.LoanDetails{}, err
	}

	pendingVotes := loan.TotalEligibleVoters - votesCast
	if pendingVotes < 0 {
		pendingVotes = 0
	}

	return models.LoanDetails{
		Loan: loan,
		Voting: models.VotingStats{
			EligibleVoters:    loan.TotalEligibleVoters,
			RequiredApprovals: loan.RequiredApprovals,
			Approvals:         approvalCount,
			Rejections:        rejectionCount,
			VotesCast:         votesCast,
			PendingVotes:      pendingVotes,
		},
		Financial: models.LoanFinancials{
			RequestedAmount: loan.Amount,
			ApprovedAmount:  loan.ApprovedAmount,
			InterestRate:    loan.InterestRate,
			DurationMonths:  loan.DurationMonths,
			TotalInterest:   loan.TotalInterest,
			TotalRepayable:  loan.TotalRepayable,
			EMIAmount:       loan.EMIAmount,
			RepaymentType:   loan.RepaymentType,
			TotalRepaid:     loan.TotalRepaid,
			Remaining:       loan.RemainingAmount(),
		},
		Schedule:      schedule,
		Votes:         votes,
		Repayments:    repayments,
		Distributions: distributions,
	}, nil
}

// repayments and distributions are not direct dependencies of every
// LoanService path, so they are resolved lazily through their stores when
// set.
func (s *LoanService) repaymentsForLoan(ctx context.Context, loanID primitive.ObjectID) ([]models.LoanRepayment, error) {
	if s.repayments == nil {
		return nil, nil
	}
	return s.repayments.FindByLoan(ctx, loanID)
}

func (s *LoanService) distributionsForLoan(ctx context.Context, loanID primitive.ObjectID) ([]models.InterestDistribution, error) {
	if s.distributions == nil {
		return nil, nil
	}
	return s.distributions.FindByLoan(ctx, loanID)
}

// PendingDisbursements lists approved loans waiting on an admin to move
// the money.
func (s *LoanService) PendingDisbursements(ctx context.Context, groupID primitive.ObjectID) ([]models.LoanRequest, error) {
	return s.loans.FindByGroupAndStatus(ctx, groupID, []models.LoanStatus{models.LoanApproved})
}

// ActiveLoans lists disbursed but not fully repaid loans.
func (s *LoanService) ActiveLoans(ctx context.Context, groupID primitive.ObjectID) ([]models.LoanRequest, error) {
	return s.loans.FindByGroupAndStatus(ctx, groupID, []models.LoanStatus{models.LoanDisbursed})
}
