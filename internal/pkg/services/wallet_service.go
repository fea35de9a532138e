package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sahakari/bachatgat_ledger/configs"
	"sahakari/bachatgat_ledger/internal/pkg/common"
	"sahakari/bachatgat_ledger/internal/pkg/consts"
	"sahakari/bachatgat_ledger/internal/pkg/logger"
	"sahakari/bachatgat_ledger/internal/pkg/models"
	"sahakari/bachatgat_ledger/internal/pkg/utils/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WalletService owns every balance-affecting operation. Each mutation
// appends a ledger entry and updates the wallet cache inside one unit of
// work; the ledger remains the source of truth and Recalculate can rebuild
// the cache from it at any time.
type WalletService struct {
	uow           UnitOfWorkInterface
	auth          AuthorizationServiceInterface
	wallets       WalletStoreInterface
	ledger        LedgerStoreInterface
	memberLedgers MemberLedgerStoreInterface
	contributions ContributionStoreInterface
	loans         LoanStoreInterface
	schedules     ScheduleStoreInterface
	snapshots     SnapshotStoreInterface
	repayments    RepaymentStoreInterface
	distributions DistributionStoreInterface
	cache         SummaryCacheInterface
	publisher     EventPublisherInterface
	workerPool    *worker.WorkerPool
}

func NewWalletService(uow UnitOfWorkInterface, auth AuthorizationServiceInterface, wallets WalletStoreInterface, ledger LedgerStoreInterface, memberLedgers MemberLedgerStoreInterface, contributions ContributionStoreInterface, loans LoanStoreInterface, schedules ScheduleStoreInterface, snapshots SnapshotStoreInterface, repayments RepaymentStoreInterface, distributions DistributionStoreInterface, cache SummaryCacheInterface, publisher EventPublisherInterface, workerPool *worker.WorkerPool) *WalletService {
	return &WalletService{
		uow:           uow,
		auth:          auth,
		wallets:       wallets,
		ledger:        ledger,
		memberLedgers: memberLedgers,
		contributions: contributions,
		loans:         loans,
		schedules:     schedules,
		snapshots:     snapshots,
		repayments:    repayments,
		distributions: distributions,
		cache:         cache,
		publisher:     publisher,
		workerPool:    workerPool,
	}
}

func (s *WalletService) CreateWalletForGroup(ctx context.Context, groupID primitive.ObjectID) (models.GroupWallet, error) {
	wallet := common.SerializeGroupWallet(groupID)
	if err := s.wallets.Insert(ctx, wallet); err != nil {
		return models.GroupWallet{}, err
	}
	return wallet, nil
}

// Contribute applies one member pay-in: ledger entry, contribution row,
// member ledger credit and wallet cache update, all in one unit of work.
func (s *WalletService) Contribute(ctx context.Context, groupID, userID primitive.ObjectID, amount float64, description, idempotencyKey string) (models.MemberContribution, models.WalletTransaction, error) {
	if amount <= 0 {
		return models.MemberContribution{}, models.WalletTransaction{}, consts.ErrorInvalidAmount
	}
	wallet, err := s.wallets.GetByGroupID(ctx, groupID)
	if err != nil {
		return models.MemberContribution{}, models.WalletTransaction{}, err
	}
	if allowed, reason := s.auth.CanContribute(ctx, userID, wallet.ID); !allowed {
		return models.MemberContribution{}, models.WalletTransaction{}, consts.AuthorizationDenied(reason)
	}

	if description == "" {
		description = fmt.Sprintf("Contribution by member %s", userID.Hex())
	}
	if idempotencyKey == "" {
		idempotencyKey = "contrib_" + uuid.NewString()
	}

	contribution := models.MemberContribution{
		ID:            primitive.NewObjectID(),
		WalletID:      wallet.ID,
		UserID:        userID,
		Amount:        amount,
		Description:   description,
		ContributedAt: time.Now().UTC(),
	}
	txn := common.SerializeWalletTransaction(wallet.ID, models.TxnContribution, amount, wallet.Balance+amount,
		consts.ReferenceContribution, contribution.ID, userID, primitive.NilObjectID, description, idempotencyKey)
	contribution.TransactionID = txn.ID

	err = s.uow.Run(ctx, func(ctx context.Context) error {
		now := time.Now().UTC()
		if err := s.ledger.Insert(ctx, txn); err != nil {
			return err
		}
		if err := s.contributions.Insert(ctx, contribution); err != nil {
			return err
		}
		if err := s.memberLedgers.CreditPrincipal(ctx, wallet.ID, userID, amount, now); err != nil {
			return err
		}
		return s.wallets.CreditContribution(ctx, wallet.ID, amount, now)
	})
	if err != nil {
		return models.MemberContribution{}, models.WalletTransaction{}, err
	}

	s.afterCommit(ctx, groupID, txn)
	return contribution, txn, nil
}

// Disburse moves an approved loan's money out of the wallet. The
// contribution snapshot is frozen here, the balance check is a
// compare-and-swap on the wallet row, and the loan transitions to
// disbursed in the same unit of work.
func (s *WalletService) Disburse(ctx context.Context, loanID, adminID primitive.ObjectID, idempotencyKey string) (models.WalletTransaction, error) {
	if allowed, reason := s.auth.CanDisburse(ctx, adminID, loanID); !allowed {
		return models.WalletTransaction{}, consts.AuthorizationDenied(reason)
	}
	loan, err := s.loans.GetByID(ctx, loanID)
	if err != nil {
		return models.WalletTransaction{}, err
	}
	wallet, err := s.wallets.GetByGroupID(ctx, loan.GroupID)
	if err != nil {
		return models.WalletTransaction{}, err
	}

	amount := loan.DisburseAmount()
	if idempotencyKey == "" {
		// Deterministic per loan, so a double-disbursement retry is a
		// duplicate-key rejection rather than a second debit.
		idempotencyKey = "disburse_" + loanID.Hex()
	}

	var txn models.WalletTransaction
	err = s.uow.Run(ctx, func(ctx context.Context) error {
		now := time.Now().UTC()

		// A retried disbursement keeps the snapshot frozen by the first
		// attempt and falls through to the ledger's idempotency check.
		frozen, err := s.snapshots.CountByLoan(ctx, loan.ID)
		if err != nil {
			return err
		}
		if frozen == 0 {
			snapshots, err := s.buildContributionSnapshot(ctx, loan.ID, wallet.ID, loan.RequestedBy, now)
			if err != nil {
				return err
			}
			if err := s.snapshots.InsertMany(ctx, snapshots); err != nil {
				return err
			}
		}

		updated, err := s.wallets.DebitIfSufficient(ctx, wallet.ID, amount, now)
		if err != nil {
			return err
		}

		txn = common.SerializeWalletTransaction(wallet.ID, models.TxnLoanDisbursement, -amount, updated.Balance,
			consts.ReferenceLoan, loan.ID, adminID, loan.RequestedBy,
			fmt.Sprintf("Loan disbursement to member %s", loan.RequestedBy.Hex()), idempotencyKey)
		if err := s.ledger.Insert(ctx, txn); err != nil {
			return err
		}

		if err := loan.TransitionTo(models.LoanDisbursed, adminID); err != nil {
			return err
		}
		return s.loans.Update(ctx, loan.ID, bson.M{
			"status":      loan.Status,
			"disbursedAt": loan.DisbursedAt,
			"disbursedBy": loan.DisbursedBy,
			"updatedAt":   now,
		})
	})
	if err != nil {
		return models.WalletTransaction{}, err
	}

	s.afterCommit(ctx, loan.GroupID, txn)
	return txn, nil
}

// buildContributionSnapshot freezes each non-borrower contributor's share
// of the pool. An empty pool yields an empty snapshot and interest on this
// loan is simply never distributed.
func (s *WalletService) buildContributionSnapshot(ctx context.Context, loanID, walletID, borrowerID primitive.ObjectID, now time.Time) ([]models.LoanContributionSnapshot, error) {
	ledgers, err := s.memberLedgers.FindContributorsExcluding(ctx, walletID, borrowerID)
	if err != nil {
		return nil, err
	}
	if len(ledgers) == 0 {
		return nil, nil
	}

	pool := decimal.Zero
	for _, l := range ledgers {
		pool = pool.Add(decimal.NewFromFloat(l.PrincipalContributed))
	}
	if !pool.IsPositive() {
		return nil, nil
	}

	snapshots := make([]models.LoanContributionSnapshot, 0, len(ledgers))
	for _, l := range ledgers {
		pct := decimal.NewFromFloat(l.PrincipalContributed).Div(pool).Mul(hundred)
		snapshots = append(snapshots, models.LoanContributionSnapshot{
			ID:                     primitive.NewObjectID(),
			LoanID:                 loanID,
			UserID:                 l.UserID,
			ContributionAmount:     l.PrincipalContributed,
			ContributionPercentage: pct.InexactFloat64(),
			TotalEligiblePool:      pool.InexactFloat64(),
			CreatedAt:              now,
		})
	}
	return snapshots, nil
}

// SubmitRepayment records a pending repayment. Money does not move until
// an admin approves it; the payment itself arrives out of band.
func (s *WalletService) SubmitRepayment(ctx context.Context, loanID, userID primitive.ObjectID, amount float64, description string, scheduleID primitive.ObjectID) (models.LoanRepayment, error) {
	if amount <= 0 {
		return models.LoanRepayment{}, consts.ErrorInvalidAmount
	}
	if allowed, reason := s.auth.CanRepay(ctx, userID, loanID); !allowed {
		return models.LoanRepayment{}, consts.AuthorizationDenied(reason)
	}
	loan, err := s.loans.GetByID(ctx, loanID)
	if err != nil {
		return models.LoanRepayment{}, err
	}

	// Clamp to the remaining balance, then split by the loan's overall
	// interest ratio.
	actual := decimal.NewFromFloat(amount)
	if remaining := decimal.NewFromFloat(loan.RemainingAmount()); actual.GreaterThan(remaining) {
		actual = remaining
	}
	interestComp := decimal.Zero
	if loan.TotalRepayable > 0 && loan.TotalInterest > 0 {
		ratio := decimal.NewFromFloat(loan.TotalInterest).Div(decimal.NewFromFloat(loan.TotalRepayable))
		interestComp = actual.Mul(ratio).Round(2)
	}
	principalComp := actual.Sub(interestComp)

	if scheduleID.IsZero() && loan.RepaymentType == models.RepaymentEMI {
		// An untargeted EMI payment settles the earliest open installment.
		next, err := s.schedules.FirstUnpaid(ctx, loanID)
		if err == nil {
			scheduleID = next.ID
		} else if !errors.Is(err, consts.ErrorScheduleNotFound) {
			return models.LoanRepayment{}, err
		}
	} else if !scheduleID.IsZero() {
		if _, err := s.schedules.GetByID(ctx, scheduleID); err != nil {
			return models.LoanRepayment{}, err
		}
	}

	now := time.Now().UTC()
	repayment := models.LoanRepayment{
		ID:                 primitive.NewObjectID(),
		LoanID:             loanID,
		GroupID:            loan.GroupID,
		PaidBy:             userID,
		Amount:             actual.InexactFloat64(),
		PrincipalComponent: principalComp.InexactFloat64(),
		InterestComponent:  interestComp.InexactFloat64(),
		EMIScheduleID:      scheduleID,
		Status:             models.RepaymentPending,
		IdempotencyKey:     "repay_" + uuid.NewString(),
		SubmittedAt:        now,
		UpdatedAt:          now,
	}
	if err := s.repayments.Insert(ctx, repayment); err != nil {
		return models.LoanRepayment{}, err
	}
	return repayment, nil
}

// ApproveRepayment is the only path that turns a repayment into money:
// ledger entry, loan totals, interest distribution, installment flag,
// wallet cache and the completion check all commit together.
func (s *WalletService) ApproveRepayment(ctx context.Context, repaymentID, adminID primitive.ObjectID) (models.LoanRepayment, models.WalletTransaction, []models.InterestDistribution, error) {
	if allowed, reason := s.auth.CanApproveRepayment(ctx, adminID, repaymentID); !allowed {
		return models.LoanRepayment{}, models.WalletTransaction{}, nil, consts.AuthorizationDenied(reason)
	}
	repayment, err := s.repayments.GetByID(ctx, repaymentID)
	if err != nil {
		return models.LoanRepayment{}, models.WalletTransaction{}, nil, err
	}
	loan, err := s.loans.GetByID(ctx, repayment.LoanID)
	if err != nil {
		return models.LoanRepayment{}, models.WalletTransaction{}, nil, err
	}
	wallet, err := s.wallets.GetByGroupID(ctx, loan.GroupID)
	if err != nil {
		return models.LoanRepayment{}, models.WalletTransaction{}, nil, err
	}

	var txn models.WalletTransaction
	var distributions []models.InterestDistribution
	var extraEntries []models.WalletTransaction

	err = s.uow.Run(ctx, func(ctx context.Context) error {
		now := time.Now().UTC()

		txn = common.SerializeWalletTransaction(wallet.ID, models.TxnRepayment, repayment.Amount, wallet.Balance+repayment.Amount,
			consts.ReferenceRepayment, repayment.ID, adminID, primitive.NilObjectID,
			fmt.Sprintf("Loan repayment from member %s", repayment.PaidBy.Hex()),
			"repay_approve_"+repayment.ID.Hex())
		if err := s.ledger.Insert(ctx, txn); err != nil {
			return err
		}

		repayment.Status = models.RepaymentApproved
		repayment.ApprovedBy = adminID
		repayment.ApprovedAt = &now
		repayment.TransactionID = txn.ID
		if err := s.repayments.Update(ctx, repayment.ID, bson.M{
			"status":        repayment.Status,
			"approvedBy":    repayment.ApprovedBy,
			"approvedAt":    repayment.ApprovedAt,
			"transactionId": repayment.TransactionID,
			"updatedAt":     now,
		}); err != nil {
			return err
		}

		loan.TotalPrincipalRepaid += repayment.PrincipalComponent
		loan.TotalInterestRepaid += repayment.InterestComponent
		loan.TotalRepaid += repayment.Amount

		if repayment.InterestComponent > 0 {
			distributions, extraEntries, err = s.distributeInterest(ctx, &loan, &repayment, wallet.ID, adminID, now)
			if err != nil {
				return err
			}
		}

		if !repayment.EMIScheduleID.IsZero() {
			if err := s.schedules.MarkPaid(ctx, repayment.EMIScheduleID, repayment.ID, repayment.Amount, now); err != nil {
				return err
			}
		}

		if err := s.wallets.CreditRepayment(ctx, wallet.ID, repayment.Amount, repayment.InterestComponent, now); err != nil {
			return err
		}

		loanFields := bson.M{
			"totalPrincipalRepaid": loan.TotalPrincipalRepaid,
			"totalInterestRepaid":  loan.TotalInterestRepaid,
			"totalRepaid":          loan.TotalRepaid,
			"updatedAt":            now,
		}
		if loan.IsFullyRepaid() {
			if err := loan.TransitionTo(models.LoanCompleted, adminID); err != nil {
				return err
			}
			loanFields["status"] = loan.Status
			loanFields["completedAt"] = loan.CompletedAt
		}
		return s.loans.Update(ctx, loan.ID, loanFields)
	})
	if err != nil {
		return models.LoanRepayment{}, models.WalletTransaction{}, nil, err
	}

	s.afterCommit(ctx, loan.GroupID, txn)
	for _, entry := range extraEntries {
		s.afterCommit(ctx, loan.GroupID, entry)
	}
	return repayment, txn, distributions, nil
}

// distributeInterest splits one repayment's interest across the loan's
// frozen snapshot. Percentages are applied with decimal math and the
// rounding remainder goes to the largest share, so the shares always sum
// to the interest component exactly.
func (s *WalletService) distributeInterest(ctx context.Context, loan *models.LoanRequest, repayment *models.LoanRepayment, walletID, adminID primitive.ObjectID, now time.Time) ([]models.InterestDistribution, []models.WalletTransaction, error) {
	snapshots, err := s.snapshots.FindByLoan(ctx, loan.ID)
	if err != nil {
		return nil, nil, err
	}
	if len(snapshots) == 0 {
		// Borrower was the only contributor; the wallet keeps the
		// interest.
		return nil, nil, nil
	}

	interest := decimal.NewFromFloat(repayment.InterestComponent)
	shares := make([]decimal.Decimal, len(snapshots))
	total := decimal.Zero
	largest := 0
	for i, snap := range snapshots {
		share := decimal.NewFromFloat(snap.ContributionPercentage).Div(hundred).Mul(interest).Round(2)
		shares[i] = share
		total = total.Add(share)
		if share.GreaterThan(shares[largest]) {
			largest = i
		}
	}
	if remainder := interest.Sub(total); !remainder.IsZero() {
		shares[largest] = shares[largest].Add(remainder)
	}

	distributions := make([]models.InterestDistribution, 0, len(snapshots))
	entries := make([]models.WalletTransaction, 0, len(snapshots))
	for i, snap := range snapshots {
		if !shares[i].IsPositive() {
			continue
		}
		share := shares[i].InexactFloat64()

		distribution := models.InterestDistribution{
			ID:                     primitive.NewObjectID(),
			LoanID:                 loan.ID,
			RepaymentID:            repayment.ID,
			BeneficiaryID:          snap.UserID,
			ContributionAmount:     snap.ContributionAmount,
			ContributionPercentage: snap.ContributionPercentage,
			InterestEarned:         share,
			CreatedAt:              now,
		}

		// Zero-amount attribution entry: the cash already entered via
		// the repayment's own ledger entry.
		entry := common.SerializeWalletTransaction(walletID, models.TxnInterestDistribution, 0, 0,
			consts.ReferenceInterestDistribution, distribution.ID, adminID, snap.UserID,
			fmt.Sprintf("Interest credit %.2f to member %s", share, snap.UserID.Hex()),
			fmt.Sprintf("interest_%s_%s", repayment.ID.Hex(), snap.UserID.Hex()))
		if err := s.ledger.Insert(ctx, entry); err != nil {
			return nil, nil, err
		}
		distribution.TransactionID = entry.ID

		if err := s.memberLedgers.CreditInterest(ctx, walletID, snap.UserID, share, now); err != nil {
			return nil, nil, err
		}

		distributions = append(distributions, distribution)
		entries = append(entries, entry)
	}
	if err := s.distributions.InsertMany(ctx, distributions); err != nil {
		return nil, nil, err
	}
	return distributions, entries, nil
}

func (s *WalletService) RejectRepayment(ctx context.Context, repaymentID, adminID primitive.ObjectID, reason string) (models.LoanRepayment, error) {
	if allowed, denyReason := s.auth.CanApproveRepayment(ctx, adminID, repaymentID); !allowed {
		return models.LoanRepayment{}, consts.AuthorizationDenied(denyReason)
	}
	repayment, err := s.repayments.GetByID(ctx, repaymentID)
	if err != nil {
		return models.LoanRepayment{}, err
	}
	now := time.Now().UTC()
	repayment.Status = models.RepaymentRejected
	repayment.RejectionReason = reason
	err = s.repayments.Update(ctx, repayment.ID, bson.M{
		"status":          repayment.Status,
		"rejectionReason": repayment.RejectionReason,
		"approvedBy":      adminID,
		"updatedAt":       now,
	})
	if err != nil {
		return models.LoanRepayment{}, err
	}
	return repayment, nil
}

// Recalculate rebuilds the wallet cache from the ledger. It is the audit
// and repair path: idempotent, safe at any time, and the only recoverable
// route out of a dirty cache.
func (s *WalletService) Recalculate(ctx context.Context, walletID primitive.ObjectID) (models.RecalcResult, error) {
	var result models.RecalcResult
	err := s.uow.Run(ctx, func(ctx context.Context) error {
		wallet, err := s.wallets.GetByID(ctx, walletID)
		if err != nil {
			return err
		}
		entries, err := s.ledger.FindActiveByWallet(ctx, walletID)
		if err != nil {
			return err
		}

		balance := decimal.Zero
		contributed := decimal.Zero
		disbursed := decimal.Zero
		repaid := decimal.Zero
		for _, e := range entries {
			amount := decimal.NewFromFloat(e.Amount)
			balance = balance.Add(amount)
			switch e.TransactionType {
			case models.TxnContribution:
				contributed = contributed.Add(amount)
			case models.TxnLoanDisbursement:
				disbursed = disbursed.Add(amount.Abs())
			case models.TxnRepayment:
				repaid = repaid.Add(amount)
			}
		}

		calculated := balance.InexactFloat64()
		difference := balance.Sub(decimal.NewFromFloat(wallet.Balance))
		result = models.RecalcResult{
			WalletID:          walletID,
			PreviousBalance:   wallet.Balance,
			CalculatedBalance: calculated,
			Difference:        difference.InexactFloat64(),
			TotalContributed:  contributed.InexactFloat64(),
			TotalDisbursed:    disbursed.InexactFloat64(),
			TotalRepaid:       repaid.InexactFloat64(),
		}

		now := time.Now().UTC()
		if difference.Abs().GreaterThan(decimal.NewFromFloat(configs.BALANCE_TOLERANCE)) {
			result.WasCorrected = true
			return s.wallets.OverwriteAggregates(ctx, walletID, calculated, result.TotalContributed, result.TotalDisbursed, now)
		}
		return s.wallets.MarkClean(ctx, walletID, now)
	})
	if err != nil {
		return models.RecalcResult{}, err
	}
	if result.WasCorrected {
		logger.Warn(ctx, "wallet %s cache corrected by %.2f", walletID.Hex(), result.Difference)
	}
	return result, nil
}

// GetWalletSummary serves the aggregate view, from Redis when fresh. A
// dirty cache self-heals through Recalculate before the summary is
// assembled.
func (s *WalletService) GetWalletSummary(ctx context.Context, groupID primitive.ObjectID) (models.WalletSummary, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, groupID.Hex()); err == nil && cached != nil {
			return *cached, nil
		}
	}

	wallet, err := s.wallets.GetByGroupID(ctx, groupID)
	if err != nil {
		return models.WalletSummary{}, err
	}
	if wallet.IsDirty {
		if _, err := s.Recalculate(ctx, wallet.ID); err != nil {
			return models.WalletSummary{}, err
		}
		wallet, err = s.wallets.GetByID(ctx, wallet.ID)
		if err != nil {
			return models.WalletSummary{}, err
		}
	}

	entries, err := s.ledger.FindActiveByWallet(ctx, wallet.ID)
	if err != nil {
		return models.WalletSummary{}, err
	}
	counts := models.TransactionCounts{}
	repaid := decimal.Zero
	for _, e := range entries {
		switch e.TransactionType {
		case models.TxnContribution:
			counts.Contributions++
		case models.TxnLoanDisbursement:
			counts.Disbursements++
		case models.TxnRepayment:
			counts.Repayments++
			repaid = repaid.Add(decimal.NewFromFloat(e.Amount))
		}
	}
	counts.Total = counts.Contributions + counts.Disbursements + counts.Repayments

	ledgers, err := s.memberLedgers.FindByWallet(ctx, wallet.ID)
	if err != nil {
		return models.WalletSummary{}, err
	}
	views := make([]models.MemberLedgerView, 0, len(ledgers))
	for _, l := range ledgers {
		views = append(views, models.MemberLedgerView{
			UserID:               l.UserID,
			PrincipalContributed: l.PrincipalContributed,
			InterestEarned:       l.InterestEarned,
			TotalBalance:         l.TotalBalance,
		})
	}

	summary := models.WalletSummary{
		WalletID:            wallet.ID,
		GroupID:             wallet.GroupID,
		Balance:             wallet.Balance,
		TotalContributed:    wallet.TotalContributed,
		TotalDisbursed:      wallet.TotalDisbursed,
		TotalRepaid:         repaid.InexactFloat64(),
		TotalInterestEarned: wallet.TotalInterestEarned,
		IsDirty:             wallet.IsDirty,
		LastRecalculatedAt:  wallet.LastRecalculatedAt,
		TransactionCounts:   counts,
		MemberLedgers:       views,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, groupID.Hex(), summary); err != nil {
			logger.Warn(ctx, "failed to cache wallet summary for group %s: %v", groupID.Hex(), err)
		}
	}
	return summary, nil
}

// LedgerFeed returns the wallet's ledger in insertion order.
func (s *WalletService) LedgerFeed(ctx context.Context, groupID primitive.ObjectID) ([]models.WalletTransaction, error) {
	wallet, err := s.wallets.GetByGroupID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return s.ledger.FindActiveByWallet(ctx, wallet.ID)
}

// afterCommit runs the non-transactional tail of a mutation: drop the
// cached summary and hand the ledger event to the worker pool for
// publication. Delivery failures are retried later by the sweep in
// kafka/producer.
func (s *WalletService) afterCommit(ctx context.Context, groupID primitive.ObjectID, txn models.WalletTransaction) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, groupID.Hex()); err != nil {
			logger.Warn(ctx, "failed to invalidate wallet summary for group %s: %v", groupID.Hex(), err)
		}
	}
	if s.publisher == nil || s.workerPool == nil {
		return
	}
	s.workerPool.Submit(func() {
		bg := context.Background()
		payload, err := common.SerializeLedgerEvent(txn)
		if err != nil {
			logger.Error(bg, "failed to serialize ledger event %s: %v", txn.ID.Hex(), err)
			return
		}
		if err := s.publisher.Publish(bg, txn.ID.Hex(), payload); err != nil {
			logger.Error(bg, "failed to publish ledger event %s: %v", txn.ID.Hex(), err)
			return
		}
		if err := s.ledger.MarkPublished(bg, txn.ID); err != nil {
			logger.Error(bg, "failed to flag ledger event %s as published: %v", txn.ID.Hex(), err)
		}
	})
}
