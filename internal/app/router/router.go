package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"

	"sahakari/bachatgat_ledger/configs"
	"sahakari/bachatgat_ledger/internal/app/handlers"
	"sahakari/bachatgat_ledger/internal/app/middleware"
	"sahakari/bachatgat_ledger/internal/pkg/kafka/producer"
	"sahakari/bachatgat_ledger/internal/pkg/services"
	"sahakari/bachatgat_ledger/internal/pkg/store"
	"sahakari/bachatgat_ledger/internal/pkg/store/repository"
	"sahakari/bachatgat_ledger/internal/pkg/utils/worker"
)

func SetupRouter(workerPool *worker.WorkerPool, redisClient *redis.Client) *gin.Engine {

	r := gin.Default()
	meter := otel.Meter(configs.SERVICE_NAME)
	r.Use(otelgin.Middleware(configs.SERVICE_NAME))
	r.Use(middleware.NewMetricMiddleware(meter))
	r.Use(middleware.AttachRequestDetails())

	// Repositories
	groupRepo := store.NewGroupRepository()
	memberRepo := store.NewMemberRepository()
	adminTransferRepo := store.NewAdminTransferRepository()
	walletRepo := store.NewWalletRepository()
	transactionRepo := store.NewTransactionRepository()
	memberLedgerRepo := store.NewMemberLedgerRepository()
	contributionRepo := store.NewContributionRepository()
	loanRepo := store.NewLoanRepository()
	approvalRepo := store.NewApprovalRepository()
	scheduleRepo := store.NewScheduleRepository()
	snapshotRepo := store.NewSnapshotRepository()
	repaymentRepo := store.NewRepaymentRepository()
	distributionRepo := store.NewDistributionRepository()
	uow := store.NewUnitOfWork()

	summaryCache := repository.NewWalletSummaryCache(redisClient, time.Duration(configs.WALLET_SUMMARY_TTL_SECONDS)*time.Second)

	// The publisher stays nil when no broker is configured; wallet writes
	// then leave entries unpublished for the retry sweep to pick up.
	var publisher services.EventPublisherInterface
	if producer.KafkaProducer != nil {
		publisher = producer.KafkaProducer
	}

	authService := services.NewAuthorizationService(memberRepo, walletRepo, loanRepo, approvalRepo, repaymentRepo)
	amortizationService := services.NewAmortizationService()
	quorumService := services.NewQuorumService()

	loanService := services.NewLoanService(uow, authService, groupRepo, memberRepo, walletRepo, loanRepo, approvalRepo, scheduleRepo, repaymentRepo, distributionRepo, amortizationService, quorumService)
	walletService := services.NewWalletService(uow, authService, walletRepo, transactionRepo, memberLedgerRepo, contributionRepo, loanRepo, scheduleRepo, snapshotRepo, repaymentRepo, distributionRepo, summaryCache, publisher, workerPool)
	membershipService := services.NewMembershipService(uow, authService, groupRepo, memberRepo, walletRepo, loanRepo, repaymentRepo, adminTransferRepo)

	loanHandler := handlers.NewLoanHandler(loanService)
	walletHandler := handlers.NewWalletHandler(walletService)
	membershipHandler := handlers.NewMembershipHandler(membershipService)

	ledgerRetryService := producer.NewLedgerRetryService(transactionRepo)
	ledgerRetryHandler := handlers.NewLedgerRetryHandler(ledgerRetryService)

	// Groups and membership
	r.POST("/gatledger/groups", membershipHandler.CreateGroup)
	r.POST("/gatledger/groups/:groupId/members", membershipHandler.AddMember)
	r.DELETE("/gatledger/groups/:groupId/members", membershipHandler.RemoveMember)
	r.POST("/gatledger/groups/:groupId/leave", membershipHandler.LeaveGroup)
	r.POST("/gatledger/groups/:groupId/transfer-admin", membershipHandler.TransferAdmin)
	r.GET("/gatledger/groups/:groupId/members/:userId/liabilities", membershipHandler.MemberLiabilities)

	// Wallet
	r.POST("/gatledger/groups/:groupId/contributions", walletHandler.Contribute)
	r.GET("/gatledger/groups/:groupId/wallet-summary", walletHandler.WalletSummary)
	r.GET("/gatledger/groups/:groupId/ledger", walletHandler.LedgerFeed)
	r.POST("/gatledger/wallets/:walletId/recalculate", walletHandler.Recalculate)

	// Loans
	r.POST("/gatledger/groups/:groupId/loans", loanHandler.CreateLoanRequest)
	r.GET("/gatledger/groups/:groupId/loans/pending-disbursements", loanHandler.PendingDisbursements)
	r.GET("/gatledger/groups/:groupId/loans/active", loanHandler.ActiveLoans)
	r.GET("/gatledger/loans/:loanId", loanHandler.LoanDetails)
	r.POST("/gatledger/loans/:loanId/votes", loanHandler.CastVote)
	r.POST("/gatledger/loans/:loanId/finalize", loanHandler.FinalizeApproval)
	r.PUT("/gatledger/loans/:loanId/terms", loanHandler.UpdateLoanTerms)
	r.POST("/gatledger/loans/:loanId/close", loanHandler.CloseLoan)
	r.POST("/gatledger/loans/:loanId/disburse", walletHandler.Disburse)

	// Repayments
	r.POST("/gatledger/loans/:loanId/repayments", walletHandler.SubmitRepayment)
	r.POST("/gatledger/repayments/:repaymentId/approve", walletHandler.ApproveRepayment)
	r.POST("/gatledger/repayments/:repaymentId/reject", walletHandler.RejectRepayment)

	// Operations
	r.GET("/gatledger/ledgerRetry", ledgerRetryHandler.RetryLedgerEvents)

	r.GET("/gatledger/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{
			"message": "Health Check"})
	})

	return r
}
