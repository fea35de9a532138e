package consts

const (
	GroupsCollection                = "Groups"
	GroupMembersCollection          = "GroupMembers"
	GroupWalletsCollection          = "GroupWallets"
	WalletTransactionsCollection    = "WalletTransactions"
	MemberLedgersCollection         = "MemberLedgers"
	MemberContributionsCollection   = "MemberContributions"
	LoanRequestsCollection          = "LoanRequests"
	LoanApprovalsCollection         = "LoanApprovals"
	EMISchedulesCollection          = "EMISchedules"
	ContributionSnapshotsCollection = "LoanContributionSnapshots"
	LoanRepaymentsCollection        = "LoanRepayments"
	InterestDistributionsCollection = "InterestDistributions"
	AdminTransferHistoryCollection  = "AdminTransferHistory"
)

// Reference types stamped on ledger entries.
const (
	ReferenceContribution         = "contribution"
	ReferenceLoan                 = "loan"
	ReferenceRepayment            = "repayment"
	ReferenceInterestDistribution = "interest_distribution"
)

var SensitiveKeys = []string{"Authorization", "Cookie", "X-Api-Key"}
