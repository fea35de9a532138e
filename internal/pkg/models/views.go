package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RecalcResult is the outcome of reconciling a wallet cache against its
// ledger.
type RecalcResult struct {
	WalletID          primitive.ObjectID `json:"walletId"`
	PreviousBalance   float64            `json:"previousBalance"`
	CalculatedBalance float64            `json:"calculatedBalance"`
	Difference        float64            `json:"difference"`
	WasCorrected      bool               `json:"wasCorrected"`
	TotalContributed  float64            `json:"totalContributed"`
	TotalDisbursed    float64            `json:"totalDisbursed"`
	TotalRepaid       float64            `json:"totalRepaid"`
}

type TransactionCounts struct {
	Contributions int64 `json:"contributions"`
	Disbursements int64 `json:"disbursements"`
	Repayments    int64 `json:"repayments"`
	Total         int64 `json:"total"`
}

type MemberLedgerView struct {
	UserID               primitive.ObjectID `json:"userId"`
	PrincipalContributed float64            `json:"principalContributed"`
	InterestEarned       float64            `json:"interestEarned"`
	TotalBalance         float64            `json:"totalBalance"`
}

type WalletSummary struct {
	WalletID            primitive.ObjectID `json:"walletId"`
	GroupID             primitive.ObjectID `json:"groupId"`
	Balance             float64            `json:"balance"`
	TotalContributed    float64            `json:"totalContributed"`
	TotalDisbursed      float64            `json:"totalDisbursed"`
	TotalRepaid         float64            `json:"totalRepaid"`
	TotalInterestEarned float64            `json:"totalInterestEarned"`
	IsDirty             bool               `json:"isDirty"`
	LastRecalculatedAt  time.Time          `json:"lastRecalculatedAt"`
	TransactionCounts   TransactionCounts  `json:"transactionCounts"`
	MemberLedgers       []MemberLedgerView `json:"memberLedgers"`
}

type VotingStats struct {
	EligibleVoters    int `json:"eligibleVoters"`
	RequiredApprovals int `json:"requiredApprovals"`
	Approvals         int `json:"approvals"`
	Rejections        int `json:"rejections"`
	VotesCast         int `json:"votesCast"`
	PendingVotes      int `json:"pendingVotes"`
}

type LoanFinancials struct {
	RequestedAmount float64       `json:"requestedAmount"`
	ApprovedAmount  float64       `json:"approvedAmount"`
	InterestRate    float64       `json:"interestRate"`
	DurationMonths  int           `json:"durationMonths"`
	TotalInterest   float64       `json:"totalInterest"`
	TotalRepayable  float64       `json:"totalRepayable"`
	EMIAmount       float64       `json:"emiAmount"`
	RepaymentType   RepaymentType `json:"repaymentType"`
	TotalRepaid     float64       `json:"totalRepaid"`
	Remaining       float64       `json:"remaining"`
}

// LoanDetails is the aggregate view of one loan: the request itself,
// voting stats, financial terms, schedule, repayment history and the
// interest credited from it.
type LoanDetails struct {
	Loan          LoanRequest            `json:"loan"`
	Voting        VotingStats            `json:"voting"`
	Financial     LoanFinancials         `json:"financial"`
	Schedule      []EMISchedule          `json:"emiSchedule"`
	Votes         []LoanApproval         `json:"votes"`
	Repayments    []LoanRepayment        `json:"repayments"`
	Distributions []InterestDistribution `json:"interestDistributions"`
}

// MemberLiabilities explains why a member can or cannot leave a group.
type MemberLiabilities struct {
	CanLeave          bool            `json:"canLeave"`
	Reasons           []string        `json:"reasons"`
	PendingLoans      []LoanRequest   `json:"pendingLoans"`
	ActiveLoans       []LoanRequest   `json:"activeLoans"`
	PendingRepayments []LoanRepayment `json:"pendingRepayments"`
}

// LoanTerms is the editable financial-term set of a loan.
type LoanTerms struct {
	Amount         float64       `json:"amount"`
	InterestRate   float64       `json:"interestRate"`
	DurationMonths int           `json:"durationMonths"`
	RepaymentType  RepaymentType `json:"repaymentType"`
}

// RequestDetails is attached to the request context by the gin middleware
// and surfaced in structured logs.
type RequestDetails struct {
	RequestID      string                 `json:"request_id"`
	IP             string                 `json:"ip"`
	UserAgent      string                 `json:"user_agent"`
	HTTPMethod     string                 `json:"http_method"`
	Path           string                 `json:"path"`
	OperationName  string                 `json:"operation_name"`
	RequestTime    string                 `json:"request_time"`
	ResponseTime   string                 `json:"response_time"`
	Status         int                    `json:"status"`
	RequestParams  map[string]interface{} `json:"request_params"`
	ResponseParams map[string]interface{} `json:"response_params"`
}
