package services

import (
	"time"

	"sahakari/bachatgat_ledger/internal/pkg/consts"
	"sahakari/bachatgat_ledger/internal/pkg/models"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AmortizationPlan is the output of one schedule computation: the loan's
// aggregate totals plus the per-installment rows (empty for bullet loans,
// which expect a single lump-sum repayment).
type AmortizationPlan struct {
	TotalInterest  float64
	TotalRepayable float64
	EMIAmount      float64
	Schedule       []models.EMISchedule
}

// AmortizationService computes interest and installment schedules. All
// intermediate arithmetic runs on decimals; float64 only at the storage
// boundary.
type AmortizationService struct{}

func NewAmortizationService() *AmortizationService {
	return &AmortizationService{}
}

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

func (s *AmortizationService) BuildPlan(loanID primitive.ObjectID, principal, annualRate float64, durationMonths int, repaymentType models.RepaymentType, useFlatRate bool, start time.Time) (AmortizationPlan, error) {
	if principal <= 0 {
		return AmortizationPlan{}, consts.ErrorInvalidAmount
	}
	if durationMonths < 1 {
		return AmortizationPlan{}, consts.ErrorInvalidDuration
	}

	switch repaymentType {
	case models.RepaymentBullet:
		return s.bulletPlan(principal, annualRate, durationMonths), nil
	case models.RepaymentEMI:
		if useFlatRate {
			return s.flatRatePlan(loanID, principal, annualRate, durationMonths, start), nil
		}
		return s.reducingBalancePlan(loanID, principal, annualRate, durationMonths, start), nil
	default:
		return AmortizationPlan{}, consts.ErrorInvalidRepaymentType
	}
}

// simpleInterest is I = P * R * (months/12) / 100.
func simpleInterest(principal, annualRate decimal.Decimal, months int) decimal.Decimal {
	years := decimal.NewFromInt(int64(months)).Div(twelve)
	return principal.Mul(annualRate).Mul(years).Div(hundred)
}

func (s *AmortizationService) bulletPlan(principal, annualRate float64, months int) AmortizationPlan {
	p := decimal.NewFromFloat(principal)
	interest := simpleInterest(p, decimal.NewFromFloat(annualRate), months).Round(2)
	return AmortizationPlan{
		TotalInterest:  interest.InexactFloat64(),
		TotalRepayable: p.Add(interest).InexactFloat64(),
	}
}

// flatRatePlan splits simple interest evenly over the term. The final
// installment absorbs the rounding remainder of both principal and
// interest so the schedule sums exactly to the loan totals.
func (s *AmortizationService) flatRatePlan(loanID primitive.ObjectID, principal, annualRate float64, months int, start time.Time) AmortizationPlan {
	p := decimal.NewFromFloat(principal)
	n := decimal.NewFromInt(int64(months))
	totalInterest := simpleInterest(p, decimal.NewFromFloat(annualRate), months).Round(2)

	principalPer := p.Div(n).Round(2)
	interestPer := totalInterest.Div(n).Round(2)
	emi := principalPer.Add(interestPer)

	now := time.Now().UTC()
	schedule := make([]models.EMISchedule, 0, months)
	balance := p

	for i := 1; i <= months; i++ {
		principalComp := principalPer
		interestComp := interestPer
		if i == months {
			principalComp = balance
			interestComp = totalInterest.Sub(interestPer.Mul(decimal.NewFromInt(int64(months - 1))))
			if interestComp.IsNegative() {
				interestComp = decimal.Zero
			}
		}
		closing := balance.Sub(principalComp)
		if closing.IsNegative() {
			closing = decimal.Zero
		}

		schedule = append(schedule, models.EMISchedule{
			ID:                 primitive.NewObjectID(),
			LoanID:             loanID,
			InstallmentNumber:  i,
			DueDate:            dueDateDayCapped(start, i),
			EMIAmount:          principalComp.Add(interestComp).Round(2).InexactFloat64(),
			PrincipalComponent: principalComp.Round(2).InexactFloat64(),
			InterestComponent:  interestComp.Round(2).InexactFloat64(),
			OpeningBalance:     balance.Round(2).InexactFloat64(),
			ClosingBalance:     closing.Round(2).InexactFloat64(),
			CreatedAt:          now,
		})
		balance = closing
	}

	return AmortizationPlan{
		TotalInterest:  totalInterest.InexactFloat64(),
		TotalRepayable: p.Add(totalInterest).InexactFloat64(),
		EMIAmount:      emi.InexactFloat64(),
		Schedule:       schedule,
	}
}

// reducingBalancePlan uses the standard amortized-payment formula with
// the EMI rounded to a whole currency unit. Total interest is derived
// from the rounded EMI, not the raw formula, so the schedule and loan
// totals agree to the unit.
func (s *AmortizationService) reducingBalancePlan(loanID primitive.ObjectID, principal, annualRate float64, months int, start time.Time) AmortizationPlan {
	p := decimal.NewFromFloat(principal)
	n := decimal.NewFromInt(int64(months))
	r := decimal.NewFromFloat(annualRate).Div(twelve).Div(hundred)

	var emi decimal.Decimal
	if r.IsZero() {
		emi = p.Div(n).Round(0)
	} else {
		pow := decimal.NewFromInt(1).Add(r).Pow(n)
		emi = p.Mul(r).Mul(pow).Div(pow.Sub(decimal.NewFromInt(1))).Round(0)
	}

	totalInterest := emi.Mul(n).Sub(p)
	if totalInterest.IsNegative() {
		totalInterest = decimal.Zero
	}

	now := time.Now().UTC()
	schedule := make([]models.EMISchedule, 0, months)
	balance := p

	for i := 1; i <= months; i++ {
		interestComp := balance.Mul(r).Round(2)
		principalComp := emi.Sub(interestComp)
		if i == months {
			principalComp = balance
			interestComp = emi.Sub(principalComp)
			if interestComp.IsNegative() {
				interestComp = decimal.Zero
			}
		}
		closing := balance.Sub(principalComp)
		if closing.IsNegative() {
			closing = decimal.Zero
		}

		schedule = append(schedule, models.EMISchedule{
			ID:                 primitive.NewObjectID(),
			LoanID:             loanID,
			InstallmentNumber:  i,
			DueDate:            dueDateMonthClamped(start, i),
			EMIAmount:          emi.InexactFloat64(),
			PrincipalComponent: principalComp.Round(2).InexactFloat64(),
			InterestComponent:  interestComp.Round(2).InexactFloat64(),
			OpeningBalance:     balance.Round(2).InexactFloat64(),
			ClosingBalance:     closing.Round(2).InexactFloat64(),
			CreatedAt:          now,
		})
		balance = closing
	}

	return AmortizationPlan{
		TotalInterest:  totalInterest.Round(2).InexactFloat64(),
		TotalRepayable: p.Add(totalInterest).Round(2).InexactFloat64(),
		EMIAmount:      emi.InexactFloat64(),
		Schedule:       schedule,
	}
}

// dueDateDayCapped steps monthsAhead months forward with the day of
// month capped at 28, so every installment lands on a day that exists in
// every month.
func dueDateDayCapped(start time.Time, monthsAhead int) time.Time {
	year, month := stepMonths(start, monthsAhead)
	day := start.Day()
	if day > 28 {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// dueDateMonthClamped steps monthsAhead months forward, clamping the day
// to the last valid day of the target month (Jan 31 + 1 month = Feb 28).
func dueDateMonthClamped(start time.Time, monthsAhead int) time.Time {
	year, month := stepMonths(start, monthsAhead)
	day := start.Day()
	if last := lastDayOfMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func stepMonths(start time.Time, monthsAhead int) (int, time.Month) {
	total := int(start.Month()) - 1 + monthsAhead
	return start.Year() + total/12, time.Month(total%12 + 1)
}

func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
