package service

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/savings-analytics/internal/domain/model"
)

// SimulateCycle runs a savings cycle from an empty fund to share-out.
//
// Each month the group collects the contributions of participating members,
// fines missed contributions at PenaltyRate, lends LoanAllocationRate of the
// balance and earns interest on it. Expected losses of DefaultRate on the
// loans issued are written off at share-out.
func (e *ProjectionEngine) SimulateCycle(p model.CycleParams) (model.CycleSimulation, error) {
	if err := p.Validate(int64(e.limits.MaxMembers), e.limits.MaxCycleMonths); err != nil {
		return model.CycleSimulation{}, err
	}

	expected := p.ContributionAmount.
		Mul(decimal.NewFromInt(p.Frequency.PeriodsPerMonth())).
		Mul(decimal.NewFromInt(p.Members))
	collected := expected.Mul(p.ParticipationRate)
	penalties := expected.Sub(collected).Mul(p.PenaltyRate)

	sim := model.CycleSimulation{Months: make([]model.CycleMonth, 0, p.DurationMonths)}
	balance := decimal.Zero
	totalContrib, totalPenalties, totalInterest, totalWrittenOff := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero

	for month := 1; month <= p.DurationMonths; month++ {
		balance = balance.Add(collected).Add(penalties)
		loans := balance.Mul(p.LoanAllocationRate)
		interest := loans.Mul(p.MonthlyInterestRate)
		writtenOff := loans.Mul(p.DefaultRate)
		balance = balance.Add(interest)

		totalContrib = totalContrib.Add(collected)
		totalPenalties = totalPenalties.Add(penalties)
		totalInterest = totalInterest.Add(interest)
		totalWrittenOff = totalWrittenOff.Add(writtenOff)

		sim.Months = append(sim.Months, model.CycleMonth{
			MonthIndex:     month,
			Date:           p.StartDate.AddDate(0, month, 0),
			Collected:      collected.Round(2),
			Penalties:      penalties.Round(2),
			LoansIssued:    loans.Round(2),
			InterestEarned: interest.Round(2),
			WrittenOff:     writtenOff.Round(2),
			Balance:        balance.Round(2),
		})
	}

	distributable := balance.Sub(totalWrittenOff)
	if distributable.IsNegative() {
		distributable = decimal.Zero
	}

	sim.TotalContributions = totalContrib.Round(2)
	sim.TotalPenalties = totalPenalties.Round(2)
	sim.TotalInterest = totalInterest.Round(2)
	sim.TotalWrittenOff = totalWrittenOff.Round(2)
	sim.FinalBalance = balance.Round(2)
	sim.Distributable = distributable.Round(2)
	sim.AveragePayout = distributable.Div(decimal.NewFromInt(p.Members)).Round(2)
	sim.Payouts = payouts(p, totalContrib, distributable)
	if totalContrib.IsPositive() {
		sim.ReturnOnSavings = distributable.Sub(totalContrib).Div(totalContrib).Round(4).InexactFloat64()
	}
	return sim, nil
}

// payouts splits the distributable fund pro rata to each member's
// contribution, or equally when no shares were supplied.
func payouts(p model.CycleParams, totalContrib, distributable decimal.Decimal) []model.MemberPayout {
	n := decimal.NewFromInt(p.Members)
	shareTotal := decimal.Zero
	for _, s := range p.Shares {
		shareTotal = shareTotal.Add(s.Contributed)
	}
	equal := len(p.Shares) == 0 || !shareTotal.IsPositive()

	out := make([]model.MemberPayout, 0, p.Members)
	for i := range int(p.Members) {
		payout := model.MemberPayout{Position: i + 1}
		share := one.Div(n)
		if equal {
			payout.Contributed = totalContrib.Div(n).Round(2)
		} else {
			payout.Contributed = p.Shares[i].Contributed
			share = p.Shares[i].Contributed.Div(shareTotal)
		}
		if len(p.Shares) > 0 {
			payout.UserID = p.Shares[i].UserID
		}
		payout.Share = share.Round(4).InexactFloat64()
		payout.Payout = distributable.Mul(share).Round(2)
		out = append(out, payout)
	}
	return out
}
