package service

import "github.com/justinsenglish/crave.services/internal/domain"

// Obligation rates in basis points of gross sales.
const (
	RoyaltyRateBasisPoints      = 600 // 6%
	MarketingFeeRateBasisPoints = 200 // 2%

	basisPointsPerUnit = 10_000
)

// CalculateObligations applies the royalty and marketing fee rates to gross sales,
// rounding each up to the next minor unit.
func CalculateObligations(grossSales domain.MinorUnits) domain.Obligations {
	return domain.Obligations{
		Royalties:     applyRate(grossSales, RoyaltyRateBasisPoints),
		MarketingFees: applyRate(grossSales, MarketingFeeRateBasisPoints),
	}
}

func applyRate(amount domain.MinorUnits, basisPoints int64) domain.MinorUnits {
	return domain.MinorUnits(ceilDiv(int64(amount)*basisPoints, basisPointsPerUnit))
}

// ceilDiv is integer division rounded toward positive infinity. b must be positive.
func ceilDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && a > 0 {
		q++
	}
	return q
}
