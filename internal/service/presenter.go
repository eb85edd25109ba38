package service

import (
	"github.com/justinsenglish/crave.services/internal/domain"

	"github.com/shopspring/decimal"
)

// minorUnitExponent converts cents to dollars.
const minorUnitExponent = -2

// Present converts totals and obligations to major currency units.
func Present(t domain.SalesTotals, o domain.Obligations) domain.SalesSummary {
	return domain.SalesSummary{
		GrossSales:    toMajor(t.GrossSales()),
		Returns:       toMajor(t.Returns),
		Discounts:     toMajor(t.Discounts),
		NetSales:      toMajor(t.NetSales()),
		Taxes:         toMajor(t.Taxes),
		Tips:          toMajor(t.Tips),
		GiftCards:     toMajor(t.GiftCards),
		TotalSales:    toMajor(t.TotalSales),
		Royalties:     toMajor(o.Royalties),
		MarketingFees: toMajor(o.MarketingFees),
	}
}

// diagnosticTotals accumulates the component breakdowns of the diagnostic report.
type diagnosticTotals struct {
	returnAmounts        domain.MinorUnits
	returnTaxes          domain.MinorUnits
	returnTips           domain.MinorUnits
	returnDiscounts      domain.MinorUnits
	returnServiceCharges domain.MinorUnits
	returnProcessingFees domain.MinorUnits

	netAmounts   domain.MinorUnits
	netTaxes     domain.MinorUnits
	netTips      domain.MinorUnits
	netDiscounts domain.MinorUnits

	tenderAmounts  domain.MinorUnits
	processingFees domain.MinorUnits
}

func (d *diagnosticTotals) add(b domain.OrderBreakdown) {
	d.returnAmounts += b.ReturnAmount
	d.returnTaxes += b.ReturnTax
	d.returnTips += b.ReturnTip
	d.returnDiscounts += b.ReturnDiscount
	d.returnServiceCharges += b.ReturnServiceCharge
	d.returnProcessingFees += b.ReturnProcessingFee

	d.netAmounts += b.NetAmounts
	d.netTaxes += b.NetTaxes
	d.netTips += b.NetTips
	d.netDiscounts += b.NetDiscounts

	d.tenderAmounts += b.TenderAmount
	d.processingFees += b.ProcessingFees
}

func presentDiagnostic(t domain.SalesTotals, d diagnosticTotals, orders []domain.OrderBreakdown) *domain.TestSalesSummary {
	if orders == nil {
		orders = []domain.OrderBreakdown{}
	}
	return &domain.TestSalesSummary{
		SalesSummary: Present(t, CalculateObligations(t.GrossSales())),
		ReturnAmounts: domain.ReturnAmountsSummary{
			Amounts:        toMajor(d.returnAmounts),
			Taxes:          toMajor(d.returnTaxes),
			Tips:           toMajor(d.returnTips),
			Discounts:      toMajor(d.returnDiscounts),
			ServiceCharges: toMajor(d.returnServiceCharges),
			ProcessingFees: toMajor(d.returnProcessingFees),
		},
		NetAmounts: domain.NetAmountsSummary{
			Amounts:   toMajor(d.netAmounts),
			Taxes:     toMajor(d.netTaxes),
			Tips:      toMajor(d.netTips),
			Discounts: toMajor(d.netDiscounts),
		},
		Tenders: domain.TenderSummary{
			Amounts:        toMajor(d.tenderAmounts),
			ProcessingFees: toMajor(d.processingFees),
			Total:          toMajor(d.tenderAmounts - d.processingFees),
		},
		Orders: orders,
	}
}

func toMajor(v domain.MinorUnits) float64 {
	return decimal.New(int64(v), minorUnitExponent).InexactFloat64()
}
