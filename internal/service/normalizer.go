package service

import "github.com/justinsenglish/crave.services/internal/domain"

// Normalize extracts the financial figures of one order. Absent fields count as zero.
//
// Returns are the returned total plus returned tip and discount, less the
// processing fees Square kept on refunds. Returned tax and service charge are
// not part of the offset.
func Normalize(o domain.RawOrder) domain.OrderFinancialRecord {
	rec := domain.OrderFinancialRecord{
		OrderID:       o.ID,
		GiftCardSales: giftCardSales(o.LineItems),
	}

	if net := o.NetAmounts; net != nil {
		rec.GrossAmount = domain.MinorUnitsOf(net.TotalMoney)
		rec.Taxes = domain.MinorUnitsOf(net.TaxMoney)
		rec.Tips = domain.MinorUnitsOf(net.TipMoney)
		rec.Discounts = domain.MinorUnitsOf(net.DiscountMoney)
	}

	if ret := o.ReturnAmounts; ret != nil {
		rec.NetReturns = domain.MinorUnitsOf(ret.TotalMoney) +
			domain.MinorUnitsOf(ret.TipMoney) +
			domain.MinorUnitsOf(ret.DiscountMoney)
	}
	rec.NetReturns -= refundProcessingFees(o.Refunds)

	return rec
}

// NormalizeDetail is the per-order breakdown shown by the diagnostic report.
// Order-level taxes and tips only count when the order was actually paid.
func NormalizeDetail(o domain.RawOrder) domain.OrderBreakdown {
	b := domain.OrderBreakdown{
		OrderID:             o.ID,
		GiftCardSales:       giftCardSales(o.LineItems),
		Discounts:           domain.MinorUnitsOf(o.TotalDiscountMoney),
		ReturnProcessingFee: refundProcessingFees(o.Refunds),
		Returns:             o.Returns,
		Refunds:             o.Refunds,
		Tenders:             o.Tenders,
	}

	for _, t := range o.Tenders {
		b.TenderAmount += domain.MinorUnitsOf(t.AmountMoney)
		b.ProcessingFees += domain.MinorUnitsOf(t.ProcessingFeeMoney)
	}
	b.TenderTotal = b.TenderAmount - b.ProcessingFees

	if b.TenderAmount > 0 {
		b.Taxes = domain.MinorUnitsOf(o.TotalTaxMoney)
		b.Tips = domain.MinorUnitsOf(o.TotalTipMoney)
	}

	if net := o.NetAmounts; net != nil {
		b.NetAmounts = domain.MinorUnitsOf(net.TotalMoney)
		b.NetTaxes = domain.MinorUnitsOf(net.TaxMoney)
		b.NetTips = domain.MinorUnitsOf(net.TipMoney)
		b.NetDiscounts = domain.MinorUnitsOf(net.DiscountMoney)
	}

	if ret := o.ReturnAmounts; ret != nil {
		b.ReturnAmount = domain.MinorUnitsOf(ret.TotalMoney)
		b.ReturnTax = domain.MinorUnitsOf(ret.TaxMoney)
		b.ReturnTip = domain.MinorUnitsOf(ret.TipMoney)
		b.ReturnDiscount = domain.MinorUnitsOf(ret.DiscountMoney)
		b.ReturnServiceCharge = domain.MinorUnitsOf(ret.ServiceChargeMoney)
	}

	return b
}

func giftCardSales(items []domain.OrderLineItem) domain.MinorUnits {
	var total domain.MinorUnits
	for _, li := range items {
		if li.IsGiftCard() {
			total += domain.MinorUnitsOf(li.TotalMoney)
		}
	}
	return total
}

func refundProcessingFees(refunds []domain.Refund) domain.MinorUnits {
	var total domain.MinorUnits
	for _, r := range refunds {
		total += domain.MinorUnitsOf(r.ProcessingFeeMoney)
	}
	return total
}
