package service

import "github.com/justinsenglish/crave.services/internal/domain"

// Aggregate folds records into network totals. The result does not depend on record order.
func Aggregate(records []domain.OrderFinancialRecord) domain.SalesTotals {
	var totals domain.SalesTotals
	for _, r := range records {
		totals = totals.Add(r)
	}
	return totals
}
