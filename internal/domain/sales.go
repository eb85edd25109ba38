package domain

// ============================================================
// Normalized per-order figures (minor units)
// ============================================================

// OrderFinancialRecord is the normalized financial view of one order.
// Every field is a sum of fields present on the source order; absent fields count as zero.
type OrderFinancialRecord struct {
	OrderID       string
	GrossAmount   MinorUnits
	Taxes         MinorUnits
	Tips          MinorUnits
	Discounts     MinorUnits
	GiftCardSales MinorUnits
	NetReturns    MinorUnits
}

// SalesTotals is the network-level fold of OrderFinancialRecords.
type SalesTotals struct {
	Orders     int
	Returns    MinorUnits
	Discounts  MinorUnits
	Taxes      MinorUnits
	Tips       MinorUnits
	GiftCards  MinorUnits
	TotalSales MinorUnits
}

// Add folds one record into the totals. Addition only, so the fold is order-independent.
func (t SalesTotals) Add(r OrderFinancialRecord) SalesTotals {
	t.Orders++
	t.Returns += r.NetReturns
	t.Discounts += r.Discounts
	t.Taxes += r.Taxes
	t.Tips += r.Tips
	t.GiftCards += r.GiftCardSales
	t.TotalSales += r.GrossAmount
	return t
}

// Merge combines two partial folds.
func (t SalesTotals) Merge(o SalesTotals) SalesTotals {
	t.Orders += o.Orders
	t.Returns += o.Returns
	t.Discounts += o.Discounts
	t.Taxes += o.Taxes
	t.Tips += o.Tips
	t.GiftCards += o.GiftCards
	t.TotalSales += o.TotalSales
	return t
}

// NetSales is total sales minus taxes, tips and gift card sales.
func (t SalesTotals) NetSales() MinorUnits {
	return t.TotalSales - t.Taxes - t.Tips - t.GiftCards
}

// GrossSales is net sales plus discounts and returns.
func (t SalesTotals) GrossSales() MinorUnits {
	return t.NetSales() + t.Discounts + t.Returns
}

// Obligations are the franchisor's cut of gross sales.
type Obligations struct {
	Royalties     MinorUnits
	MarketingFees MinorUnits
}

// ============================================================
// Presented summaries (major units)
// ============================================================

// SalesSummary is returned by GET /v1/franchises/{locationId}/royalties.
type SalesSummary struct {
	GrossSales    float64 `json:"grossSales"`
	Returns       float64 `json:"returns"`
	Discounts     float64 `json:"discounts"`
	NetSales      float64 `json:"netSales"`
	Taxes         float64 `json:"taxes"`
	Tips          float64 `json:"tips"`
	GiftCards     float64 `json:"giftCards"`
	TotalSales    float64 `json:"totalSales"`
	Royalties     float64 `json:"royalties"`
	MarketingFees float64 `json:"marketingFees"`
}

// ReturnAmountsSummary breaks returns down by component.
type ReturnAmountsSummary struct {
	Amounts        float64 `json:"amounts"`
	Taxes          float64 `json:"taxes"`
	Tips           float64 `json:"tips"`
	Discounts      float64 `json:"discounts"`
	ServiceCharges float64 `json:"serviceCharges"`
	ProcessingFees float64 `json:"processingFees"`
}

// NetAmountsSummary totals the net_amounts block across orders.
type NetAmountsSummary struct {
	Amounts   float64 `json:"amounts"`
	Taxes     float64 `json:"taxes"`
	Tips      float64 `json:"tips"`
	Discounts float64 `json:"discounts"`
}

// TenderSummary totals payments across orders.
type TenderSummary struct {
	Amounts        float64 `json:"amounts"`
	ProcessingFees float64 `json:"processingFees"`
	Total          float64 `json:"total"`
}

// TestSalesSummary is the diagnostic report computed from an on-disk snapshot.
type TestSalesSummary struct {
	SalesSummary
	ReturnAmounts ReturnAmountsSummary `json:"returnAmounts"`
	NetAmounts    NetAmountsSummary    `json:"netAmounts"`
	Tenders       TenderSummary        `json:"tenders"`
	Orders        []OrderBreakdown     `json:"orders"`
}

// OrderBreakdown is the per-order detail of the diagnostic report. Money fields are minor units.
type OrderBreakdown struct {
	OrderID             string        `json:"orderId"`
	TenderAmount        MinorUnits    `json:"tenderAmount"`
	ProcessingFees      MinorUnits    `json:"processingFees"`
	TenderTotal         MinorUnits    `json:"tenderTotal"`
	Taxes               MinorUnits    `json:"taxes"`
	Tips                MinorUnits    `json:"tips"`
	GiftCardSales       MinorUnits    `json:"giftcardSales"`
	Discounts           MinorUnits    `json:"discounts"`
	ReturnAmount        MinorUnits    `json:"returnAmount"`
	ReturnTax           MinorUnits    `json:"returnTax"`
	ReturnTip           MinorUnits    `json:"returnTip"`
	ReturnDiscount      MinorUnits    `json:"returnDiscount"`
	ReturnServiceCharge MinorUnits    `json:"returnServiceCharge"`
	ReturnProcessingFee MinorUnits    `json:"returnProcessingFee"`
	NetAmounts          MinorUnits    `json:"netAmounts"`
	NetTaxes            MinorUnits    `json:"netTaxes"`
	NetTips             MinorUnits    `json:"netTips"`
	NetDiscounts        MinorUnits    `json:"netDiscounts"`
	Returns             []OrderReturn `json:"returns"`
	Refunds             []Refund      `json:"refunds"`
	Tenders             []Tender      `json:"tenders"`
}
