package domain

// ============================================================
// Square order records (as returned by POST /v2/orders/search)
// ============================================================

// LineItemTypeGiftCard marks a line item that sells a gift card.
const LineItemTypeGiftCard = "GIFT_CARD"

// Order states included in sales reporting.
const (
	OrderStateCompleted = "COMPLETED"
	OrderStateOpen      = "OPEN"
)

// RawOrder is an order exactly as fetched from Square. It is never mutated after
// decoding; the normalizer reads it and the snapshot store persists it.
type RawOrder struct {
	ID                 string          `json:"id"`
	LocationID         string          `json:"location_id,omitempty"`
	State              string          `json:"state,omitempty"`
	CreatedAt          string          `json:"created_at,omitempty"`
	LineItems          []OrderLineItem `json:"line_items,omitempty"`
	Returns            []OrderReturn   `json:"returns,omitempty"`
	Tenders            []Tender        `json:"tenders,omitempty"`
	Refunds            []Refund        `json:"refunds,omitempty"`
	NetAmounts         *MoneyAmounts   `json:"net_amounts,omitempty"`
	ReturnAmounts      *MoneyAmounts   `json:"return_amounts,omitempty"`
	TotalMoney         *Money          `json:"total_money,omitempty"`
	TotalTaxMoney      *Money          `json:"total_tax_money,omitempty"`
	TotalDiscountMoney *Money          `json:"total_discount_money,omitempty"`
	TotalTipMoney      *Money          `json:"total_tip_money,omitempty"`
}

// MoneyAmounts groups the rolled-up money fields of an order (net or returned).
type MoneyAmounts struct {
	TotalMoney         *Money `json:"total_money,omitempty"`
	TaxMoney           *Money `json:"tax_money,omitempty"`
	DiscountMoney      *Money `json:"discount_money,omitempty"`
	TipMoney           *Money `json:"tip_money,omitempty"`
	ServiceChargeMoney *Money `json:"service_charge_money,omitempty"`
}

// OrderLineItem is a single line of an order.
type OrderLineItem struct {
	UID        string `json:"uid,omitempty"`
	Name       string `json:"name,omitempty"`
	Quantity   string `json:"quantity,omitempty"`
	ItemType   string `json:"item_type,omitempty"`
	TotalMoney *Money `json:"total_money,omitempty"`
}

// IsGiftCard reports whether the line item sells a gift card.
func (li OrderLineItem) IsGiftCard() bool {
	return li.ItemType == LineItemTypeGiftCard
}

// OrderReturn is an itemized return attached to an order.
type OrderReturn struct {
	UID             string                `json:"uid,omitempty"`
	SourceOrderID   string                `json:"source_order_id,omitempty"`
	ReturnLineItems []OrderReturnLineItem `json:"return_line_items,omitempty"`
	ReturnAmounts   *MoneyAmounts         `json:"return_amounts,omitempty"`
}

// OrderReturnLineItem is a returned line.
type OrderReturnLineItem struct {
	UID        string `json:"uid,omitempty"`
	Name       string `json:"name,omitempty"`
	Quantity   string `json:"quantity,omitempty"`
	ItemType   string `json:"item_type,omitempty"`
	TotalMoney *Money `json:"total_money,omitempty"`
}

// Tender is a payment applied to an order.
type Tender struct {
	ID                 string `json:"id,omitempty"`
	Type               string `json:"type,omitempty"`
	AmountMoney        *Money `json:"amount_money,omitempty"`
	TipMoney           *Money `json:"tip_money,omitempty"`
	ProcessingFeeMoney *Money `json:"processing_fee_money,omitempty"`
}

// Refund is a refund issued against a tender of the order.
type Refund struct {
	ID                 string `json:"id,omitempty"`
	TenderID           string `json:"tender_id,omitempty"`
	Status             string `json:"status,omitempty"`
	Reason             string `json:"reason,omitempty"`
	AmountMoney        *Money `json:"amount_money,omitempty"`
	ProcessingFeeMoney *Money `json:"processing_fee_money,omitempty"`
}
