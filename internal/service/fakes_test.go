package service_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/justinsenglish/crave.services/internal/domain"
)

// --- Fakes ---

// fakeSearcher serves pages in order. Once the scripted pages run out it keeps
// answering with empty pages whose cursor never empties.
type fakeSearcher struct {
	mu       sync.Mutex
	pages    []domain.OrderPage
	errAt    int // 1-based call that fails; 0 never fails
	err      error
	delay    time.Duration
	searches []domain.OrderSearch
}

func (f *fakeSearcher) SearchOrders(ctx context.Context, search domain.OrderSearch) (*domain.OrderPage, error) {
	f.mu.Lock()
	f.searches = append(f.searches, search)
	call := len(f.searches)
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.errAt > 0 && call == f.errAt {
		return nil, f.err
	}
	if call <= len(f.pages) {
		page := f.pages[call-1]
		return &page, nil
	}
	return &domain.OrderPage{Cursor: fmt.Sprintf("endless-%d", call)}, nil
}

func (f *fakeSearcher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.searches)
}

type fakeSnapshotStore struct {
	mu      sync.Mutex
	orders  []domain.RawOrder
	saved   int
	saveErr error
	loadErr error
}

func (f *fakeSnapshotStore) Save(_ context.Context, orders []domain.RawOrder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved++
	f.orders = append([]domain.RawOrder(nil), orders...)
	return nil
}

func (f *fakeSnapshotStore) Load(_ context.Context) ([]domain.RawOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.orders, nil
}

type fakeLocations struct {
	locations []domain.Location
	err       error
	listCalls int
	getCalls  int
}

func (f *fakeLocations) ListLocations(_ context.Context) ([]domain.Location, error) {
	f.listCalls++
	return f.locations, f.err
}

func (f *fakeLocations) GetLocation(_ context.Context, id string) (*domain.Location, error) {
	f.getCalls++
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.locations {
		if f.locations[i].ID == id {
			loc := f.locations[i]
			return &loc, nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "location", ID: id}
}

// --- Builders ---

func usd(amount int64) *domain.Money {
	return &domain.Money{Amount: amount, Currency: "USD"}
}

// ordersWithGross returns n orders whose net total is gross each.
func ordersWithGross(prefix string, n int, gross int64) []domain.RawOrder {
	orders := make([]domain.RawOrder, n)
	for i := range orders {
		orders[i] = domain.RawOrder{
			ID:         fmt.Sprintf("%s-%d", prefix, i),
			NetAmounts: &domain.MoneyAmounts{TotalMoney: usd(gross)},
		}
	}
	return orders
}

// scenarioOrder is a paid order with a partial return and one refund.
func scenarioOrder() domain.RawOrder {
	return domain.RawOrder{
		ID:    "scenario",
		State: domain.OrderStateCompleted,
		NetAmounts: &domain.MoneyAmounts{
			TotalMoney:    usd(1000),
			TaxMoney:      usd(80),
			TipMoney:      usd(150),
			DiscountMoney: usd(0),
		},
		ReturnAmounts: &domain.MoneyAmounts{
			TotalMoney:    usd(200),
			TipMoney:      usd(0),
			DiscountMoney: usd(0),
		},
		Refunds: []domain.Refund{
			{ID: "refund-1", Status: "COMPLETED", AmountMoney: usd(200), ProcessingFeeMoney: usd(20)},
		},
		Tenders: []domain.Tender{
			{ID: "tender-1", Type: "CARD", AmountMoney: usd(1200), ProcessingFeeMoney: usd(35)},
		},
		TotalMoney:    usd(1200),
		TotalTaxMoney: usd(96),
		TotalTipMoney: usd(150),
	}
}

// giftCardOrder sells a 25.00 gift card alongside 10.00 of food.
func giftCardOrder() domain.RawOrder {
	return domain.RawOrder{
		ID: "gift",
		LineItems: []domain.OrderLineItem{
			{Name: "Gift Card", ItemType: domain.LineItemTypeGiftCard, TotalMoney: usd(2500)},
			{Name: "Burrito", ItemType: "ITEM", TotalMoney: usd(1000)},
		},
		NetAmounts: &domain.MoneyAmounts{TotalMoney: usd(3500)},
		Tenders: []domain.Tender{
			{ID: "tender-2", Type: "CASH", AmountMoney: usd(3500)},
		},
	}
}

func date(y int, m time.Month, d int) *domain.CalendarDate {
	return &domain.CalendarDate{Year: y, Month: m, Day: d}
}
