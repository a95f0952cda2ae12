package orders

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLedger applies the same reject policy as the Postgres ledger, with a
// mutex standing in for the row-level atomicity of the conditional UPDATE.
type fakeLedger struct {
	mu     sync.Mutex
	stock  map[string]int
	prices map[string]int

	failReserveFor string // product id that returns a storage error
	failReleaseFor string
}

func newFakeLedger(stock map[string]int) *fakeLedger {
	prices := make(map[string]int, len(stock))
	for id := range stock {
		prices[id] = 1000
	}
	return &fakeLedger{stock: stock, prices: prices}
}

func (f *fakeLedger) Reserve(_ context.Context, productID string, qty int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if productID == f.failReserveFor {
		return 0, errors.New("connection reset")
	}
	available, ok := f.stock[productID]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	if available < qty {
		return 0, &StockShortfall{ProductID: productID, Required: qty, Available: available}
	}
	f.stock[productID] = available - qty
	return qty, nil
}

func (f *fakeLedger) Release(_ context.Context, productID string, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if productID == f.failReleaseFor {
		return errors.New("connection reset")
	}
	f.stock[productID] += qty
	return nil
}

type fakeHeaders struct {
	mu       sync.Mutex
	nextID   int
	statuses map[string]Status
}

func newFakeHeaders() *fakeHeaders {
	return &fakeHeaders{statuses: map[string]Status{}}
}

func (f *fakeHeaders) CreateHeader(_ context.Context, userID int64) (string, error) {
	if userID <= 0 {
		return "", fmt.Errorf("%w: user id must be positive", ErrValidation)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := fmt.Sprintf("order-%d", f.nextID)
	f.statuses[id] = StatusCreated
	return id, nil
}

func (f *fakeHeaders) MarkStatus(_ context.Context, orderID string, to Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	from, ok := f.statuses[orderID]
	if !ok {
		return ErrOrderNotFound
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrStatusConflict, from, to)
	}
	f.statuses[orderID] = to
	return nil
}

type fakeLines struct {
	mu    sync.Mutex
	lines map[string][]OrderLine

	failWriteFor string
}

func newFakeLines() *fakeLines {
	return &fakeLines{lines: map[string][]OrderLine{}}
}

func (f *fakeLines) WriteLine(_ context.Context, orderID, productID string, qty int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if productID == f.failWriteFor {
		return 0, errors.New("connection reset")
	}
	f.lines[orderID] = append(f.lines[orderID], OrderLine{
		OrderID: orderID, ProductID: productID, Qty: qty, PriceCents: 1000,
	})
	return 1000, nil
}

func (f *fakeLines) DeleteLines(_ context.Context, orderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.lines, orderID)
	return nil
}

func newTestCoordinator(stock map[string]int) (*Coordinator, *fakeLedger, *fakeHeaders, *fakeLines) {
	ledger := newFakeLedger(stock)
	headers := newFakeHeaders()
	lines := newFakeLines()
	return &Coordinator{Ledger: ledger, Headers: headers, Lines: lines}, ledger, headers, lines
}

func TestPlaceOrder_SingleLineCommits(t *testing.T) {
	c, ledger, headers, lines := newTestCoordinator(map[string]int{"p1": 5})

	placement, err := c.PlaceOrder(context.Background(), 1, Cart{{ProductID: "p1", Qty: 3}})
	require.NoError(t, err)

	assert.Equal(t, 2, ledger.stock["p1"])
	assert.Equal(t, StatusCommitted, headers.statuses[placement.OrderID])
	require.Len(t, lines.lines[placement.OrderID], 1)
	assert.Equal(t, 3, lines.lines[placement.OrderID][0].Qty)
	assert.Equal(t, 3000, placement.TotalCents)
}

func TestPlaceOrder_InsufficientStockRejects(t *testing.T) {
	c, ledger, headers, lines := newTestCoordinator(map[string]int{"p1": 2})

	_, err := c.PlaceOrder(context.Background(), 1, Cart{{ProductID: "p1", Qty: 3}})
	require.ErrorIs(t, err, ErrInsufficientStock)

	var short *StockShortfall
	require.ErrorAs(t, err, &short)
	assert.Equal(t, 3, short.Required)
	assert.Equal(t, 2, short.Available)

	// Nothing applied, order failed, zero lines.
	assert.Equal(t, 2, ledger.stock["p1"])
	assert.Equal(t, StatusFailed, headers.statuses["order-1"])
	assert.Empty(t, lines.lines["order-1"])
}

func TestPlaceOrder_SecondLineFailureRollsBackFirst(t *testing.T) {
	c, ledger, headers, lines := newTestCoordinator(map[string]int{"p1": 5, "p2": 0})

	_, err := c.PlaceOrder(context.Background(), 1, Cart{
		{ProductID: "p1", Qty: 2},
		{ProductID: "p2", Qty: 1},
	})
	require.ErrorIs(t, err, ErrInsufficientStock)

	// p1's deduction must be fully compensated.
	assert.Equal(t, 5, ledger.stock["p1"])
	assert.Equal(t, 0, ledger.stock["p2"])
	assert.Equal(t, StatusFailed, headers.statuses["order-1"])
	assert.Empty(t, lines.lines["order-1"])
}

func TestPlaceOrder_StorageErrorRollsBack(t *testing.T) {
	c, ledger, headers, lines := newTestCoordinator(map[string]int{"p1": 5, "p2": 5})
	ledger.failReserveFor = "p2"

	_, err := c.PlaceOrder(context.Background(), 1, Cart{
		{ProductID: "p1", Qty: 2},
		{ProductID: "p2", Qty: 1},
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInsufficientStock)

	assert.Equal(t, 5, ledger.stock["p1"])
	assert.Equal(t, StatusFailed, headers.statuses["order-1"])
	assert.Empty(t, lines.lines["order-1"])
}

func TestPlaceOrder_LineWriteFailureRollsBackReservation(t *testing.T) {
	c, ledger, _, lines := newTestCoordinator(map[string]int{"p1": 5})
	lines.failWriteFor = "p1"

	_, err := c.PlaceOrder(context.Background(), 1, Cart{{ProductID: "p1", Qty: 3}})
	require.Error(t, err)
	assert.Equal(t, 5, ledger.stock["p1"])
}

func TestPlaceOrder_ValidationBeforeHeader(t *testing.T) {
	tests := []struct {
		name   string
		userID int64
		cart   Cart
	}{
		{"zero user id", 0, Cart{{ProductID: "p1", Qty: 1}}},
		{"negative user id", -4, Cart{{ProductID: "p1", Qty: 1}}},
		{"empty cart", 7, Cart{}},
		{"nil cart", 7, nil},
		{"zero qty", 7, Cart{{ProductID: "p1", Qty: 0}}},
		{"negative qty", 7, Cart{{ProductID: "p1", Qty: -2}}},
		{"missing product id", 7, Cart{{ProductID: "", Qty: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ledger, headers, _ := newTestCoordinator(map[string]int{"p1": 5})

			_, err := c.PlaceOrder(context.Background(), tt.userID, tt.cart)
			require.ErrorIs(t, err, ErrValidation)

			// Fail-fast: no header row, no stock change.
			assert.Empty(t, headers.statuses)
			assert.Equal(t, 5, ledger.stock["p1"])
		})
	}
}

func TestPlaceOrder_UnknownProductFailsOrder(t *testing.T) {
	c, _, headers, _ := newTestCoordinator(map[string]int{"p1": 5})

	_, err := c.PlaceOrder(context.Background(), 1, Cart{{ProductID: "ghost", Qty: 1}})
	require.ErrorIs(t, err, ErrProductNotFound)
	assert.Equal(t, StatusFailed, headers.statuses["order-1"])
}

func TestPlaceOrder_ReleaseFailureStillReportsCause(t *testing.T) {
	c, ledger, headers, _ := newTestCoordinator(map[string]int{"p1": 5, "p2": 0})
	ledger.failReleaseFor = "p1"

	_, err := c.PlaceOrder(context.Background(), 1, Cart{
		{ProductID: "p1", Qty: 2},
		{ProductID: "p2", Qty: 1},
	})
	// The original failure surfaces even when compensation itself fails.
	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, StatusFailed, headers.statuses["order-1"])
}

func TestPlaceOrder_ConcurrentOrdersNeverOversell(t *testing.T) {
	c, ledger, headers, _ := newTestCoordinator(map[string]int{"p1": 5})

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = c.PlaceOrder(context.Background(), int64(i+1), Cart{{ProductID: "p1", Qty: 3}})
		}(i)
	}
	wg.Wait()

	// Exactly one of the two 3-unit orders fits into stock 5.
	var committed, rejected int
	for _, err := range results {
		if err == nil {
			committed++
		} else {
			require.ErrorIs(t, err, ErrInsufficientStock)
			rejected++
		}
	}
	assert.Equal(t, 1, committed)
	assert.Equal(t, 1, rejected)
	assert.Equal(t, 2, ledger.stock["p1"])

	var failed, ok int
	for _, s := range headers.statuses {
		switch s {
		case StatusCommitted:
			ok++
		case StatusFailed:
			failed++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, failed)
}

func TestPlaceOrder_ConservationUnderLoad(t *testing.T) {
	const initial = 50
	c, ledger, _, _ := newTestCoordinator(map[string]int{"p1": initial})

	var wg sync.WaitGroup
	var mu sync.Mutex
	deducted := 0
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := c.PlaceOrder(context.Background(), int64(i+1), Cart{{ProductID: "p1", Qty: 3}})
			if err != nil {
				return
			}
			mu.Lock()
			deducted += p.Lines[0].Qty
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	assert.GreaterOrEqual(t, ledger.stock["p1"], 0, "stock must never go negative")
	assert.LessOrEqual(t, deducted, initial, "total deducted must not exceed initial stock")
	assert.Equal(t, initial-deducted, ledger.stock["p1"])
}
