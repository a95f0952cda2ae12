package orders

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrProductNotFound   = errors.New("product not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrStatusConflict    = errors.New("invalid status transition")
)

// StockShortfall reports a reservation rejected because the requested
// quantity exceeded the available stock.
type StockShortfall struct {
	ProductID string
	Required  int
	Available int
}

func (e *StockShortfall) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: required %d, available %d",
		e.ProductID, e.Required, e.Available)
}

func (e *StockShortfall) Unwrap() error { return ErrInsufficientStock }
