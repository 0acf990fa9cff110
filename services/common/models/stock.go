package models

import "fmt"

// MaxStockLevel bounds every stored stock or inventory quantity.
const MaxStockLevel = 1_000_000_000

var ErrStockLimit = fmt.Errorf("stock level must be between 0 and %d", MaxStockLevel)

// StockOperation is how a manual adjustment combines with the current level.
type StockOperation string

const (
	StockSet      StockOperation = "set"
	StockAdd      StockOperation = "add"
	StockSubtract StockOperation = "subtract"
)

// ParseStockOperation defaults an empty value to set.
func ParseStockOperation(s string) (StockOperation, error) {
	switch StockOperation(s) {
	case "", StockSet:
		return StockSet, nil
	case StockAdd, StockSubtract:
		return StockOperation(s), nil
	}
	return "", fmt.Errorf("invalid operation %q: must be set, add or subtract", s)
}

// Apply returns the new level. Subtract never goes below zero; a result
// above MaxStockLevel, or a negative qty, is ErrStockLimit.
func (op StockOperation) Apply(current, qty int) (int, error) {
	if qty < 0 || qty > MaxStockLevel {
		return 0, ErrStockLimit
	}
	switch op {
	case StockAdd:
		if current > MaxStockLevel-qty {
			return 0, ErrStockLimit
		}
		return current + qty, nil
	case StockSubtract:
		if current-qty < 0 {
			return 0, nil
		}
		return current - qty, nil
	default:
		return qty, nil
	}
}
