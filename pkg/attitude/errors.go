package attitude

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOrder matches every *InvalidOrderError.
	ErrInvalidOrder = errors.New("attitude: invalid euler order")
	// ErrInputShape is returned by Engine.Convert when a request carries the
	// wrong number of values for its source.
	ErrInputShape = errors.New("attitude: wrong number of input values")
	// ErrUnknownSource is returned for a source name that is not one of the five representations.
	ErrUnknownSource = errors.New("attitude: unknown source")
)

// InvalidOrderError reports an order string that is not one of the 24 supported orders.
type InvalidOrderError struct {
	Order string
}

func (e *InvalidOrderError) Error() string {
	return fmt.Sprintf("attitude: invalid euler order %q", e.Order)
}

func (e *InvalidOrderError) Is(target error) bool {
	return target == ErrInvalidOrder
}
