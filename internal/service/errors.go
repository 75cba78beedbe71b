package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Sentinel errors shared across services. Handlers map these to HTTP
// status codes; services never see HTTP.
var (
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidDirection = errors.New("direction must be IN or OUT")
	ErrSlugTaken        = errors.New("slug already in use")
	ErrUsernameTaken    = errors.New("username already taken")
	ErrCategoryNotFound = errors.New("one or more categories do not exist")
)

// InsufficientStockError carries the figures a client needs to re-present
// the form after a rejected outbound movement.
type InsufficientStockError struct {
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: requested %d, available %d", e.Requested, e.Available)
}

// orNotFound collapses gorm's record-not-found into the service-level
// sentinel so handlers never import gorm.
func orNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
