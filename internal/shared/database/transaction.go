package database

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var errNilHandle = errors.New("database: nil handle")

// WithTransaction runs fn in a transaction bound to ctx. The transaction
// commits when fn returns nil and rolls back otherwise, including on panic.
func WithTransaction(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return errNilHandle
	}
	return db.WithContext(ctx).Transaction(fn)
}
