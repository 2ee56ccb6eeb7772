package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"gorm.io/gorm"
)

var (
	// ErrStoreUnavailable means no connection could be obtained from the pool.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrQueryFailed covers every other execution error.
	ErrQueryFailed = errors.New("query failed")
	// ErrDuplicateUsername is returned when signup finds the username taken,
	// either through the pre-check or the unique index.
	ErrDuplicateUsername = errors.New("username already taken")
)

func classify(op string, err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, ErrDuplicateUsername)
	case errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.As(err, &netErr):
		return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, ErrQueryFailed, err)
	}
}
