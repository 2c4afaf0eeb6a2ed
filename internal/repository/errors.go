package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when no record has the requested name.
var ErrNotFound = errors.New("substance not found")

// ErrorKind classifies store failures.
type ErrorKind int

const (
	// KindQuery covers statement and constraint failures.
	KindQuery ErrorKind = iota
	// KindConnect covers failures to reach the database.
	KindConnect
)

func (k ErrorKind) String() string {
	if k == KindConnect {
		return "connect"
	}
	return "query"
}

// StoreError wraps a driver error with the operation that failed.
type StoreError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsConnectError reports whether err is a store connectivity failure.
func IsConnectError(err error) bool {
	var se *StoreError
	return errors.As(err, &se) && se.Kind == KindConnect
}

func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	kind := KindQuery
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		kind = KindConnect
	}
	return &StoreError{Kind: kind, Op: op, Err: err}
}
