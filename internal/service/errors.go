package service

import (
	"errors"
	"fmt"
)

// ErrStorage marks failures of the persistence layer. They are transient
// from the caller's point of view and may be retried; the services never
// retry on their own.
var ErrStorage = errors.New("storage unavailable")

func storageErr(op string, err error) error {
	return fmt.Errorf("%s -> %w: %w", op, ErrStorage, err)
}
