package store

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator produces identifiers for products created without one.
type IDGenerator func() string

// NewUUIDGenerator returns a generator of random UUID strings.
func NewUUIDGenerator() IDGenerator {
	return uuid.NewString
}

// NewSequentialGenerator returns a generator of decimal identifiers starting at start.
// The counter belongs to the returned generator, so separate stores never share it.
func NewSequentialGenerator(start int64) IDGenerator {
	var next atomic.Int64
	next.Store(start)
	return func() string {
		return strconv.FormatInt(next.Add(1)-1, 10)
	}
}
