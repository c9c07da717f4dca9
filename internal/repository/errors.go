package repository

import "errors"

// ErrStockConflict is returned by conditional stock updates when the row no
// longer satisfies the guard (not enough stock, or the product is gone).
var ErrStockConflict = errors.New("repository: stock condition not met")

// ErrStaleState is returned when a status transition finds the row in a
// different state than the caller expected.
var ErrStaleState = errors.New("repository: row state changed")
