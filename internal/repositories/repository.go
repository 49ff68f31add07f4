package repositories

import "errors"

// ErrNotFound is returned when a candidate, batch or job requirement does not
// exist. Handlers translate it to a 404; everything else is a 500.
var ErrNotFound = errors.New("record not found")
