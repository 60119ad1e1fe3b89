package valuation

import "errors"

// ErrInvalidSplit rejects a split with a non-positive ratio or a date that
// duplicates another split of the same stock. It fails fast at the point of
// insertion and nothing is recomputed.
var ErrInvalidSplit = errors.New("invalid stock split")
