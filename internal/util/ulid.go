package util

import (
	"github.com/oklog/ulid/v2"
)

// NewULID generates a new ULID string. Loader runs use it as their run_id log field.
func NewULID() string {
	return ulid.Make().String()
}
