package trader

import (
	"github.com/google/uuid"
	"github.com/jxskiss/base62"
)

// NewClientOrderID returns a globally unique client order id. A UUID is
// base62-encoded to stay well under the exchange's 36-character limit for
// client order ids.
func NewClientOrderID() string {
	id := uuid.New()
	return "x-" + base62.EncodeToString(id[:])
}
