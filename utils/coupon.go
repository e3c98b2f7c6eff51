package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewCouponCode returns a redeemable coupon code: prefix, millisecond
// timestamp, random suffix. The timestamp makes codes sortable by issue
// time; uniqueness is enforced by the database, and callers retry on a
// duplicate-key insert error.
func NewCouponCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("FIT-%d-%s", time.Now().UnixMilli(), strings.ToUpper(raw[:8]))
}
