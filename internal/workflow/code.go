package workflow

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const orderCodePrefix = "DC"

// GenerateOrderCode builds a code from the last six digits of the Unix
// millisecond clock and a three-digit random suffix, e.g. DC123456007.
// Uniqueness is probable, not guaranteed.
func GenerateOrderCode(now time.Time) string {
	ms := now.UnixMilli() % 1_000_000
	return fmt.Sprintf("%s%06d%03d", orderCodePrefix, ms, rand.IntN(1000))
}
