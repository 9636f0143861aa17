package invoice

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	numberPrefix   = "INV"
	fallbackLayout = "200601021504" // yyyyMMddHHmm
)

var sequentialNumber = regexp.MustCompile(`^INV(\d+)$`)

// NextInvoiceNumber derives the number that follows lastIssued.
//
// INV000042 becomes INV000043. An empty or malformed lastIssued falls back to
// INV + now as yyyyMMddHHmm, which is not collision free: two calls in the same
// minute return the same value, so callers must rely on the unique index and retry.
func NextInvoiceNumber(lastIssued string, now time.Time) string {
	if m := sequentialNumber.FindStringSubmatch(strings.TrimSpace(lastIssued)); m != nil {
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err == nil && n < math.MaxInt64 {
			return fmt.Sprintf("%s%06d", numberPrefix, n+1)
		}
	}
	return numberPrefix + now.Format(fallbackLayout)
}
