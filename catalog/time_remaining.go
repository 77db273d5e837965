package catalog

import (
	"fmt"
	"time"
)

const day = 24 * time.Hour

// TimeRemaining renders the time left until end, measured from now, at the
// coarsest useful granularity.
func TimeRemaining(end, now time.Time) string {
	left := end.Sub(now)

	days := int(left / day)
	hours := int(left % day / time.Hour)
	minutes := int(left % time.Hour / time.Minute)
	seconds := int(left % time.Minute / time.Second)

	switch {
	case days > 0:
		return fmt.Sprintf("%d days, %d hours, %d minutes", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%d hours, %d minutes", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%d minutes", minutes)
	case seconds > 0:
		return fmt.Sprintf("%d seconds", seconds)
	default:
		return "Auction has ended"
	}
}
