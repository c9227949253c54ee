// Package countdown turns a target instant into a live days/hours/minutes/seconds breakdown.
package countdown

import (
	"fmt"
	"time"

	"github.com/carlosx8664/skyy-fc/model"
)

const (
	msPerSecond = 1_000
	msPerMinute = 60_000
	msPerHour   = 3_600_000
	msPerDay    = 86_400_000
)

// Remaining is the time left until a target, each field zero-padded to width 2.
// Days are not wrapped and may be wider than two digits.
type Remaining struct {
	Days    string `json:"days"`
	Hours   string `json:"hours"`
	Minutes string `json:"minutes"`
	Seconds string `json:"seconds"`
}

// Zero is the breakdown for a missing, unparsable or elapsed target.
var Zero = Remaining{Days: "00", Hours: "00", Minutes: "00", Seconds: "00"}

// String renders the breakdown as "DDd HH:MM:SS".
func (r Remaining) String() string {
	return fmt.Sprintf("%sd %s:%s:%s", r.Days, r.Hours, r.Minutes, r.Seconds)
}

// IsZero reports whether the countdown has run out.
func (r Remaining) IsZero() bool {
	return r == Zero
}

// Compute parses target and returns the time remaining from now.
func Compute(target string, now time.Time) Remaining {
	t, ok := model.ParseInstant(target)
	if !ok {
		return Zero
	}
	return Until(t, now)
}

// Until returns the time remaining from now until target.
func Until(target, now time.Time) Remaining {
	total := target.Sub(now).Milliseconds()
	if total <= 0 {
		return Zero
	}

	return Remaining{
		Days:    pad(total / msPerDay),
		Hours:   pad((total % msPerDay) / msPerHour),
		Minutes: pad((total % msPerHour) / msPerMinute),
		Seconds: pad((total % msPerMinute) / msPerSecond),
	}
}

func pad(n int64) string {
	return fmt.Sprintf("%02d", n)
}
