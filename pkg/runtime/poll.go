package runtime

import "time"

// pollInterval is the fallback poll cadence for goroutines that wait on a
// Signal without a dedicated wake channel (BusMaster).
const pollInterval = 5 * time.Millisecond

func pollTicker() *time.Ticker {
	return time.NewTicker(pollInterval)
}
