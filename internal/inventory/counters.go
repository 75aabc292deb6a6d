package inventory

import "errors"

var ErrNotFound = errors.New("inventory not found")

// Counters is the per-product row of the inventory ledger. Total is physical
// stock; Committed is quantity promised to live orders; Scheduled is the part
// of Committed released for fulfillment; Available and Backorder are derived.
type Counters struct {
	Total     int `json:"total"`
	Committed int `json:"committed"`
	Scheduled int `json:"scheduled"`
	Available int `json:"available"`
	Backorder int `json:"backorder"`
}

// Normalized clamps every counter to zero or above and recomputes the derived
// pair from Total and Committed:
//
//	available = max(0, total - committed)
//	backorder = max(0, committed - total)
//
// One formula everywhere; create, modify, cancel and return all go through
// it, so out-of-order arithmetic drifts back to a consistent row instead of
// going negative.
func (c Counters) Normalized() Counters {
	c.Total = maxInt(0, c.Total)
	c.Committed = maxInt(0, c.Committed)
	c.Scheduled = maxInt(0, c.Scheduled)
	if c.Scheduled > c.Committed {
		c.Scheduled = c.Committed
	}
	c.Available = maxInt(0, c.Total-c.Committed)
	c.Backorder = maxInt(0, c.Committed-c.Total)
	return c
}

// Schedulable is how much committed quantity has not been released yet.
func (c Counters) Schedulable() int {
	return c.Committed - c.Scheduled
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
