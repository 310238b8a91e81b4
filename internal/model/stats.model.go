package model

// Stats is the read-only dashboard rollup: order counts per status plus an
// ALL total, the five most recent orders and the sum of settled amounts.
type Stats struct {
	Totals       map[string]int64 `json:"totals"`
	RecentOrders []*Order         `json:"recentOrders"`
	SettledTotal float64          `json:"settled_total"`
}

// StatsTotalKey is the pseudo-status under which the overall order count is
// reported.
const StatsTotalKey = "ALL"
