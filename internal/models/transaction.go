package models

import "time"

// Transaction is one simulated purchase event. Transaction IDs are unique and
// monotonically increasing across an entire generation run.
type Transaction struct {
	TransactionID string
	UserID        string
	Date          time.Time
	Category      string
	Merchant      string
	MCCCode       int
	Amount        float64
	CardUsed      string
}
