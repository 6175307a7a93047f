package repository

import "time"

// Preference is one row of the key/value preference table.
type Preference struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// Booking represents a trade handed to the booking system.
type Booking struct {
	ID        string
	Kind      string
	Target    string
	Summary   string
	TradeJSON string
	BookedAt  time.Time
}
