package domain

import "time"

// Currency is a reference row describing a supported currency.
// Exponent is the number of minor-unit digits (2 for USD, 0 for JPY).
type Currency struct {
	ID        string
	Code      string
	Name      string
	Exponent  int32
	CreatedAt time.Time
}

// Category is a reference row classifying budget entries.
type Category struct {
	ID          string
	Name        string
	Description string
	Content     string
	CreatedAt   time.Time
}
