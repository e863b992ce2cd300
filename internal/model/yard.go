package model

import "time"

// Yard is a company-owned storage site.
type Yard struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Address     string       `json:"address"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}
