package model

import "time"

// FetchEvent is one diagnostics journal row describing a weather fetch
type FetchEvent struct {
	ID         string    `json:"id" db:"id"`
	City       string    `json:"city" db:"city"`
	Outcome    string    `json:"outcome" db:"outcome"`
	StatusCode int       `json:"status_code" db:"status_code"`
	Cause      string    `json:"cause,omitempty" db:"cause"`
	DurationMs int64     `json:"duration_ms" db:"duration_ms"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// OutcomeCount aggregates journal rows per outcome
type OutcomeCount struct {
	Outcome string `json:"outcome" db:"outcome"`
	Count   int64  `json:"count" db:"count"`
}
