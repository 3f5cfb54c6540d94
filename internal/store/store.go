// Package store records finished countdown sessions so `countdown history`
// can list them.
package store

import (
	"context"
	"time"
)

// Session is one finished countdown
type Session struct {
	ID string `json:"id" yaml:"id"`
	// Title is the label shown above the timer
	Title string `json:"title" yaml:"title"`
	// Input is the canonical duration, e.g. "1h15m"
	Input          string    `json:"input" yaml:"input"`
	TotalSeconds   int64     `json:"total_seconds" yaml:"total_seconds"`
	ElapsedSeconds int64     `json:"elapsed_seconds" yaml:"elapsed_seconds"`
	TimedOut       bool      `json:"timed_out" yaml:"timed_out"`
	StartedAt      time.Time `json:"started_at" yaml:"started_at"`
	EndedAt        time.Time `json:"ended_at" yaml:"ended_at"`
}

// Stats summarises every recorded session
type Stats struct {
	Sessions       int64 `json:"sessions" yaml:"sessions"`
	TimedOut       int64 `json:"timed_out" yaml:"timed_out"`
	ElapsedSeconds int64 `json:"elapsed_seconds" yaml:"elapsed_seconds"`
}

// Store persists session history
type Store interface {
	RecordSession(ctx context.Context, s Session) error
	ListSessions(ctx context.Context, limit int) ([]Session, error)
	Stats(ctx context.Context) (Stats, error)
	Close() error
}
