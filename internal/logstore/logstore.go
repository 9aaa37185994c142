// Package logstore persists delivery log records and aggregates them
// into time-windowed statistics.
package logstore

import (
	"context"
	"time"
)

// Status is the outcome recorded for a send attempt.
type Status string

const (
	StatusSent   Status = "sent"
	StatusFailed Status = "failed"
)

// Record is an append-only delivery log entry. It is never mutated
// after it is written.
type Record struct {
	ID              string    `json:"id"`
	To              string    `json:"to"`
	Subject         string    `json:"subject"`
	HasHTML         bool      `json:"has_html"`
	HasText         bool      `json:"has_text"`
	AttachmentCount int       `json:"attachment_count"`
	Status          Status    `json:"status"`
	MessageID       string    `json:"message_id,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

// Filter selects records for a query. Zero values mean "no constraint".
type Filter struct {
	Status   Status
	From     time.Time
	To       time.Time
	Page     int // 1-based, default 1
	PageSize int // default 50
}

// QueryResult is a page of records, newest first.
type QueryResult struct {
	Records  []*Record `json:"records"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}

// WindowCounts are record counts inside nested time windows measured
// from "now". A record counts in every window it falls within.
type WindowCounts struct {
	Today     int `json:"today"`
	ThisWeek  int `json:"this_week"`
	ThisMonth int `json:"this_month"`
	Total     int `json:"total"`
}

// Stats aggregates the full record set.
type Stats struct {
	Sent         WindowCounts `json:"sent"`
	Failed       WindowCounts `json:"failed"`
	SuccessRate  float64      `json:"success_rate"`
	TotalRecords int          `json:"total_records"`
}

// Store is the delivery log contract. Records are independent and
// append-only, so implementations only need a concurrent-safe append.
type Store interface {
	// Append writes a record and returns its ID. A missing ID or
	// timestamp is filled in at write time.
	Append(ctx context.Context, rec *Record) (string, error)

	// Query returns a filtered, paginated page of records ordered
	// newest first.
	Query(ctx context.Context, f Filter) (*QueryResult, error)

	// Stats aggregates all records into windows measured from now.
	Stats(ctx context.Context, now time.Time) (*Stats, error)

	// Close releases the underlying storage.
	Close() error
}

const (
	defaultPage     = 1
	defaultPageSize = 50
)

// normalize applies pagination defaults.
func (f Filter) normalize() Filter {
	if f.Page < 1 {
		f.Page = defaultPage
	}
	if f.PageSize < 1 {
		f.PageSize = defaultPageSize
	}
	return f
}

// windowStarts computes the three window boundaries: local calendar day
// start, rolling 7x24h, and calendar month start.
func windowStarts(now time.Time) (today, week, month time.Time) {
	today = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	week = now.Add(-7 * 24 * time.Hour)
	month = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return today, week, month
}

// tally adds a record timestamp to the window counts.
func (w *WindowCounts) tally(ts, today, week, month time.Time) {
	if !ts.Before(today) {
		w.Today++
	}
	if !ts.Before(week) {
		w.ThisWeek++
	}
	if !ts.Before(month) {
		w.ThisMonth++
	}
	w.Total++
}
