package logstore

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

var (
	bucketRecords = []byte("records")
	bucketByTime  = []byte("by_time")
)

// BoltStore implements Store using BoltDB. Records live in one bucket
// keyed by ID; a second bucket indexes them by timestamp so queries can
// walk newest-first without sorting.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) the delivery log database.
func NewBoltStore(path string) (*BoltStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{
		Timeout: 5 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketRecords, bucketByTime} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// Append writes a record and returns its ID.
func (s *BoltStore) Append(ctx context.Context, rec *Record) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to marshal record: %w", err)
		}
		if err := tx.Bucket(bucketRecords).Put([]byte(rec.ID), data); err != nil {
			return fmt.Errorf("failed to store record: %w", err)
		}
		indexKey := makeIndexKey(rec.Timestamp, rec.ID)
		if err := tx.Bucket(bucketByTime).Put(indexKey, []byte(rec.ID)); err != nil {
			return fmt.Errorf("failed to index record: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return rec.ID, nil
}

// Query returns a filtered page of records, newest first.
func (s *BoltStore) Query(ctx context.Context, f Filter) (*QueryResult, error) {
	f = f.normalize()

	result := &QueryResult{
		Records:  []*Record{},
		Page:     f.Page,
		PageSize: f.PageSize,
	}

	skip := (f.Page - 1) * f.PageSize

	err := s.db.View(func(tx *bolt.Tx) error {
		records := tx.Bucket(bucketRecords)
		c := tx.Bucket(bucketByTime).Cursor()

		// Walk the time index backwards for newest-first order.
		for k, id := c.Last(); k != nil; k, id = c.Prev() {
			data := records.Get(id)
			if data == nil {
				continue
			}

			var rec Record
			if err := json.Unmarshal(data, &rec); err != nil {
				return fmt.Errorf("failed to unmarshal record %s: %w", id, err)
			}
			if !f.matches(&rec) {
				continue
			}

			if result.Total >= skip && len(result.Records) < f.PageSize {
				r := rec
				result.Records = append(result.Records, &r)
			}
			result.Total++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Stats scans all records and aggregates the time-windowed counts.
func (s *BoltStore) Stats(ctx context.Context, now time.Time) (*Stats, error) {
	today, week, month := windowStarts(now)
	stats := &Stats{}

	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRecords).ForEach(func(k, v []byte) error {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("failed to unmarshal record %s: %w", k, err)
			}

			stats.TotalRecords++
			switch rec.Status {
			case StatusSent:
				stats.Sent.tally(rec.Timestamp, today, week, month)
			case StatusFailed:
				stats.Failed.tally(rec.Timestamp, today, week, month)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	// Success rate is sent over all records, not sent over sent+failed.
	if stats.TotalRecords > 0 {
		rate := float64(stats.Sent.Total) / float64(stats.TotalRecords) * 100
		stats.SuccessRate = math.Round(rate*100) / 100
	}

	return stats, nil
}

// Close closes the database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (f Filter) matches(rec *Record) bool {
	if f.Status != "" && rec.Status != f.Status {
		return false
	}
	if !f.From.IsZero() && rec.Timestamp.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && rec.Timestamp.After(f.To) {
		return false
	}
	return true
}

// makeIndexKey builds a lexicographically time-ordered key. The
// fixed-width timestamp keeps byte order identical to time order.
func makeIndexKey(ts time.Time, id string) []byte {
	return []byte(ts.UTC().Format("2006-01-02T15:04:05.000000000") + "|" + id)
}
