package logstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *BoltStore {
	t.Helper()
	store, err := NewBoltStore(filepath.Join(t.TempDir(), "log.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAppendAssignsIDAndTimestamp(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := &Record{To: "a@b.com", Subject: "Hi", Status: StatusSent}
	id, err := store.Append(ctx, rec)
	if err != nil {
		t.Fatal(err)
	}
	if id == "" {
		t.Error("Append() returned empty ID")
	}
	if rec.Timestamp.IsZero() {
		t.Error("Append() left timestamp zero")
	}

	result, err := store.Query(ctx, Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if result.Total != 1 || len(result.Records) != 1 {
		t.Fatalf("Query() total = %d, records = %d", result.Total, len(result.Records))
	}
	if result.Records[0].ID != id {
		t.Errorf("record ID = %q, want %q", result.Records[0].ID, id)
	}
}

func TestQueryOrderAndFilters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	seed := []struct {
		to     string
		status Status
		offset time.Duration
	}{
		{"first@x.com", StatusSent, 0},
		{"second@x.com", StatusFailed, time.Hour},
		{"third@x.com", StatusSent, 2 * time.Hour},
	}
	for _, s := range seed {
		_, err := store.Append(ctx, &Record{
			To:        s.to,
			Subject:   "Hi",
			Status:    s.status,
			Timestamp: base.Add(s.offset),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	t.Run("newest first", func(t *testing.T) {
		result, err := store.Query(ctx, Filter{})
		if err != nil {
			t.Fatal(err)
		}
		if len(result.Records) != 3 {
			t.Fatalf("got %d records", len(result.Records))
		}
		if result.Records[0].To != "third@x.com" || result.Records[2].To != "first@x.com" {
			t.Errorf("wrong order: %s, %s, %s",
				result.Records[0].To, result.Records[1].To, result.Records[2].To)
		}
	})

	t.Run("status filter", func(t *testing.T) {
		result, err := store.Query(ctx, Filter{Status: StatusFailed})
		if err != nil {
			t.Fatal(err)
		}
		if result.Total != 1 || result.Records[0].To != "second@x.com" {
			t.Errorf("status filter: total = %d", result.Total)
		}
	})

	t.Run("time range filter", func(t *testing.T) {
		result, err := store.Query(ctx, Filter{From: base.Add(30 * time.Minute)})
		if err != nil {
			t.Fatal(err)
		}
		if result.Total != 2 {
			t.Errorf("from filter: total = %d, want 2", result.Total)
		}

		result, err = store.Query(ctx, Filter{To: base.Add(30 * time.Minute)})
		if err != nil {
			t.Fatal(err)
		}
		if result.Total != 1 {
			t.Errorf("to filter: total = %d, want 1", result.Total)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		result, err := store.Query(ctx, Filter{Page: 2, PageSize: 2})
		if err != nil {
			t.Fatal(err)
		}
		if result.Total != 3 {
			t.Errorf("total = %d, want 3", result.Total)
		}
		if len(result.Records) != 1 || result.Records[0].To != "first@x.com" {
			t.Errorf("page 2 content wrong: %d records", len(result.Records))
		}
	})
}

func TestStatsWindows(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	seed := []struct {
		status Status
		ts     time.Time
	}{
		{StatusSent, now.Add(-time.Hour)},                          // today
		{StatusSent, now.Add(-3 * 24 * time.Hour)},                 // this week + month
		{StatusSent, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)},  // this month only
		{StatusSent, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)},  // total only
		{StatusFailed, now.Add(-2 * time.Hour)},                    // today
		{StatusFailed, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)}, // total only
	}
	for _, s := range seed {
		if _, err := store.Append(ctx, &Record{To: "x@y.com", Subject: "s", Status: s.status, Timestamp: s.ts}); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := store.Stats(ctx, now)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := stats.Sent, (WindowCounts{Today: 1, ThisWeek: 2, ThisMonth: 3, Total: 4}); got != want {
		t.Errorf("Sent = %+v, want %+v", got, want)
	}
	if got, want := stats.Failed, (WindowCounts{Today: 1, ThisWeek: 1, ThisMonth: 1, Total: 2}); got != want {
		t.Errorf("Failed = %+v, want %+v", got, want)
	}

	// Windows are nested supersets.
	for name, w := range map[string]WindowCounts{"sent": stats.Sent, "failed": stats.Failed} {
		if w.Today > w.ThisWeek || w.ThisWeek > w.ThisMonth || w.ThisMonth > w.Total {
			t.Errorf("%s windows not monotonic: %+v", name, w)
		}
	}

	// 4 sent of 6 records.
	if stats.SuccessRate != 66.67 {
		t.Errorf("SuccessRate = %v, want 66.67", stats.SuccessRate)
	}
	if stats.TotalRecords != 6 {
		t.Errorf("TotalRecords = %d, want 6", stats.TotalRecords)
	}
}

func TestStatsEmptyStore(t *testing.T) {
	store := newTestStore(t)

	stats, err := store.Stats(context.Background(), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if stats.SuccessRate != 0 {
		t.Errorf("SuccessRate = %v, want 0 for empty store", stats.SuccessRate)
	}
	if stats.TotalRecords != 0 {
		t.Errorf("TotalRecords = %d, want 0", stats.TotalRecords)
	}
}

func TestStatsAllSent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := store.Append(ctx, &Record{To: "x@y.com", Subject: "s", Status: StatusSent}); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := store.Stats(ctx, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if stats.SuccessRate != 100.0 {
		t.Errorf("SuccessRate = %v, want 100.0", stats.SuccessRate)
	}
}
