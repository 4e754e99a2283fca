package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	cases := map[int]int{0: DefaultLimit, -3: DefaultLimit, 5: 5, MaxLimit + 1: MaxLimit}
	for in, want := range cases {
		if got := NormalizeLimit(in); got != want {
			t.Fatalf("NormalizeLimit(%d) = %d, want %d", in, got, want)
		}
	}
	if LimitWithBuffer(5) != 6 {
		t.Fatalf("expected buffer of one row")
	}
}

func TestCursorRoundTrip(t *testing.T) {
	in := Cursor{CreatedAt: time.Date(2025, 3, 4, 5, 6, 7, 890, time.UTC), ID: uuid.New()}
	out, err := ParseCursor(EncodeCursor(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !out.CreatedAt.Equal(in.CreatedAt) || out.ID != in.ID {
		t.Fatalf("cursor mismatch: %+v vs %+v", out, in)
	}
}

func TestParseCursorInvalid(t *testing.T) {
	if c, err := ParseCursor("  "); c != nil || err != nil {
		t.Fatalf("empty cursor should be nil, nil")
	}
	for _, v := range []string{"%%%", "bm8tc2VwYXJhdG9y", "eHx5"} {
		if _, err := ParseCursor(v); err == nil {
			t.Fatalf("expected %q to fail", v)
		}
	}
}

type row struct {
	id uuid.UUID
	at time.Time
}

func TestBuild(t *testing.T) {
	base := time.Now().UTC()
	rows := make([]row, 3)
	for i := range rows {
		rows[i] = row{id: uuid.New(), at: base.Add(-time.Duration(i) * time.Minute)}
	}
	cursorOf := func(r row) Cursor { return Cursor{CreatedAt: r.at, ID: r.id} }

	page := Build(rows, 2, cursorOf)
	if len(page.Items) != 2 || page.NextCursor == "" {
		t.Fatalf("expected 2 items with next cursor, got %d %q", len(page.Items), page.NextCursor)
	}
	c, err := ParseCursor(page.NextCursor)
	if err != nil || c.ID != rows[1].id {
		t.Fatalf("next cursor should point at last kept row, got %+v err=%v", c, err)
	}

	last := Build(rows[:2], 2, cursorOf)
	if last.NextCursor != "" {
		t.Fatalf("expected no next cursor on final page")
	}

	empty := Build[row](nil, 2, cursorOf)
	if empty.Items == nil || len(empty.Items) != 0 {
		t.Fatalf("expected empty non-nil items")
	}
}
