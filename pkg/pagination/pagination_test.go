package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLimit(t *testing.T) {
	require.Equal(t, DefaultLimit, NormalizeLimit(0))
	require.Equal(t, MaxLimit, NormalizeLimit(MaxLimit+1))
	require.Equal(t, 7, NormalizeLimit(7))
}

func TestCursorRoundTrip(t *testing.T) {
	want := Cursor{CreatedAt: time.Date(2026, 3, 4, 5, 6, 7, 8, time.UTC), ID: uuid.New()}

	got, err := ParseCursor(EncodeCursor(want))
	require.NoError(t, err)
	require.True(t, want.CreatedAt.Equal(got.CreatedAt))
	require.Equal(t, want.ID, got.ID)

	none, err := ParseCursor("  ")
	require.NoError(t, err)
	require.Nil(t, none)

	_, err = ParseCursor("%%%")
	require.Error(t, err)
}

func TestBuildPage(t *testing.T) {
	type row struct{ id uuid.UUID }
	rows := []row{{uuid.New()}, {uuid.New()}, {uuid.New()}}
	key := func(r row) Cursor { return Cursor{ID: r.id} }

	page := BuildPage(rows, 2, key)
	require.Len(t, page.Items, 2)
	require.NotEmpty(t, page.NextCursor)

	last, err := ParseCursor(page.NextCursor)
	require.NoError(t, err)
	require.Equal(t, rows[1].id, last.ID)

	full := BuildPage(rows[:2], 2, key)
	require.Empty(t, full.NextCursor)
}
