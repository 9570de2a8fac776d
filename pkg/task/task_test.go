package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tk := New("Write docs", "Cover the new commands")

	assert.True(t, ValidID(tk.ID))
	assert.Equal(t, "Write docs", tk.Title)
	assert.Equal(t, "Cover the new commands", tk.Description)
	assert.Equal(t, StatusOpen, tk.Status)
	assert.Equal(t, tk.CreatedAt, tk.UpdatedAt)
	assert.Equal(t, time.UTC, tk.CreatedAt.Location())
	assert.NotNil(t, tk.Blocks)
	assert.NotNil(t, tk.BlockedBy)
	assert.NotNil(t, tk.Sessions)
	assert.Empty(t, tk.Blocks)
}

func TestNewID(t *testing.T) {
	a := NewID()
	b := NewID()

	require.Len(t, a, IDLength)
	assert.True(t, ValidID(a))
	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "-")
}

func TestValidID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"generated id", NewID(), true},
		{"too short", "abc123", false},
		{"empty", "", false},
		{"uppercase hex", "ABCDEF0123456789ABCDEF0123456789", false},
		{"non-hex characters", "zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz", false},
		{"correct length all hex", "0123456789abcdef0123456789abcdef", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidID(tt.id))
		})
	}
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "01234567", ShortID("0123456789abcdef0123456789abcdef"))
	assert.Equal(t, "abc", ShortID("abc"))
	assert.Equal(t, "", ShortID(""))
}

func TestStatusIsValid(t *testing.T) {
	for _, s := range Statuses() {
		assert.True(t, s.IsValid(), "status %q", s)
	}
	assert.False(t, Status("").IsValid())
	assert.False(t, Status("cancelled").IsValid())
	assert.False(t, Status("Open").IsValid())
}

func TestEnsureDefaults(t *testing.T) {
	var tk Task
	tk.EnsureDefaults()

	assert.Equal(t, StatusOpen, tk.Status)
	assert.NotNil(t, tk.Blocks)
	assert.NotNil(t, tk.BlockedBy)
	assert.NotNil(t, tk.Sessions)

	tk.Status = StatusDone
	tk.Blocks = []string{"x"}
	tk.EnsureDefaults()
	assert.Equal(t, StatusDone, tk.Status)
	assert.Equal(t, []string{"x"}, tk.Blocks)
}

func TestTouch(t *testing.T) {
	tk := New("t", "")
	created := tk.CreatedAt

	later := created.Add(time.Hour)
	tk.Touch(later)
	assert.Equal(t, later, tk.UpdatedAt)
	assert.Equal(t, created, tk.CreatedAt)
}
