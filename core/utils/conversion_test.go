package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToInt64(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int64
	}{
		{"Int", 42, 42},
		{"Float", float64(42), 42},
		{"String", "42", 42},
		{"PaddedString", " 7 ", 7},
		{"Bytes", []byte("9"), 9},
		{"Nil", nil, 0},
		{"Garbage", "abc", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToInt64(tt.in))
		})
	}
}

func TestToBool(t *testing.T) {
	assert.True(t, ToBool(true))
	assert.True(t, ToBool("1"))
	assert.True(t, ToBool("yes"))
	assert.True(t, ToBool(float64(1)))
	assert.False(t, ToBool("no"))
	assert.False(t, ToBool(nil))
}

func TestToTime(t *testing.T) {
	t.Run("RemoteLayout", func(t *testing.T) {
		got, ok := ToTime("2024-01-01 10:30:00")
		assert.True(t, ok)
		assert.Equal(t, time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC), got)
	})

	t.Run("RFC3339", func(t *testing.T) {
		got, ok := ToTime("2024-01-01T10:30:00Z")
		assert.True(t, ok)
		assert.Equal(t, 2024, got.Year())
	})

	t.Run("ZeroDate", func(t *testing.T) {
		_, ok := ToTime(ZeroDate)
		assert.False(t, ok)
	})

	t.Run("Missing", func(t *testing.T) {
		_, ok := ToTime(nil)
		assert.False(t, ok)
	})
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "cafe-news", Slugify("Café News"))
	assert.Equal(t, "hello-world-2", Slugify("  Hello, World! 2 "))
	assert.Equal(t, "", Slugify("!!!"))
}
