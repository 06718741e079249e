package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoundTrip(t *testing.T) {
	p, err := Parse("2024-04-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-04-01", p.String())
	assert.Equal(t, time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), p.Time())
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse("01/04/2024")
	require.Error(t, err)
}

func TestOrderingAndStepping(t *testing.T) {
	a := Date(2024, time.April, 1)
	b := a.Next()
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.Equal(t, "2024-04-02", b.String())
	assert.Equal(t, 31, Date(2024, time.May, 2).Sub(a))
	assert.Equal(t, a, b.Add(-1))
}

func TestOfTruncatesToDay(t *testing.T) {
	noon := time.Date(2024, time.April, 1, 12, 30, 0, 0, time.UTC)
	assert.Equal(t, Date(2024, time.April, 1), Of(noon))
}

func TestRange(t *testing.T) {
	a := Date(2024, time.April, 1)
	got := Range(a, a.Add(2))
	require.Len(t, got, 3)
	assert.Equal(t, a, got[0])
	assert.Equal(t, a.Add(2), got[2])

	assert.Empty(t, Range(a, a.Add(-1)))
}

func TestTextMarshalling(t *testing.T) {
	p := Date(2025, time.January, 15)
	text, err := p.MarshalText()
	require.NoError(t, err)
	var back Period
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, p, back)
}
