package ffmpeg

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRational(t *testing.T) {
	assert.Equal(t, Rational{-1, 2}, NewRational(2, -4).Reduce())
	assert.Equal(t, Rational{0, 1}, NewRational(0, 7).Reduce())
	assert.Equal(t, Rational{1, 3}, NewRational(1, 2).Mul(NewRational(2, 3)))
	assert.Equal(t, Rational{2, 1}, NewRational(1, 2).Div(NewRational(1, 4)))
	assert.Equal(t, Rational{1, 0}, NewRational(1, 2).Div(NewRational(0, 1)))
	assert.Equal(t, Rational{25, 1}, NewRational(1, 25).Invert())
	assert.Equal(t, "1/25", NewRational(1, 25).String())
	assert.InDelta(t, 29.97, NewRational(30000, 1001).Float64(), 0.01)
	assert.Zero(t, Rational{}.Float64())
	assert.True(t, Rational{}.IsZero())
	assert.False(t, Rational{}.Valid())
}

func TestRationalCompare(t *testing.T) {
	tests := []struct {
		a, b Rational
		want int
	}{
		{NewRational(1, 2), NewRational(2, 4), 0},
		{NewRational(1, 3), NewRational(1, 2), -1},
		{NewRational(1, 2), NewRational(1, 3), 1},
		{NewRational(-1, 2), NewRational(1, -2), 0},
		{NewRational(1, -2), NewRational(1, 3), -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.a.Compare(tt.b), "%s vs %s", tt.a, tt.b)
	}
}

func TestRationalPacked(t *testing.T) {
	r := NewRational(-1001, 30000)
	assert.Equal(t, r, unpackRational(r.packed()))
}

func TestReduceLargeTerms(t *testing.T) {
	r := reduceInt64(3_000_000_000, 7_000_000_001)
	assert.InDelta(t, 3.0/7, r.Float64(), 0.001)
	assert.Positive(t, r.Den)
}

func TestRescale(t *testing.T) {
	assert.Equal(t, int64(3600), Rescale(1, NewRational(1, 25), NewRational(1, 90000)))
	assert.Equal(t, int64(270), Rescale(3, NewRational(1, 1000), NewRational(1, 90000)))
	assert.Equal(t, int64(1), Rescale(3600, NewRational(1, 90000), NewRational(1, 25)))

	third := NewRational(1, 3)
	one := NewRational(1, 1)
	assert.Equal(t, int64(0), RescaleRnd(1, third, one, RoundDown))
	assert.Equal(t, int64(1), RescaleRnd(1, third, one, RoundUp))
	assert.Equal(t, int64(0), RescaleRnd(1, third, one, RoundNearInf))
	assert.Equal(t, int64(-1), RescaleRnd(-1, third, one, RoundDown))
	assert.Equal(t, int64(0), RescaleRnd(-1, third, one, RoundUp))
	assert.Equal(t, int64(-1), RescaleRnd(-1, third, one, RoundInf))
	assert.Equal(t, int64(0), RescaleRnd(-1, third, one, RoundZero))

	assert.Equal(t, NoPTS, RescaleRnd(NoPTS, third, one, RoundNearInf|RoundPassMinMax))
	assert.Equal(t, int64(math.MaxInt64), RescaleRnd(math.MaxInt64, third, one, RoundNearInf|RoundPassMinMax))
}

func TestRescaleInt(t *testing.T) {
	assert.Equal(t, int64(1)<<61, RescaleInt(1<<62, 4, 8, RoundZero))
	assert.Equal(t, int64(math.MinInt64), RescaleInt(math.MaxInt64, 2, 1, RoundZero), "overflow")
	assert.Equal(t, int64(math.MinInt64), RescaleInt(1, 1, 0, RoundZero), "zero divisor")
	assert.Equal(t, int64(math.MinInt64), RescaleInt(1, 1, 1, 4), "invalid rounding")
}

func TestTimestampDurations(t *testing.T) {
	tb := NewRational(1, 90000)
	assert.Equal(t, time.Second, TSToDuration(90000, tb))
	assert.Equal(t, 40*time.Millisecond, TSToDuration(1, NewRational(1, 25)))
	assert.Zero(t, TSToDuration(NoPTS, tb))
	assert.Zero(t, TSToDuration(10, Rational{}))
	assert.Equal(t, int64(1), DurationToTS(40*time.Millisecond, NewRational(1, 25)))
	assert.Equal(t, int64(45000), DurationToTS(500*time.Millisecond, tb))

	assert.Equal(t, 0, CompareTS(1, NewRational(1, 25), 40, NewRational(1, 1000)))
	assert.Equal(t, 1, CompareTS(1, NewRational(1, 25), 39, NewRational(1, 1000)))
	assert.Equal(t, -1, CompareTS(1, NewRational(1, 25), 41, NewRational(1, 1000)))
}
