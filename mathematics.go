package ffmpeg

import (
	"math"
	"math/bits"
	"time"
)

// Rounding selects how Rescale rounds inexact results (AVRounding).
type Rounding int32

const (
	RoundZero       Rounding = 0 // toward zero
	RoundInf        Rounding = 1 // away from zero
	RoundDown       Rounding = 2 // toward -infinity
	RoundUp         Rounding = 3 // toward +infinity
	RoundNearInf    Rounding = 5 // to nearest, halfway away from zero
	RoundPassMinMax Rounding = 8192
)

// Rescale converts a from time base from to time base to, rounding to
// nearest. It is av_rescale_q.
func Rescale(a int64, from, to Rational) int64 {
	return RescaleRnd(a, from, to, RoundNearInf)
}

// RescaleRnd is Rescale with an explicit rounding mode. With
// RoundPassMinMax set, NoPTS and math.MaxInt64 pass through unchanged.
func RescaleRnd(a int64, from, to Rational, rnd Rounding) int64 {
	b := int64(from.Num) * int64(to.Den)
	c := int64(to.Num) * int64(from.Den)
	return rescaleRnd(a, b, c, rnd)
}

// RescaleInt computes a*b/c with rounding, without intermediate overflow.
// Invalid arguments and unrepresentable results yield math.MinInt64.
func RescaleInt(a, b, c int64, rnd Rounding) int64 {
	return rescaleRnd(a, b, c, rnd)
}

func rescaleRnd(a, b, c int64, rnd Rounding) int64 {
	mode := rnd &^ RoundPassMinMax
	if c <= 0 || b < 0 || mode < 0 || mode > 5 || mode == 4 {
		return math.MinInt64
	}
	if rnd&RoundPassMinMax != 0 {
		if a == math.MinInt64 || a == math.MaxInt64 {
			return a
		}
		rnd = mode
	}
	if a < 0 {
		if a == math.MinInt64 {
			a = -math.MaxInt64
		}
		return int64(-uint64(rescaleRnd(-a, b, c, rnd^((rnd>>1)&1))))
	}

	var r uint64
	switch {
	case rnd == RoundNearInf:
		r = uint64(c / 2)
	case rnd&1 != 0:
		r = uint64(c - 1)
	}

	hi, lo := bits.Mul64(uint64(a), uint64(b))
	lo, carry := bits.Add64(lo, r, 0)
	hi += carry
	if hi >= uint64(c) {
		return math.MinInt64
	}
	q, _ := bits.Div64(hi, lo, uint64(c))
	if q > math.MaxInt64 {
		return math.MinInt64
	}
	return int64(q)
}

// TSToDuration converts a timestamp in time base tb to a time.Duration.
// NoPTS maps to 0.
func TSToDuration(ts int64, tb Rational) time.Duration {
	if ts == NoPTS || !tb.Valid() {
		return 0
	}
	us := RescaleRnd(ts, tb, Rational{1, 1000000}, RoundNearInf|RoundPassMinMax)
	return time.Duration(us) * time.Microsecond
}

// DurationToTS converts d to a timestamp in time base tb.
func DurationToTS(d time.Duration, tb Rational) int64 {
	return Rescale(d.Microseconds(), Rational{1, 1000000}, tb)
}

// CompareTS compares two timestamps in different time bases (av_compare_ts).
func CompareTS(a int64, tbA Rational, b int64, tbB Rational) int {
	x := Rescale(a, tbA, tbB)
	switch {
	case x < b:
		return -1
	case x > b:
		return 1
	}
	return 0
}
