package ffmpeg

import (
	"fmt"
	"math"
)

// Rational is an exact fraction, the Go form of AVRational.
type Rational struct {
	Num int32 `json:"num" yaml:"num"`
	Den int32 `json:"den" yaml:"den"`
}

// TimeBase is AV_TIME_BASE: the number of internal time units per second.
const TimeBase = 1000000

// TimeBaseQ is AV_TIME_BASE_Q.
var TimeBaseQ = Rational{1, TimeBase}

// NoPTS is AV_NOPTS_VALUE, the "timestamp unknown" marker.
const NoPTS int64 = math.MinInt64

// NewRational returns num/den.
func NewRational(num, den int) Rational {
	return Rational{Num: int32(num), Den: int32(den)}
}

// IsZero reports whether the numerator is zero. 0/0 is the "unset" value
// FFmpeg uses for unknown rates.
func (r Rational) IsZero() bool {
	return r.Num == 0
}

// Valid reports whether the denominator is non-zero.
func (r Rational) Valid() bool {
	return r.Den != 0
}

// Float64 converts to float64. A zero denominator yields 0.
func (r Rational) Float64() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// Invert returns den/num.
func (r Rational) Invert() Rational {
	return Rational{Num: r.Den, Den: r.Num}
}

// Reduce returns the fraction in lowest terms with a positive denominator.
func (r Rational) Reduce() Rational {
	if r.Den == 0 {
		return r
	}
	num, den := int64(r.Num), int64(r.Den)
	if den < 0 {
		num, den = -num, -den
	}
	g := gcd(abs64(num), den)
	if g == 0 {
		return Rational{0, 1}
	}
	return Rational{Num: int32(num / g), Den: int32(den / g)}
}

// Mul returns r*o reduced.
func (r Rational) Mul(o Rational) Rational {
	return reduceInt64(int64(r.Num)*int64(o.Num), int64(r.Den)*int64(o.Den))
}

// Div returns r/o reduced.
func (r Rational) Div(o Rational) Rational {
	return reduceInt64(int64(r.Num)*int64(o.Den), int64(r.Den)*int64(o.Num))
}

// Compare returns -1, 0 or 1. Comparisons against x/0 follow the sign of x.
func (r Rational) Compare(o Rational) int {
	a := int64(r.Num) * int64(o.Den)
	b := int64(o.Num) * int64(r.Den)
	if (r.Den < 0) != (o.Den < 0) {
		a, b = b, a
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// String formats as "num/den".
func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// packed returns the register representation of an AVRational passed by
// value on amd64 and arm64: num in the low half, den in the high half.
func (r Rational) packed() uint64 {
	return uint64(uint32(r.Num)) | uint64(uint32(r.Den))<<32
}

func unpackRational(v uint64) Rational {
	return Rational{Num: int32(uint32(v)), Den: int32(uint32(v >> 32))}
}

// reduceInt64 mirrors av_reduce for values that may not fit in int32.
func reduceInt64(num, den int64) Rational {
	if den == 0 {
		return Rational{Num: int32(sign(num)), Den: 0}
	}
	if den < 0 {
		num, den = -num, -den
	}
	if g := gcd(abs64(num), den); g > 1 {
		num /= g
		den /= g
	}
	for num > math.MaxInt32 || num < -math.MaxInt32 || den > math.MaxInt32 {
		num /= 2
		den /= 2
	}
	if den == 0 {
		den = 1
	}
	return Rational{Num: int32(num), Den: int32(den)}
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int64) int64 {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
