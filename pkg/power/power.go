// Package power implements the AC power relations used by the load tools:
// completion of a partially known (P, Q, S, cosφ) set and the power
// triangle calculator.
package power

import (
	"errors"
	"math"
)

// Values holds active power P, reactive power Q, apparent power S and the
// power factor PF. An unknown quantity is NaN.
type Values struct {
	P  float64
	Q  float64
	S  float64
	PF float64
}

// Unknown returns a Values with every quantity unset
func Unknown() Values {
	nan := math.NaN()
	return Values{P: nan, Q: nan, S: nan, PF: nan}
}

// Known reports whether v holds a finite number
func Known(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ValidPF reports whether pf is a usable power factor, 0 < pf <= 1
func ValidPF(pf float64) bool {
	return Known(pf) && pf > 0 && pf <= 1
}

// FromPF returns S and Q for active power p at power factor pf.
// Q = P·tan(acos(pf)) = P·sqrt(1-pf²)/pf.
func FromPF(p, pf float64) (s, q float64, ok bool) {
	if !Known(p) || !ValidPF(pf) {
		return math.NaN(), math.NaN(), false
	}
	return p / pf, p * math.Sqrt(math.Max(0, 1-pf*pf)) / pf, true
}

// Complete derives the unknown quantities from the known ones. Known values
// are never overwritten and a second call returns the same result.
func Complete(v Values) Values {
	pfOK := ValidPF(v.PF)

	if !Known(v.P) && Known(v.S) && pfOK {
		v.P = v.S * v.PF
	}
	if Known(v.P) && pfOK {
		s, q, _ := FromPF(v.P, v.PF)
		if !Known(v.S) {
			v.S = s
		}
		if !Known(v.Q) {
			v.Q = q
		}
	}
	if !Known(v.Q) && Known(v.S) && pfOK {
		v.Q = v.S * math.Sqrt(math.Max(0, 1-v.PF*v.PF))
	}
	if !Known(v.S) && Known(v.P) && Known(v.Q) {
		v.S = math.Hypot(v.P, v.Q)
	}
	return v
}

// ReactiveShare returns Q/S clamped to [0, 1]. It is only defined when both
// are known and S is positive.
func (v Values) ReactiveShare() (float64, bool) {
	if !Known(v.Q) || !Known(v.S) || v.S <= 0 {
		return 0, false
	}
	return math.Max(0, math.Min(1, v.Q/v.S)), true
}

// Triangle is the result of the power triangle calculator
type Triangle struct {
	U      float64 // voltage, V
	I      float64 // current, A
	CosPhi float64
	S      float64 // apparent power, VA
	P      float64 // active power, W
	Q      float64 // reactive power, var
	Phi    float64 // phase angle in degrees
}

var (
	ErrNegativeInput = errors.New("voltage and current must not be negative")
	ErrCosPhiRange   = errors.New("cos phi must be within [0, 1]")
)

// Solve computes S = U·I, P = S·cosφ and Q = sqrt(S²-P²)
func Solve(u, i, cosPhi float64) (Triangle, error) {
	if !Known(u) || !Known(i) || u < 0 || i < 0 {
		return Triangle{}, ErrNegativeInput
	}
	if !Known(cosPhi) || cosPhi < 0 || cosPhi > 1 {
		return Triangle{}, ErrCosPhiRange
	}
	s := u * i
	p := s * cosPhi
	return Triangle{
		U:      u,
		I:      i,
		CosPhi: cosPhi,
		S:      s,
		P:      p,
		Q:      math.Sqrt(math.Max(0, s*s-p*p)),
		Phi:    math.Acos(cosPhi) * 180 / math.Pi,
	}, nil
}
