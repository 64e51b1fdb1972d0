package extract

import (
	"math"
	"strconv"
	"strings"
)

// ParseRational splits a "numerator/denominator" tag value into its integer
// components. An empty or malformed value yields nil components.
func ParseRational(v string) (*int, *int) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	parts := strings.Split(v, "/")
	if len(parts) != 2 {
		// some writers store plain integers where a rational is expected
		if n, err := strconv.Atoi(v); err == nil {
			one := 1
			return &n, &one
		}
		return nil, nil
	}
	num, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, nil
	}
	den, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, nil
	}
	return &num, &den
}

// RationalToFloat divides a rational and rounds to prec decimal digits.
// Either component missing yields nil; a zero denominator yields 0.
func RationalToFloat(num, den *int, prec int) *float64 {
	if num == nil || den == nil {
		return nil
	}
	if *den == 0 {
		zero := 0.0
		return &zero
	}
	f := roundTo(float64(*num)/float64(*den), prec)
	return &f
}

// ApexToAperture converts an APEX aperture value to a conventional f-stop:
// round(2^(v/2), 1). Absent or zero input yields nil.
func ApexToAperture(v *float64) *float64 {
	if v == nil || *v == 0 {
		return nil
	}
	f := roundTo(math.Pow(2, *v/2), 1)
	return &f
}

// ApexToShutterSpeed converts an APEX shutter-speed value to the closest
// conventional fraction of a second: 2^-v rounded to 4 decimals, then
// reduced to the best rational approximation with denominator <= 100.
func ApexToShutterSpeed(v *float64) (int, int, bool) {
	if v == nil || *v == 0 {
		return 0, 0, false
	}
	p := roundTo(math.Pow(2, -*v), 4)
	num, den := limitDenominator(int(math.Round(p*10000)), 10000, 100)
	return num, den, true
}

// DegreesFromDMS converts a "deg/1 min/1 sec/100"-style DMS tag value to
// decimal degrees. An absent value resolves to 0, conflating "unknown" with
// the equator or prime meridian; kept for compatibility with existing rows.
func DegreesFromDMS(v string) float64 {
	if v == "" {
		return 0
	}
	var dms []float64
	for _, part := range strings.Fields(v) {
		n, d := ParseRational(part)
		f := RationalToFloat(n, d, 10)
		if f == nil {
			return 0
		}
		dms = append(dms, *f)
	}
	if len(dms) < 3 {
		return 0
	}
	return dms[0] + dms[1]/60.0 + dms[2]/3600.0
}

func roundTo(f float64, prec int) float64 {
	shift := math.Pow(10, float64(prec))
	return math.Round(f*shift) / shift
}

// limitDenominator reduces num/den to the closest fraction whose
// denominator does not exceed maxDen, walking the continued-fraction
// convergents the way Fraction.limit_denominator does.
func limitDenominator(num, den, maxDen int) (int, int) {
	if den == 0 {
		return 0, 0
	}
	neg := false
	if num < 0 {
		neg = true
		num = -num
	}
	g := gcd(num, den)
	num, den = num/g, den/g
	if den <= maxDen {
		return sign(neg, num), den
	}

	p0, q0, p1, q1 := 0, 1, 1, 0
	n, d := num, den
	for d != 0 {
		a := n / d
		q2 := q0 + a*q1
		if q2 > maxDen {
			break
		}
		p0, q0, p1, q1 = p1, q1, p0+a*p1, q2
		n, d = d, n-a*d
	}

	k := (maxDen - q0) / q1
	b1n, b1d := p0+k*p1, q0+k*q1
	b2n, b2d := p1, q1

	target := float64(num) / float64(den)
	if math.Abs(float64(b2n)/float64(b2d)-target) <= math.Abs(float64(b1n)/float64(b1d)-target) {
		return sign(neg, b2n), b2d
	}
	return sign(neg, b1n), b1d
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func sign(neg bool, n int) int {
	if neg {
		return -n
	}
	return n
}
