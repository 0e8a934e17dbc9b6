package field

import "math"

// cel computes the generalized complete elliptic integral after Bulirsch,
//
//	cel(kc, p, c, s) = integral_0^(pi/2)
//	    (c*cos^2(t) + s*sin^2(t)) / ((cos^2(t) + p*sin^2(t)) *
//	    sqrt(cos^2(t) + kc^2*sin^2(t))) dt
//
// kc is the complementary modulus. The integral diverges for kc = 0; the
// callers mask that case before evaluating. Algorithm from Bulirsch (1969),
// the same primitive magnet field formulations build on.
func cel(kc, p, c, s float64) float64 {
	if kc == 0 {
		return math.NaN()
	}
	const errtol = 1e-8

	k := math.Abs(kc)
	pp := p
	cc := c
	ss := s
	em := 1.0

	if p > 0 {
		pp = math.Sqrt(p)
		ss = s / pp
	} else {
		f := kc * kc
		q := 1 - f
		g := 1 - pp
		f -= pp
		q *= ss - c*pp
		pp = math.Sqrt(f / g)
		cc = (c - ss) / g
		ss = -q/(g*g*pp) + cc*pp
	}

	f := cc
	cc += ss / pp
	g := k / pp
	ss = 2 * (ss + f*g)
	pp += g
	g = em
	em += k
	kk := k

	for math.Abs(g-k) > g*errtol {
		k = 2 * math.Sqrt(kk)
		kk = k * em
		f = cc
		cc += ss / pp
		g = kk / pp
		ss = 2 * (ss + f*g)
		pp += g
		g = em
		em += k
	}

	return math.Pi / 2 * (ss + cc*em) / (em * (em + pp))
}

// ellipK returns the complete elliptic integral of the first kind K(m) with
// parameter m = k^2 < 1.
func ellipK(m float64) float64 {
	kc := math.Sqrt(1 - m)
	return cel(kc, 1, 1, 1)
}

// ellipE returns the complete elliptic integral of the second kind E(m)
// with parameter m = k^2 <= 1.
func ellipE(m float64) float64 {
	if m == 1 {
		return 1
	}
	kc := math.Sqrt(1 - m)
	return cel(kc, 1, 1, kc*kc)
}

// ellipPi returns the complete elliptic integral of the third kind
// Pi(n, m) with characteristic n < 1 and parameter m = k^2 < 1.
func ellipPi(n, m float64) float64 {
	kc := math.Sqrt(1 - m)
	return cel(kc, 1-n, 1, 1)
}
