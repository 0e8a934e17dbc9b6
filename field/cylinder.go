package field

import (
	"math"

	"github.com/magsolve/magsolve/geometry"
	"github.com/magsolve/magsolve/pkg/vector"
)

// Cylinder evaluates the field of a homogeneously polarized cylinder magnet
// centered at the local origin with its axis along z. The polarization
// splits into an axial part (Derby & Olbert 2010, Bulirsch cel formulation)
// and a diametral part (magnetic surface-charge model reduced to complete
// elliptic integrals K, E, Pi; same closed form family as Caciagli 2018).
//
// Singular points: the rim (rho = R, |z| = h/2) drives the elliptic modulus
// to its singular value; such points evaluate to the zero vector. The axis
// itself uses an exact on-axis expression.
func Cylinder(kind Kind, g geometry.Cylinder, points, out []vector.Vec3) {
	if g.Degenerate() {
		zeroOut(out)
		return
	}

	radius := g.Diameter / 2
	halfH := g.Height / 2
	pol := g.Polarization
	polT := math.Hypot(pol.X, pol.Y)

	for i, p := range points {
		rho := math.Hypot(p.X, p.Y)
		phi := math.Atan2(p.Y, p.X)
		inside := rho < radius && math.Abs(p.Z) < halfH

		var bRho, bPhi, bZ float64

		if pol.Z != 0 {
			br, bz := cylinderAxialB(radius, halfH, rho, p.Z)
			bRho += pol.Z * br
			bZ += pol.Z * bz
		}

		if polT != 0 {
			// angle measured from the transverse polarization direction
			phiJ := math.Atan2(pol.Y, pol.X)
			hr, hp, hz := cylinderDiametralH(radius, halfH, rho, phi-phiJ, p.Z)
			// charge-model H turns into B; inside adds the polarization
			bRho += polT * hr
			bPhi += polT * hp
			bZ += polT * hz
			if inside {
				cd := math.Cos(phi - phiJ)
				sd := math.Sin(phi - phiJ)
				bRho += polT * cd
				bPhi -= polT * sd
			}
		}

		sin, cos := math.Sincos(phi)
		bf := sanitize(vector.Vec3{
			X: bRho*cos - bPhi*sin,
			Y: bRho*sin + bPhi*cos,
			Z: bZ,
		})

		if kind == H {
			bf = bf.Scale(1 / Mu0)
			if inside {
				bf = bf.Sub(pol.Scale(1 / Mu0))
			}
		}
		out[i] = bf
	}
}

// cylinderAxialB returns (B_rho, B_z) per unit axial polarization for a
// cylinder of given radius and half-height, after Derby & Olbert (2010).
// The returned value is the full B field, valid inside and outside.
func cylinderAxialB(radius, halfH, rho, z float64) (bRho, bZ float64) {
	zp := z + halfH
	zm := z - halfH

	sumR := rho + radius
	difR := radius - rho

	ap := 1 / math.Sqrt(zp*zp+sumR*sumR)
	am := 1 / math.Sqrt(zm*zm+sumR*sumR)
	bp := zp * ap
	bm := zm * am
	gamma := difR / sumR

	kp := math.Sqrt((zp*zp + difR*difR) / (zp*zp + sumR*sumR))
	km := math.Sqrt((zm*zm + difR*difR) / (zm*zm + sumR*sumR))

	const b0 = 1 / math.Pi
	bRho = b0 * radius * (ap*cel(kp, 1, 1, -1) - am*cel(km, 1, 1, -1))
	bZ = b0 * radius / sumR * (bp*cel(kp, gamma*gamma, 1, gamma) - bm*cel(km, gamma*gamma, 1, gamma))
	return bRho, bZ
}

// cylinderDiametralH returns (H_rho, H_phi, H_z) per unit transverse
// magnetization for a cylinder of given radius and half-height. phi is
// measured from the magnetization direction.
//
// Derivation: the transversely magnetized cylinder carries the surface
// charge sigma = M*cos(phi') on its curved face. Integrating the Coulomb
// kernel over z' is elementary; the remaining azimuthal integrals of
// cos/cos^2/sin^2 terms against 1/(w^2*S) reduce to complete elliptic
// integrals with characteristic n = 4*rho*R/(rho+R)^2 and parameter
// m = 4*rho*R/((rho+R)^2 + (z+-h/2)^2).
func cylinderDiametralH(radius, halfH, rho, phi, z float64) (hRho, hPhi, hZ float64) {
	zp := z + halfH
	zm := z - halfH
	sin, cos := math.Sincos(phi)

	// on and near the axis the general expressions cancel destructively;
	// use the exact on-axis solution
	n := 4 * rho * radius / ((rho + radius) * (rho + radius))
	if n < 1e-4 {
		hx := -0.25 * (zp/math.Sqrt(zp*zp+radius*radius) - zm/math.Sqrt(zm*zm+radius*radius))
		return hx * cos, -hx * sin, 0
	}

	sumR := rho + radius
	sumR2 := sumR * sumR

	type part struct {
		j1   float64 // int cos(x) / S dx
		qRho float64 // int cos(x)*(rho - R*cos(x)) / (w^2 S) dx
		qPhi float64 // int sin^2(x) / (w^2 S) dx
	}
	eval := func(zk float64) part {
		m := 4 * rho * radius / (sumR2 + zk*zk)
		pref := 4 / math.Sqrt(sumR2+zk*zk)
		k := ellipK(m)
		kme := kmeOverM(m) // (K - E)/m, stable for small m

		var pi3 float64
		if 1-n > 1e-12 {
			pi3 = ellipPi(n, m)
		}

		j1 := pref * (2*kme - k)

		// cos(x)*(rho - R*cos(x)) expanded over the Pi decomposition;
		// the Pi coefficient vanishes identically at rho = R
		cK := (-2*rho*n - 4*radius*(n-1)) / (n * n)
		cKME := 4 * radius / n
		cPi := (2 - n) / (n * n) * (rho*n - radius*(2-n))
		qRho := pref / sumR2 * (cK*k + cKME*kme + cPi*pi3)

		sK := 4 * (1 - n) / (n * n)
		sKME := 4 / n
		sPi := 4 * (n - 1) / (n * n)
		qPhi := pref / sumR2 * (sK*k + sKME*kme + sPi*pi3)

		return part{j1: j1, qRho: qRho, qPhi: qPhi}
	}

	pp := eval(zp)
	pm := eval(zm)

	const inv4pi = 1 / (4 * math.Pi)
	hRho = cos * radius * inv4pi * (zp*pp.qRho - zm*pm.qRho)
	hPhi = sin * radius * radius * inv4pi * (zp*pp.qPhi - zm*pm.qPhi)
	hZ = cos * radius * inv4pi * (pm.j1 - pp.j1)
	return hRho, hPhi, hZ
}

// kmeOverM returns (K(m) - E(m))/m, switching to the series for small m
// where the direct difference loses precision.
func kmeOverM(m float64) float64 {
	if m < 1e-6 {
		return math.Pi / 4 * (1 + 3*m/8)
	}
	return (ellipK(m) - ellipE(m)) / m
}
