package model

import (
	"math"

	"go-hep.org/x/hep/fmom"
)

// PhaseSpacePoint is an emission point (T, X, Y, Z) [GeV^-1] with its
// four-momentum [GeV].
type PhaseSpacePoint struct {
	T, X, Y, Z float64
	P          fmom.PxPyPzE
}

// IsFinite reports whether all eight components are finite. Points near
// |pz| = E may carry an infinite rapidity and must be discarded.
func (p PhaseSpacePoint) IsFinite() bool {
	for _, v := range [...]float64{p.T, p.X, p.Y, p.Z, p.P.Px(), p.P.Py(), p.P.Pz(), p.P.E()} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (p PhaseSpacePoint) Mass2() float64 {
	return p.P.M2()
}

// onShell rebuilds the momentum from transverse mass and rapidity, so that
// E² − p² = m² holds to rounding.
func onShell(mass, e, px, py, pz, cosPhiP, sinPhiP float64) fmom.PxPyPzE {
	pt := math.Hypot(px, py)
	mt := math.Hypot(mass, pt)
	rapidity := 0.5 * math.Log((e+pz)/(e-pz))
	return fmom.NewPxPyPzE(
		pt*cosPhiP,
		pt*sinPhiP,
		mt*math.Sinh(rapidity),
		mt*math.Cosh(rapidity),
	)
}
