// Package model implements the single-freeze-out emission kernel: a sphere
// of radius R expanding with Hubble-like flow, emitting hadrons from a
// hypersurface t = T0 + A·r.
package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/wildstyl3r/sremit/internal/constants"
	"github.com/wildstyl3r/sremit/internal/random"
	"github.com/wildstyl3r/sremit/internal/thermo"
)

var ErrInvalidGeometry = errors.New("invalid freeze-out geometry")

const Name = "SR"

// Thermodynamics is the read-only state queried by the sampler. The
// chemistry accessors are only used by the report.
type Thermodynamics interface {
	Temperature() float64
	ChemicalPotential(species thermo.Charges) float64
	GammaQ() float64
	GammaS() float64
	GammaC() float64

	Chemistry() thermo.Chemistry
	MuB() float64
	MuI() float64
	MuS() float64
	MuC() float64
	LambdaQ() float64
	LambdaI() float64
	LambdaS() float64
	LambdaC() float64
}

type Species interface {
	thermo.Charges
	Spin() float64
	PdgCode() int
	SampleMass(finiteWidth bool, rnd random.Uniform) (mass, spectralWeight float64)
}

// Geometry of the freeze-out hypersurface in natural units.
type Geometry struct {
	T0     float64 // freeze-out time at r = 0 [GeV^-1]
	R      float64 // radius [GeV^-1]
	H      float64 // expansion rate
	A      float64 // hypersurface slope dt/dr
	GammaS float64 // strangeness suppression, bookkeeping copy of the thermodynamic one
}

// EmissionSampler evaluates the emission integrand. It shares Geometry and
// Thermodynamics read-only, but owns its stream: use Clone to get a sampler
// for another goroutine.
type EmissionSampler struct {
	Geometry
	thermo Thermodynamics
	rnd    random.Uniform
}

func NewEmissionSampler(geometry Geometry, thermodynamics Thermodynamics, rnd random.Uniform) (*EmissionSampler, error) {
	switch {
	case !(geometry.R > 0):
		return nil, fmt.Errorf("%w: radius must be positive, got %g", ErrInvalidGeometry, geometry.R)
	case thermodynamics == nil:
		return nil, fmt.Errorf("%w: no thermodynamic state", ErrInvalidGeometry)
	case !(thermodynamics.Temperature() > 0):
		return nil, fmt.Errorf("%w: temperature must be positive, got %g", ErrInvalidGeometry, thermodynamics.Temperature())
	case rnd == nil:
		return nil, fmt.Errorf("%w: no random stream", ErrInvalidGeometry)
	}
	return &EmissionSampler{
		Geometry: geometry,
		thermo:   thermodynamics,
		rnd:      rnd,
	}, nil
}

// Clone returns a sampler with the same parameters drawing from rnd.
func (s *EmissionSampler) Clone(rnd random.Uniform) *EmissionSampler {
	c := *s
	c.rnd = rnd
	return &c
}

func (s *EmissionSampler) Thermodynamics() Thermodynamics {
	return s.thermo
}

// HyperVolume is the measure of the sampled domain: R · 2π·π · 2π·π.
func (s *EmissionSampler) HyperVolume() float64 {
	return s.R * constants.HyperCube
}

// statistics returns the degeneracy and the sign in the occupation number
// denominator: -1 for bosons, +1 for fermions.
func statistics(spin float64) (gs, sign float64) {
	gs = 2.*spin + 1.
	if spin-math.Trunc(spin) < constants.SpinTolerance {
		return gs, -1.
	}
	return gs, +1.
}

// momentum maps zet in [0,1) onto p in [0,∞).
func momentum(zet float64) (p, dPdZet float64) {
	p = zet / (1. - zet)
	dPdZet = 1. / ((1. - zet) * (1. - zet))
	return
}

type draws struct {
	R, Phi, Theta     float64
	Zet, PhiP, ThetaP float64
}

// draw consumes exactly six numbers from the stream, in this order.
func (s *EmissionSampler) draw() (d draws) {
	d.R = s.R * s.rnd.Float64()
	d.Phi = 2. * math.Pi * s.rnd.Float64()
	d.Theta = math.Pi * s.rnd.Float64()
	d.Zet = s.rnd.Float64()
	d.PhiP = 2. * math.Pi * s.rnd.Float64()
	d.ThetaP = math.Pi * s.rnd.Float64()
	return
}

// Evaluate samples an emission point and returns it with its integrand
// weight. The stream is consumed in the order R, Phi, Theta, Zet, PhiP,
// ThetaP, followed by the draws of the species' mass sampling.
func (s *EmissionSampler) Evaluate(species Species, finiteWidth bool) (PhaseSpacePoint, float64) {
	d := s.draw()
	// TODO: the spectral weight stays unused until finite-width yields are checked against reference multiplicities
	mass, _ := species.SampleMass(finiteWidth, s.rnd)
	return s.integrand(species, d, mass)
}

func (s *EmissionSampler) integrand(species Species, d draws, mass float64) (PhaseSpacePoint, float64) {
	gs, sign := statistics(species.Spin())
	temperature := s.thermo.Temperature()

	p, dPdZet := momentum(d.Zet)
	sinTheta, cosTheta := math.Sincos(d.Theta)
	sinPhi, cosPhi := math.Sincos(d.Phi)
	sinThetaP, cosThetaP := math.Sincos(d.ThetaP)
	sinPhiP, cosPhiP := math.Sincos(d.PhiP)

	ep := math.Hypot(mass, p)
	kappa := cosTheta*cosThetaP + sinTheta*sinThetaP*math.Cos(d.Phi-d.PhiP)

	uDotP := s.uDotP(d.R, p, ep, kappa)
	dSigmaDotP := s.dSigmaDotP(d.R, sinTheta, p, ep, kappa)

	point := PhaseSpacePoint{
		T: s.T0 + s.A*d.R,
		X: d.R * cosPhi * sinTheta,
		Y: d.R * sinPhi * sinTheta,
		Z: d.R * cosTheta,
	}
	point.P = onShell(mass, ep, p*cosPhiP*sinThetaP, p*sinPhiP*sinThetaP, p*cosThetaP, cosPhiP, sinPhiP)

	upsilon := s.Upsilon(species)
	dp := p * p * sinThetaP * dPdZet / ep
	f := (gs / constants.TwoPi3) / (math.Exp(uDotP/temperature)/upsilon + sign)

	weight := f * dp * dSigmaDotP
	if !(weight > 0.) {
		weight = 0.
	}
	return point, weight
}

// uDotP is the fluid four-velocity at radius r contracted with the momentum.
func (s *EmissionSampler) uDotP(r, p, ep, kappa float64) float64 {
	return (ep - p*math.Tanh(s.H*r)*kappa) * math.Cosh(s.H*r)
}

// dSigmaDotP is the flux through the hypersurface, including the r²·sinθ
// Jacobian of the spatial draws. Inward flux is cut to zero.
func (s *EmissionSampler) dSigmaDotP(r, sinTheta, p, ep, kappa float64) float64 {
	flux := r * r * sinTheta * (ep - p*s.A*kappa)
	if flux < 0. {
		return 0.
	}
	return flux
}

// Upsilon is the fugacity entering the occupation number:
// γS^(Ns+Nas) · exp(μ/T).
func (s *EmissionSampler) Upsilon(species Species) float64 {
	q := species.Content()
	return math.Pow(s.thermo.GammaS(), float64(q.TotalStrange())) *
		math.Exp(s.thermo.ChemicalPotential(species)/s.thermo.Temperature())
}

// Fugacity additionally carries the light-quark factor γQ^(Nq+Naq).
// It does not enter the weight.
func (s *EmissionSampler) Fugacity(species Species) float64 {
	q := species.Content()
	return math.Pow(s.thermo.GammaQ(), float64(q.TotalLight())) * s.Upsilon(species)
}
