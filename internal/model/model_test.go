package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildstyl3r/sremit/internal/constants"
	"github.com/wildstyl3r/sremit/internal/particle"
	"github.com/wildstyl3r/sremit/internal/random"
	"github.com/wildstyl3r/sremit/internal/thermo"
)

// sequence replays fixed draws and counts how many were taken.
type sequence struct {
	values []float64
	taken  int
}

func (s *sequence) Float64() float64 {
	v := s.values[s.taken%len(s.values)]
	s.taken++
	return v
}

var (
	pion     = particle.Type{Name: "pi+", PDG: 211, Mass: 0.13957, I3: 1, Quarks: particle.Quarks{Q: 1, AQ: 1}}
	proton   = particle.Type{Name: "p", PDG: 2212, Mass: 0.938272, J: 0.5, I3: 0.5, Quarks: particle.Quarks{Q: 3}}
	lambda   = particle.Type{Name: "Lambda", PDG: 3122, Mass: 1.115683, J: 0.5, Quarks: particle.Quarks{Q: 2, S: 1}}
	rho      = particle.Type{Name: "rho0", PDG: 113, Mass: 0.77526, Width: 0.1491, Threshold: 0.27914, J: 1, Quarks: particle.Quarks{Q: 1, AQ: 1}}
	massless = particle.Type{Name: "massless", PDG: 22, Mass: 0, J: 0}
)

func newSampler(t *testing.T, geometry Geometry, th Thermodynamics, rnd random.Uniform) *EmissionSampler {
	t.Helper()
	s, err := NewEmissionSampler(geometry, th, rnd)
	require.NoError(t, err)
	return s
}

func defaultThermo() *thermo.Thermodynamics {
	return thermo.NewChemicalPotential(0.165, 0.03, -0.001, 0.01, 0, 1, 1, 1)
}

func defaultGeometry() Geometry {
	return Geometry{T0: 9. / constants.HbarC, R: 8. / constants.HbarC, H: 0.3, A: 0.2, GammaS: 1}
}

func TestStatistics(t *testing.T) {
	for _, tc := range []struct {
		spin, gs, sign float64
	}{
		{0, 1, -1},
		{0.5, 2, +1},
		{1, 3, -1},
		{1.5, 4, +1},
		{2, 5, -1},
		{1.005, 3.01, -1},
	} {
		gs, sign := statistics(tc.spin)
		assert.InDelta(t, tc.gs, gs, 1e-12, "degeneracy for spin %v", tc.spin)
		assert.Equal(t, tc.sign, sign, "statistics for spin %v", tc.spin)
	}
}

func TestMomentumSubstitutionMonotonic(t *testing.T) {
	prevP, prevJacobian := -1., 0.
	for i := range 1000 {
		zet := float64(i) / 1000.
		p, jacobian := momentum(zet)
		require.Greater(t, p, prevP, "zet=%v", zet)
		require.Greater(t, jacobian, prevJacobian, "zet=%v", zet)
		require.GreaterOrEqual(t, jacobian, 1.)
		prevP, prevJacobian = p, jacobian
	}
	p, jacobian := momentum(1 - 1e-12)
	assert.Greater(t, p, 1e11)
	assert.Greater(t, jacobian, 1e23)
	p, jacobian = momentum(0)
	assert.Equal(t, 0., p)
	assert.Equal(t, 1., jacobian)
}

func TestDrawRanges(t *testing.T) {
	g := defaultGeometry()
	s := newSampler(t, g, defaultThermo(), random.New(7, 0))
	for range 20000 {
		d := s.draw()
		require.GreaterOrEqual(t, d.R, 0.)
		require.LessOrEqual(t, d.R, g.R)
		require.GreaterOrEqual(t, d.Phi, 0.)
		require.Less(t, d.Phi, 2*math.Pi)
		require.GreaterOrEqual(t, d.Theta, 0.)
		require.LessOrEqual(t, d.Theta, math.Pi)
		require.GreaterOrEqual(t, d.Zet, 0.)
		require.Less(t, d.Zet, 1.)
		require.GreaterOrEqual(t, d.PhiP, 0.)
		require.Less(t, d.PhiP, 2*math.Pi)
		require.GreaterOrEqual(t, d.ThetaP, 0.)
		require.LessOrEqual(t, d.ThetaP, math.Pi)
	}
}

func TestWeightNeverNegative(t *testing.T) {
	th := thermo.NewChemicalPotential(0.140, 0.2, 0, 0.05, 0, 1, 0.7, 1)
	geometries := []Geometry{
		defaultGeometry(),
		{T0: 1, R: 40, H: 0, A: 0, GammaS: 0.7},
		{T0: 1, R: 40, H: 1.5, A: 3, GammaS: 0.7},
	}
	for gi, g := range geometries {
		s := newSampler(t, g, th, random.New(uint64(gi), 1))
		for _, species := range []particle.Type{pion, proton, lambda, rho, massless} {
			for range 5000 {
				_, w := s.Evaluate(species, true)
				require.GreaterOrEqual(t, w, 0., "%s in geometry %d", species.Name, gi)
				require.False(t, math.IsNaN(w))
			}
		}
	}
}

func TestOnShell(t *testing.T) {
	s := newSampler(t, defaultGeometry(), defaultThermo(), random.New(11, 0))
	for _, species := range []particle.Type{pion, proton, lambda, rho} {
		checked := 0
		for range 20000 {
			point, _ := s.Evaluate(species, false)
			if !point.IsFinite() {
				continue
			}
			checked++
			e := point.P.E()
			assert.InDelta(t, species.Mass*species.Mass, point.Mass2(), 1e-9*math.Max(1, e*e), "%s", species.Name)
		}
		assert.Greater(t, checked, 19000, species.Name)
	}
}

func TestOnShellPreservesMomentum(t *testing.T) {
	mass, p := 0.5, 2.
	theta, phi := 0.7, 2.1
	px := p * math.Cos(phi) * math.Sin(theta)
	py := p * math.Sin(phi) * math.Sin(theta)
	pz := p * math.Cos(theta)
	e := math.Hypot(mass, p)
	p4 := onShell(mass, e, px, py, pz, math.Cos(phi), math.Sin(phi))
	assert.InDelta(t, px, p4.Px(), 1e-12)
	assert.InDelta(t, py, p4.Py(), 1e-12)
	assert.InDelta(t, pz, p4.Pz(), 1e-12)
	assert.InDelta(t, e, p4.E(), 1e-12)
}

func TestOnShellDegenerateRapidity(t *testing.T) {
	// massless particle along +z: E == pz, infinite rapidity
	point := PhaseSpacePoint{P: onShell(0, 1, 0, 0, 1, 1, 0)}
	assert.False(t, point.IsFinite())
}

func TestBackFlowSuppressed(t *testing.T) {
	// Theta = ThetaP = π/2, Phi = PhiP = 0: momentum parallel to the radius, kappa = 1.
	// P = 1 for Zet = 0.5, Ep = P for a massless particle.
	draws := []float64{0.5, 0, 0.5, 0.5, 0, 0.5}
	th := thermo.NewChemicalPotential(0.15, 0, 0, 0, 0, 1, 1, 1)

	steep := newSampler(t, Geometry{R: 5, H: 0, A: 2, GammaS: 1}, th, &sequence{values: draws})
	_, w := steep.Evaluate(massless, false)
	assert.Equal(t, 0., w, "Ep < P·A·kappa must not emit")

	flat := newSampler(t, Geometry{R: 5, H: 0, A: 0.5, GammaS: 1}, th, &sequence{values: draws})
	_, w = flat.Evaluate(massless, false)
	assert.Greater(t, w, 0.)
}

func TestNoFlowReducesToBoseEinstein(t *testing.T) {
	const temperature = 0.15
	th := thermo.NewChemicalPotential(temperature, 0, 0, 0, 0, 1, 1, 1)
	g := Geometry{R: 5, H: 0, A: 0, GammaS: 1}
	draws := []float64{0.3, 0.2, 0.6, 0.4, 0.7, 0.45}
	s := newSampler(t, g, th, &sequence{values: draws})

	point, w := s.Evaluate(massless, false)

	r := 0.3 * 5.
	theta := 0.6 * math.Pi
	p := 0.4 / 0.6
	dPdZet := 1. / (0.6 * 0.6)
	thetaP := 0.45 * math.Pi
	ep := p

	for _, kappa := range []float64{-1, -0.3, 0, 0.4, 1} {
		assert.Equal(t, ep, s.uDotP(r, p, ep, kappa), "no flow: u·p = Ep")
	}

	flux := r * r * math.Sin(theta) * ep
	measure := p * p * math.Sin(thetaP) * dPdZet / ep
	boseEinstein := (1. / constants.TwoPi3) / (math.Exp(ep/temperature) - 1.)
	assert.InEpsilon(t, boseEinstein*measure*flux, w, 1e-12)

	assert.InDelta(t, 0., point.T, 1e-15)
	assert.InDelta(t, r, math.Sqrt(point.X*point.X+point.Y*point.Y+point.Z*point.Z), 1e-12)
	assert.InDelta(t, ep, point.P.E(), 1e-12)
}

func TestVanishingShell(t *testing.T) {
	th := thermo.NewChemicalPotential(0.15, 0, 0, 0, 0, 1, 1, 1)
	s := newSampler(t, Geometry{R: 1e-200, GammaS: 1}, th, random.New(3, 3))
	for range 10000 {
		_, w := s.Evaluate(massless, false)
		require.Equal(t, 0., w)
	}
}

func TestFermionBelowBoson(t *testing.T) {
	th := thermo.NewChemicalPotential(0.15, 0, 0, 0, 0, 1, 1, 1)
	draws := []float64{0.3, 0.2, 0.6, 0.1, 0.7, 0.45}
	boson := massless
	fermion := massless
	fermion.J = 0.5

	s := newSampler(t, Geometry{R: 5, GammaS: 1}, th, &sequence{values: draws})
	_, wBoson := s.Evaluate(boson, false)
	s = newSampler(t, Geometry{R: 5, GammaS: 1}, th, &sequence{values: draws})
	_, wFermion := s.Evaluate(fermion, false)
	// fermion carries twice the degeneracy but +1 in the denominator
	assert.Less(t, wFermion/2., wBoson)
}

func TestReproducible(t *testing.T) {
	g, th := defaultGeometry(), defaultThermo()
	a := newSampler(t, g, th, random.New(2024, 5))
	b := newSampler(t, g, th, random.New(2024, 5))
	for range 1000 {
		pa, wa := a.Evaluate(proton, false)
		pb, wb := b.Evaluate(proton, false)
		require.Equal(t, wa, wb)
		require.Equal(t, pa, pb)
	}
}

func TestCloneOwnsStream(t *testing.T) {
	g, th := defaultGeometry(), defaultThermo()
	base := newSampler(t, g, th, random.New(1, 0))
	first := base.Clone(random.New(99, 1))
	second := base.Clone(random.New(99, 1))
	for range 100 {
		p1, w1 := first.Evaluate(pion, false)
		p2, w2 := second.Evaluate(pion, false)
		require.Equal(t, w1, w2)
		require.Equal(t, p1, p2)
	}
	assert.Equal(t, base.Geometry, first.Geometry)
}

func TestDrawCount(t *testing.T) {
	th := defaultThermo()
	rnd := &sequence{values: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7}}
	s := newSampler(t, defaultGeometry(), th, rnd)

	s.Evaluate(pion, true)
	assert.Equal(t, 6, rnd.taken, "stable species")

	rnd.taken = 0
	s.Evaluate(rho, false)
	assert.Equal(t, 6, rnd.taken, "point mass")

	rnd.taken = 0
	s.Evaluate(rho, true)
	assert.Equal(t, 7, rnd.taken, "finite width takes one more draw")
}

func TestUpsilonAndFugacity(t *testing.T) {
	const temperature = 0.16
	th := thermo.NewChemicalPotential(temperature, 0.1, 0, 0.02, 0, 0.9, 0.8, 1)
	s := newSampler(t, defaultGeometry(), th, random.New(1, 1))

	// Lambda: B = 1, S = -1
	mu := 0.1 - 0.02
	assert.InDelta(t, mu, th.ChemicalPotential(lambda), 1e-15)
	upsilon := 0.8 * math.Exp(mu/temperature)
	assert.InEpsilon(t, upsilon, s.Upsilon(lambda), 1e-12)
	assert.InEpsilon(t, 0.9*0.9*upsilon, s.Fugacity(lambda), 1e-12)

	// pions carry no strangeness: only exp(μ/T)
	assert.InEpsilon(t, 1., s.Upsilon(pion), 1e-12)
}

func TestHyperVolume(t *testing.T) {
	s := newSampler(t, Geometry{R: 3, GammaS: 1}, defaultThermo(), random.New(1, 1))
	assert.InEpsilon(t, 3*math.Pow(2*math.Pi*math.Pi, 2), s.HyperVolume(), 1e-14)
}

func TestNewEmissionSamplerRejects(t *testing.T) {
	rnd := random.New(1, 1)
	_, err := NewEmissionSampler(Geometry{R: 0}, defaultThermo(), rnd)
	assert.ErrorIs(t, err, ErrInvalidGeometry)

	_, err = NewEmissionSampler(Geometry{R: math.NaN()}, defaultThermo(), rnd)
	assert.ErrorIs(t, err, ErrInvalidGeometry)

	cold := thermo.NewChemicalPotential(0, 0, 0, 0, 0, 1, 1, 1)
	_, err = NewEmissionSampler(Geometry{R: 1}, cold, rnd)
	assert.ErrorIs(t, err, ErrInvalidGeometry)

	_, err = NewEmissionSampler(Geometry{R: 1}, defaultThermo(), nil)
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}
