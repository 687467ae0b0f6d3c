package particle

import (
	"math"

	"github.com/wildstyl3r/sremit/internal/random"
)

// widthCut bounds Breit-Wigner sampling to Mass ± widthCut·Width.
const widthCut = 2.

// Quarks counts valence quarks and antiquarks: light (u, d), strange and charm.
type Quarks struct {
	Q, AQ int
	S, AS int
	C, AC int
}

func (q Quarks) Baryon() float64 {
	return float64(q.Q+q.S+q.C-q.AQ-q.AS-q.AC) / 3.
}

// Strangeness follows the convention that an s quark carries S = -1.
func (q Quarks) Strangeness() int {
	return q.AS - q.S
}

func (q Quarks) Charm() int {
	return q.C - q.AC
}

func (q Quarks) NetLight() int {
	return q.Q - q.AQ
}

func (q Quarks) NetStrange() int {
	return q.S - q.AS
}

func (q Quarks) NetCharm() int {
	return q.C - q.AC
}

func (q Quarks) TotalLight() int {
	return q.Q + q.AQ
}

func (q Quarks) TotalStrange() int {
	return q.S + q.AS
}

func (q Quarks) TotalCharm() int {
	return q.C + q.AC
}

type Type struct {
	Name      string
	PDG       int
	Mass      float64 // [GeV]
	Width     float64 // [GeV]
	Threshold float64 // [GeV] lowest mass reachable by the decay channels
	J         float64 `toml:"Spin"`
	I3        float64
	Quarks
}

func (t Type) Spin() float64 {
	return t.J
}

func (t Type) Isospin3() float64 {
	return t.I3
}

func (t Type) PdgCode() int {
	return t.PDG
}

func (t Type) Content() Quarks {
	return t.Quarks
}

// SampleMass returns the pole mass with unit weight unless finiteWidth is
// requested for a species with a width; then one draw of rnd selects a mass
// from the Breit-Wigner distribution truncated to
// [max(Threshold, Mass-2Width), Mass+2Width], and the weight is the
// truncated Breit-Wigner density at that mass.
func (t Type) SampleMass(finiteWidth bool, rnd random.Uniform) (mass, spectralWeight float64) {
	if !finiteWidth || t.Width <= 0 {
		return t.Mass, 1
	}
	lo := max(t.Threshold, t.Mass-widthCut*t.Width)
	hi := t.Mass + widthCut*t.Width
	if lo >= hi {
		return t.Mass, 1
	}
	halfWidth := 0.5 * t.Width
	a := math.Atan((lo - t.Mass) / halfWidth)
	b := math.Atan((hi - t.Mass) / halfWidth)
	mass = t.Mass + halfWidth*math.Tan(a+rnd.Float64()*(b-a))
	delta := mass - t.Mass
	spectralWeight = halfWidth / (delta*delta + halfWidth*halfWidth) / (b - a)
	return mass, spectralWeight
}
