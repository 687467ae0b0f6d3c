// Package thermo holds the thermodynamic state at freeze-out.
package thermo

import (
	"fmt"
	"math"

	"github.com/wildstyl3r/sremit/internal/config"
	"github.com/wildstyl3r/sremit/internal/particle"
)

type Chemistry int

const (
	ChemicalPotential Chemistry = iota
	GammaLambda
)

func (c Chemistry) String() string {
	switch c {
	case ChemicalPotential:
		return config.ChemicalPotential
	case GammaLambda:
		return config.GammaLambda
	}
	return fmt.Sprintf("Chemistry(%d)", int(c))
}

// Charges is what the chemical potential depends on.
type Charges interface {
	Content() particle.Quarks
	Isospin3() float64
}

// Thermodynamics is read-only after construction. Energies are in GeV.
type Thermodynamics struct {
	temperature float64
	chemistry   Chemistry

	muB, muI, muS, muC                 float64
	lambdaQ, lambdaI, lambdaS, lambdaC float64
	gammaQ, gammaS, gammaC             float64
}

// NewChemicalPotential builds a state parametrized by chemical potentials.
func NewChemicalPotential(temperature, muB, muI, muS, muC, gammaQ, gammaS, gammaC float64) *Thermodynamics {
	return &Thermodynamics{
		temperature: temperature,
		chemistry:   ChemicalPotential,
		muB:         muB,
		muI:         muI,
		muS:         muS,
		muC:         muC,
		lambdaQ:     1,
		lambdaI:     1,
		lambdaS:     1,
		lambdaC:     1,
		gammaQ:      gammaQ,
		gammaS:      gammaS,
		gammaC:      gammaC,
	}
}

// NewGammaLambda builds a state parametrized by fugacities.
func NewGammaLambda(temperature, lambdaQ, lambdaI, lambdaS, lambdaC, gammaQ, gammaS, gammaC float64) *Thermodynamics {
	return &Thermodynamics{
		temperature: temperature,
		chemistry:   GammaLambda,
		lambdaQ:     lambdaQ,
		lambdaI:     lambdaI,
		lambdaS:     lambdaS,
		lambdaC:     lambdaC,
		gammaQ:      gammaQ,
		gammaS:      gammaS,
		gammaC:      gammaC,
	}
}

// FromParameters expects parameters already unified into natural units.
func FromParameters(p config.ModelParameters) (*Thermodynamics, error) {
	switch p.Chemistry {
	case config.ChemicalPotential:
		return NewChemicalPotential(p.Temperature, p.MuB, p.MuI, p.MuS, p.MuC, p.GammaQ, p.GammaS, p.GammaC), nil
	case config.GammaLambda:
		return NewGammaLambda(p.Temperature, p.LambdaQ, p.LambdaI, p.LambdaS, p.LambdaC, p.GammaQ, p.GammaS, p.GammaC), nil
	}
	return nil, fmt.Errorf("%w: %q", config.ErrUnknownChemistry, p.Chemistry)
}

func (t *Thermodynamics) Temperature() float64 { return t.temperature }
func (t *Thermodynamics) Chemistry() Chemistry { return t.chemistry }
func (t *Thermodynamics) MuB() float64 { return t.muB }
func (t *Thermodynamics) MuI() float64 { return t.muI }
func (t *Thermodynamics) MuS() float64 { return t.muS }
func (t *Thermodynamics) MuC() float64 { return t.muC }
func (t *Thermodynamics) LambdaQ() float64 { return t.lambdaQ }
func (t *Thermodynamics) LambdaI() float64 { return t.lambdaI }
func (t *Thermodynamics) LambdaS() float64 { return t.lambdaS }
func (t *Thermodynamics) LambdaC() float64 { return t.lambdaC }
func (t *Thermodynamics) GammaQ() float64 { return t.gammaQ }
func (t *Thermodynamics) GammaS() float64 { return t.gammaS }
func (t *Thermodynamics) GammaC() float64 { return t.gammaC }

// ChemicalPotential of a species in GeV.
//
// chemical_potential: B·μB + I3·μI + S·μS + C·μC
//
// gamma_lambda: T·[(Nq−Naq)·ln λQ + I3·ln λI + (Ns−Nas)·ln λS + (Nc−Nac)·ln λC]
func (t *Thermodynamics) ChemicalPotential(species Charges) float64 {
	q := species.Content()
	i3 := species.Isospin3()
	if t.chemistry == GammaLambda {
		return t.temperature * (float64(q.NetLight())*math.Log(t.lambdaQ) +
			i3*math.Log(t.lambdaI) +
			float64(q.NetStrange())*math.Log(t.lambdaS) +
			float64(q.NetCharm())*math.Log(t.lambdaC))
	}
	return q.Baryon()*t.muB + i3*t.muI + float64(q.Strangeness())*t.muS + float64(q.Charm())*t.muC
}
