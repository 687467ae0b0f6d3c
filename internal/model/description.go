package model

import (
	"fmt"
	"hash/crc32"
	"strings"
	"time"

	"github.com/wildstyl3r/sremit/internal/constants"
	"github.com/wildstyl3r/sremit/internal/thermo"
)

// RunInfo is the run context echoed by the report.
type RunInfo struct {
	RunID     string
	Samples   int
	Randomize bool
	Timestamp time.Time
}

// Record holds the resolved parameters in physical units (fm, MeV).
type Record struct {
	Hash         string
	Model        string
	T0           float64 // [fm]
	R            float64 // [fm]
	H            float64
	A            float64
	GammaS       float64
	Temperature  float64 // [MeV]
	Chemistry    string
	MuB          float64 // [MeV]
	MuI          float64 // [MeV]
	MuS          float64 // [MeV]
	MuC          float64 // [MeV]
	LambdaQ      float64
	LambdaI      float64
	LambdaS      float64
	LambdaC      float64
	GammaQ       float64
	GammaSThermo float64
	GammaC       float64
}

func (s *EmissionSampler) Record() Record {
	th := s.thermo
	return Record{
		Hash:         s.Hash(),
		Model:        Name,
		T0:           s.T0 * constants.HbarC,
		R:            s.R * constants.HbarC,
		H:            s.H,
		A:            s.A,
		GammaS:       s.GammaS,
		Temperature:  th.Temperature() / constants.MeV,
		Chemistry:    th.Chemistry().String(),
		MuB:          th.MuB() / constants.MeV,
		MuI:          th.MuI() / constants.MeV,
		MuS:          th.MuS() / constants.MeV,
		MuC:          th.MuC() / constants.MeV,
		LambdaQ:      th.LambdaQ(),
		LambdaI:      th.LambdaI(),
		LambdaS:      th.LambdaS(),
		LambdaC:      th.LambdaC(),
		GammaQ:       th.GammaQ(),
		GammaSThermo: th.GammaS(),
		GammaC:       th.GammaC(),
	}
}

// Hash is the CRC32 of the resolved parameters; equal parameter sets share
// cached yields and output directories.
func (s *EmissionSampler) Hash() string {
	th := s.thermo
	var b strings.Builder
	fmt.Fprint(&b, Name)
	for _, v := range []float64{s.T0, s.R, s.H, s.A, s.GammaS, th.Temperature()} {
		fmt.Fprintf(&b, "%g", v)
	}
	if th.Chemistry() == thermo.ChemicalPotential {
		for _, v := range []float64{th.MuB(), th.MuI(), th.MuS(), th.MuC()} {
			fmt.Fprintf(&b, "%g", v)
		}
	} else {
		for _, v := range []float64{th.LambdaQ(), th.LambdaI(), th.LambdaS(), th.LambdaC(), th.GammaQ(), th.GammaS(), th.GammaC()} {
			fmt.Fprintf(&b, "%g", v)
		}
	}
	return fmt.Sprintf("%08x", crc32.ChecksumIEEE([]byte(b.String())))
}

func parDesc(label string, value any, unit string) string {
	return fmt.Sprintf("# %-25s: %-12v %s\n", label, value, unit)
}

// Description renders the fixed-format parameter report.
func (s *EmissionSampler) Description(run RunInfo) string {
	th := s.thermo
	var b strings.Builder
	b.WriteString("##################################################\n")
	fmt.Fprintf(&b, "# Model: %s (single freeze-out, spherical)\n", Name)
	b.WriteString(parDesc("- freeze-out Cart. time", s.T0*constants.HbarC, "[fm]"))
	b.WriteString(parDesc("- radial size", s.R*constants.HbarC, "[fm]"))
	b.WriteString(parDesc("- Hubble velocity", s.H, "[c]"))
	b.WriteString(parDesc("- hypersurface slope (A)", s.A, "[1]"))
	b.WriteString(parDesc("- gamma_S", s.GammaS, "[1]"))
	b.WriteString(parDesc("- freeze-out temperature", th.Temperature()/constants.MeV, "[MeV]"))
	if th.Chemistry() == thermo.ChemicalPotential {
		b.WriteString(parDesc("- chem. potential Mu_B", th.MuB()/constants.MeV, "[MeV]"))
		b.WriteString(parDesc("- chem. potential Mu_I3", th.MuI()/constants.MeV, "[MeV]"))
		b.WriteString(parDesc("- chem. potential Mu_S", th.MuS()/constants.MeV, "[MeV]"))
		b.WriteString(parDesc("- chem. potential Mu_C", th.MuC()/constants.MeV, "[MeV]"))
	} else {
		b.WriteString(parDesc("- fugacity Lambda_I3", th.LambdaI(), "[1]"))
		b.WriteString(parDesc("- fugacity Lambda_Q", th.LambdaQ(), "[1]"))
		b.WriteString(parDesc("- fugacity Lambda_S", th.LambdaS(), "[1]"))
		b.WriteString(parDesc("- fugacity Lambda_C", th.LambdaC(), "[1]"))
		b.WriteString(parDesc("- fugacity Gamma_Q", th.GammaQ(), "[1]"))
		b.WriteString(parDesc("- fugacity Gamma_S", th.GammaS(), "[1]"))
		b.WriteString(parDesc("- fugacity Gamma_C", th.GammaC(), "[1]"))
	}
	b.WriteString(parDesc("Parameters hash (CRC32)", s.Hash(), ""))
	b.WriteString(parDesc("Integration samples", run.Samples, ""))
	seedMode := "no"
	if run.Randomize {
		seedMode = "yes"
	}
	b.WriteString(parDesc("Random seed", seedMode, ""))
	if run.RunID != "" {
		b.WriteString(parDesc("Run ID", run.RunID, ""))
	}
	fmt.Fprintf(&b, "# %-25s: %s #\n", "Generation date", run.Timestamp.Format("2006-01-02 15:04:05"))
	b.WriteString("##################################################\n")
	return b.String()
}
