package particle

import (
	"errors"
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/facette/natsort"
)

var ErrUnknownSpecies = errors.New("unknown particle species")

type Table struct {
	byName map[string]Type
}

// builtin light-flavour, strange and charm hadrons (PDG 2024 values, GeV)
var builtin = []Type{
	{Name: "pi+", PDG: 211, Mass: 0.13957, I3: 1, Quarks: Quarks{Q: 1, AQ: 1}},
	{Name: "pi-", PDG: -211, Mass: 0.13957, I3: -1, Quarks: Quarks{Q: 1, AQ: 1}},
	{Name: "pi0", PDG: 111, Mass: 0.13498, Quarks: Quarks{Q: 1, AQ: 1}},
	{Name: "K+", PDG: 321, Mass: 0.493677, I3: 0.5, Quarks: Quarks{Q: 1, AS: 1}},
	{Name: "K-", PDG: -321, Mass: 0.493677, I3: -0.5, Quarks: Quarks{AQ: 1, S: 1}},
	{Name: "K0", PDG: 311, Mass: 0.497611, I3: -0.5, Quarks: Quarks{Q: 1, AS: 1}},
	{Name: "K0bar", PDG: -311, Mass: 0.497611, I3: 0.5, Quarks: Quarks{AQ: 1, S: 1}},
	{Name: "p", PDG: 2212, Mass: 0.938272, J: 0.5, I3: 0.5, Quarks: Quarks{Q: 3}},
	{Name: "pbar", PDG: -2212, Mass: 0.938272, J: 0.5, I3: -0.5, Quarks: Quarks{AQ: 3}},
	{Name: "n", PDG: 2112, Mass: 0.939565, J: 0.5, I3: -0.5, Quarks: Quarks{Q: 3}},
	{Name: "nbar", PDG: -2112, Mass: 0.939565, J: 0.5, I3: 0.5, Quarks: Quarks{AQ: 3}},
	{Name: "Lambda", PDG: 3122, Mass: 1.115683, J: 0.5, Quarks: Quarks{Q: 2, S: 1}},
	{Name: "Lambdabar", PDG: -3122, Mass: 1.115683, J: 0.5, Quarks: Quarks{AQ: 2, AS: 1}},
	{Name: "Xi-", PDG: 3312, Mass: 1.32171, J: 0.5, I3: -0.5, Quarks: Quarks{Q: 1, S: 2}},
	{Name: "Xibar+", PDG: -3312, Mass: 1.32171, J: 0.5, I3: 0.5, Quarks: Quarks{AQ: 1, AS: 2}},
	{Name: "Omega-", PDG: 3334, Mass: 1.67245, J: 1.5, Quarks: Quarks{S: 3}},
	{Name: "Omegabar+", PDG: -3334, Mass: 1.67245, J: 1.5, Quarks: Quarks{AS: 3}},
	{Name: "rho0", PDG: 113, Mass: 0.77526, Width: 0.1491, Threshold: 0.27914, J: 1, Quarks: Quarks{Q: 1, AQ: 1}},
	{Name: "rho+", PDG: 213, Mass: 0.77511, Width: 0.1491, Threshold: 0.27455, J: 1, I3: 1, Quarks: Quarks{Q: 1, AQ: 1}},
	{Name: "rho-", PDG: -213, Mass: 0.77511, Width: 0.1491, Threshold: 0.27455, J: 1, I3: -1, Quarks: Quarks{Q: 1, AQ: 1}},
	{Name: "omega", PDG: 223, Mass: 0.78266, Width: 0.00868, Threshold: 0.41412, J: 1, Quarks: Quarks{Q: 1, AQ: 1}},
	{Name: "K*+", PDG: 323, Mass: 0.89166, Width: 0.0508, Threshold: 0.628657, J: 1, I3: 0.5, Quarks: Quarks{Q: 1, AS: 1}},
	{Name: "K*-", PDG: -323, Mass: 0.89166, Width: 0.0508, Threshold: 0.628657, J: 1, I3: -0.5, Quarks: Quarks{AQ: 1, S: 1}},
	{Name: "phi", PDG: 333, Mass: 1.019461, Width: 0.004249, Threshold: 0.987354, J: 1, Quarks: Quarks{S: 1, AS: 1}},
	{Name: "Delta++", PDG: 2224, Mass: 1.232, Width: 0.117, Threshold: 1.077842, J: 1.5, I3: 1.5, Quarks: Quarks{Q: 3}},
	{Name: "D0", PDG: 421, Mass: 1.86484, I3: -0.5, Quarks: Quarks{C: 1, AQ: 1}},
	{Name: "D+", PDG: 411, Mass: 1.86966, I3: 0.5, Quarks: Quarks{C: 1, AQ: 1}},
	{Name: "J/psi", PDG: 443, Mass: 3.0969, Width: 0.0000926, J: 1, Quarks: Quarks{C: 1, AC: 1}},
}

func Default() *Table {
	return newTable(builtin)
}

func newTable(types []Type) *Table {
	t := &Table{byName: make(map[string]Type, len(types))}
	for _, pt := range types {
		t.byName[pt.Name] = pt
	}
	return t
}

type tableFile struct {
	Particle []Type
}

// LoadTable reads species from a TOML file of [[Particle]] entries.
func LoadTable(fileName string) (*Table, error) {
	var file tableFile
	if _, err := toml.DecodeFile(fileName, &file); err != nil {
		return nil, fmt.Errorf("decode particle table %s: %w", fileName, err)
	}
	if len(file.Particle) == 0 {
		return nil, fmt.Errorf("particle table %s: no [[Particle]] entries", fileName)
	}
	for i, pt := range file.Particle {
		if pt.Name == "" {
			return nil, fmt.Errorf("particle table %s: entry %d has no name", fileName, i)
		}
		if pt.Mass < 0 || pt.Width < 0 || pt.J < 0 {
			return nil, fmt.Errorf("particle table %s: %s has negative mass, width or spin", fileName, pt.Name)
		}
	}
	return newTable(file.Particle), nil
}

func (t *Table) Lookup(name string) (Type, error) {
	pt, some := t.byName[name]
	if !some {
		return Type{}, fmt.Errorf("%w: %q", ErrUnknownSpecies, name)
	}
	return pt, nil
}

// Names lists the species in natural order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.byName))
	for name := range t.byName {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return natsort.Compare(names[i], names[j]) })
	return names
}
