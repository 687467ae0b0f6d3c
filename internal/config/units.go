package config

import (
	"github.com/wildstyl3r/sremit/internal/constants"
	"github.com/wildstyl3r/sremit/internal/utils"
)

// natural units: energies in GeV, lengths in GeV^-1
var unitToNatural = map[string]float64{
	"GeV":    1,                    // [GeV]
	"MeV":    1e-3,                 // [GeV]
	"keV":    1e-6,                 // [GeV]
	"fm":     1. / constants.HbarC, // [GeV^-1]
	"GeV^-1": 1,                    // [GeV^-1]
}

type UnitClass int

const (
	Length UnitClass = iota
	Energy
)

var unitsInClass = map[UnitClass][]string{
	Length: {"fm", "GeV^-1"},
	Energy: {"keV", "MeV", "GeV"},
}

var classesOfUnits = map[string]UnitClass{
	"fm":     Length,
	"GeV^-1": Length,
	"keV":    Energy,
	"MeV":    Energy,
	"GeV":    Energy,
}

type UnitElement = struct {
	Class UnitClass
	Power int
}

var defaultUnits = []string{"fm", "MeV"}

// checkUnits reports unknown units and units sharing a class, and appends
// the default unit of every class left unspecified.
func checkUnits(units []string) (extended, conflicts []string) {
	classes := map[UnitClass]struct{}{}
	for _, unit := range units {
		class, known := classesOfUnits[unit]
		if !known {
			conflicts = append(conflicts, unit)
			continue
		}
		if _, some := classes[class]; some {
			conflicts = append(conflicts, unit)
		} else {
			classes[class] = struct{}{}
		}
	}
	extended = append([]string{}, units...)
	for _, unit := range defaultUnits {
		if _, some := classes[classesOfUnits[unit]]; !some {
			extended = append(extended, unit)
		}
	}
	return
}

// Natural converts v given in units into natural units when direct is set,
// and back from natural units otherwise.
func Natural(v float64, classes []UnitElement, units []string, direct bool) float64 {
	for i := range classes {
		uc := classes[i]
		unit := utils.Intersect(unitsInClass[uc.Class], units)
		if unit == nil {
			continue
		}
		absPower := utils.IntAbs(uc.Power)
		if direct == (uc.Power > 0) {
			for range absPower {
				v *= unitToNatural[*unit]
			}
		} else {
			for range absPower {
				v /= unitToNatural[*unit]
			}
		}
	}
	return v
}

// UnitName is the unit of class selected in units, empty when none is.
func UnitName(class UnitClass, units []string) string {
	if unit := utils.Intersect(unitsInClass[class], units); unit != nil {
		return *unit
	}
	return ""
}
