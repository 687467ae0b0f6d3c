package constants

import "math"

const HbarC float64 = 0.197326960 // [GeV fm]
const TwoPi3 float64 = 8. * math.Pi * math.Pi * math.Pi
const SpinTolerance = 0.01

// HyperCube is the measure of (Phi, Theta, PhiP, ThetaP) draws; the radial range multiplies it.
const HyperCube float64 = 2. * math.Pi * math.Pi * 2. * math.Pi * math.Pi

const MeV float64 = 1e-3 // [GeV]
