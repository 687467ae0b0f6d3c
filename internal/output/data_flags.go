package output

import (
	"flag"
	"strconv"

	"github.com/wildstyl3r/sremit/internal/config"
	"github.com/wildstyl3r/sremit/internal/utils"
)

type DataItem struct {
	saveFlag *bool
	fileName string
}

type TableDataItem struct {
	DataItem
	columnNames func(units []string) []string
	rows        func(*DataExtractor) utils.CSV
}

type DataFlags struct {
	all        *bool
	report     DataItem
	tables     map[string]TableDataItem
	outputPath string
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

var (
	length = []config.UnitElement{{Class: config.Length, Power: 1}}
	energy = []config.UnitElement{{Class: config.Energy, Power: 1}}
)

// NewDataFlags registers the output selection flags on fs.
func NewDataFlags(fs *flag.FlagSet) DataFlags {
	return DataFlags{
		all: fs.Bool("all", false, "save every available output"),
		report: DataItem{
			saveFlag: fs.Bool("report", true, "save parameter report"),
			fileName: "description",
		},
		tables: map[string]TableDataItem{
			"Yields": {
				DataItem: DataItem{
					saveFlag: fs.Bool("yields", true, "save integrated yields"),
					fileName: "yields",
				},
				columnNames: func([]string) []string {
					return []string{"species", "pdg", "multiplicity", "std error", "max weight", "samples", "discarded"}
				},
				rows: func(de *DataExtractor) (rows utils.CSV) {
					for name, y := range de.yields {
						rows = append(rows, []string{
							name,
							strconv.Itoa(de.pdg[name]),
							format(y.Multiplicity),
							format(y.StdError),
							format(y.MaxWeight),
							strconv.Itoa(y.Samples),
							strconv.Itoa(y.Discarded),
						})
					}
					return rows
				},
			},
			"Particles": {
				DataItem: DataItem{
					saveFlag: fs.Bool("particles", true, "save sampled particles"),
					fileName: "particles",
				},
				columnNames: func(units []string) []string {
					l := " (" + config.UnitName(config.Length, units) + ")"
					e := " (" + config.UnitName(config.Energy, units) + ")"
					return []string{"species", "pdg", "t" + l, "x" + l, "y" + l, "z" + l, "e" + e, "px" + e, "py" + e, "pz" + e}
				},
				rows: func(de *DataExtractor) (rows utils.CSV) {
					units := de.parameters.OutputUnits()
					for name, particles := range de.particles {
						for _, p := range particles {
							row := []string{name, strconv.Itoa(p.PDG)}
							for _, v := range [...]float64{p.T, p.X, p.Y, p.Z} {
								row = append(row, format(config.Natural(v, length, units, false)))
							}
							for _, v := range [...]float64{p.P.E(), p.P.Px(), p.P.Py(), p.P.Pz()} {
								row = append(row, format(config.Natural(v, energy, units, false)))
							}
							rows = append(rows, row)
						}
					}
					return rows
				},
			},
		},
	}
}

func (df *DataFlags) SetOutputPath(path string) {
	df.outputPath = path
}

func (df *DataFlags) GetOutputPath() string {
	return df.outputPath
}
