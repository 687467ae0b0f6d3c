// Package output collects the results of a model run and writes the files
// selected by the command-line data flags.
package output

import (
	"fmt"

	"github.com/wildstyl3r/sremit/internal/config"
	"github.com/wildstyl3r/sremit/internal/mc"
	"github.com/wildstyl3r/sremit/internal/utils"
)

type DataExtractor struct {
	parameters  *config.ModelParameters
	description string
	yields      map[string]mc.Yield
	pdg         map[string]int
	particles   map[string][]mc.Particle
}

func NewDataExtractor(parameters *config.ModelParameters, description string) *DataExtractor {
	return &DataExtractor{
		parameters:  parameters,
		description: description,
		yields:      map[string]mc.Yield{},
		pdg:         map[string]int{},
		particles:   map[string][]mc.Particle{},
	}
}

func (de *DataExtractor) AddYield(species string, pdg int, y mc.Yield) {
	de.yields[species] = y
	de.pdg[species] = pdg
	if de.parameters.Verbose() {
		fmt.Printf("%-10s multiplicity %g ± %g (max weight %g, %d discarded)\n",
			species, y.Multiplicity, y.StdError, y.MaxWeight, y.Discarded)
	}
}

func (de *DataExtractor) AddParticles(species string, batch mc.Batch) {
	de.particles[species] = append(de.particles[species], batch.Particles...)
	if de.parameters.Verbose() {
		fmt.Printf("%-10s %d particles from %d trials (%d overflows, %d discarded)\n",
			species, len(batch.Particles), batch.Trials, batch.Overflows, batch.Discarded)
	}
}

// Save writes the selected outputs into <output path>/<model>[/EventSubDir].
func (de *DataExtractor) Save(df DataFlags) error {
	dir, err := utils.OutputDir(df.outputPath, de.parameters.Name(), de.parameters.EventSubDir)
	if err != nil {
		return fmt.Errorf("output directory: %w", err)
	}
	for name, table := range df.tables {
		if !*table.saveFlag && !*df.all {
			continue
		}
		rows := table.rows(de)
		if len(rows) == 0 {
			continue
		}
		if err := utils.WriteAsCSV(rows, dir, table.fileName, table.columnNames(de.parameters.OutputUnits())); err != nil {
			return err
		}
		if de.parameters.Verbose() {
			println(name + " saved")
		}
	}
	if *df.report.saveFlag || *df.all {
		file, err := utils.OpenFile(dir, df.report.fileName)
		if err != nil {
			return fmt.Errorf("unable to save report: %w", err)
		}
		defer file.Close()
		if _, err := file.WriteString(de.description); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}
	return nil
}
