package utils

import (
	"encoding/csv"
	"fmt"
	"sort"

	"github.com/facette/natsort"
)

type CSV [][]string

func (data CSV) Less(i, j int) bool {
	return natsort.Compare(data[i][0], data[j][0])
}

func (data CSV) Len() int {
	return len(data)
}
func (data CSV) Swap(i, j int) {
	data[i], data[j] = data[j], data[i]
}

// WriteAsCSV writes columns followed by data rows naturally sorted by their first cell.
func WriteAsCSV(data CSV, dir, name string, columns []string) error {
	file, err := OpenFile(dir, name)
	if err != nil {
		return fmt.Errorf("unable to save %s: %w", name, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	sort.Stable(data)
	if err := w.WriteAll(data); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}
