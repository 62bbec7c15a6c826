package excel

import (
	"fmt"
	"strconv"
	"strings"

	"gopower/domain/core"
)

// ReadPairs extracts two aligned measurement columns from an Excel workbook
// or CSV file, for feeding the agreement estimator. Column lookup is
// case-insensitive. Rows where both cells are empty are skipped; a row with
// only one value is an error, since the series must stay subject-aligned.
func ReadPairs(path, columnA, columnB string) ([]float64, []float64, error) {
	data, err := NewDataReader(path).ReadData()
	if err != nil {
		return nil, nil, core.NewDataSourceError("pairs file", err)
	}

	colA := strings.ToLower(strings.TrimSpace(columnA))
	colB := strings.ToLower(strings.TrimSpace(columnB))
	for _, col := range []string{colA, colB} {
		if !data.HasHeader(col) {
			return nil, nil, core.NewDataSourceError("pairs file", fmt.Errorf("missing column %q", col))
		}
	}
	if colA == colB {
		return nil, nil, core.NewDataSourceError("pairs file", fmt.Errorf("columns must differ, both are %q", colA))
	}

	var systemA, systemB []float64
	for i, row := range data.Rows {
		rawA, rawB := row[colA], row[colB]
		if rawA == "" && rawB == "" {
			continue
		}
		if rawA == "" || rawB == "" {
			return nil, nil, core.NewDataSourceError("pairs file",
				fmt.Errorf("row %d: columns %q and %q must both have a value", i+2, colA, colB))
		}

		a, err := strconv.ParseFloat(rawA, 64)
		if err != nil {
			return nil, nil, core.NewDataSourceError("pairs file", fmt.Errorf("row %d, column %q: %w", i+2, colA, err))
		}
		b, err := strconv.ParseFloat(rawB, 64)
		if err != nil {
			return nil, nil, core.NewDataSourceError("pairs file", fmt.Errorf("row %d, column %q: %w", i+2, colB, err))
		}

		systemA = append(systemA, a)
		systemB = append(systemB, b)
	}

	return systemA, systemB, nil
}
