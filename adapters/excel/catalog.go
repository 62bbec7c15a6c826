package excel

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"gopower/domain/core"
	"gopower/domain/study"
	"gopower/ports"
)

// Column headers of a catalog workbook. The sheet needs one row per marker
// with at least the required columns; total_sd and source are optional.
const (
	colResolution    = "resolution"
	colKey           = "key"
	colName          = "name"
	colBiologicalSD  = "biological_sd"
	colInterSystemSD = "intersystem_sd"
	colTotalSD       = "total_sd"
	colSource        = "source"
)

var catalogColumns = []string{colResolution, colKey, colName, colBiologicalSD, colInterSystemSD}

// WorkbookCatalog is a biomarker catalog loaded from an Excel workbook or
// CSV file. The whole sheet is parsed and validated at open time; contents
// are fixed afterwards, so lookups never touch the file again.
type WorkbookCatalog struct {
	path         string
	byResolution map[study.Resolution][]study.Biomarker
}

// OpenWorkbookCatalog reads and validates a catalog file. Any malformed row
// fails the whole load: a partially usable catalog would silently shrink
// sweep results.
func OpenWorkbookCatalog(path string) (*WorkbookCatalog, error) {
	data, err := NewDataReader(path).ReadData()
	if err != nil {
		return nil, core.NewDataSourceError("catalog workbook", err)
	}

	for _, col := range catalogColumns {
		if !data.HasHeader(col) {
			return nil, core.NewDataSourceError("catalog workbook", fmt.Errorf("missing required column %q", col))
		}
	}

	byResolution := make(map[study.Resolution][]study.Biomarker)
	seen := make(map[string]bool)
	for i, row := range data.Rows {
		marker, err := markerFromRow(row)
		if err != nil {
			// Row numbering matches what a spreadsheet shows: header is row 1.
			return nil, core.NewDataSourceError("catalog workbook", fmt.Errorf("row %d: %w", i+2, err))
		}

		id := string(marker.Resolution) + "/" + marker.Key.String()
		if seen[id] {
			return nil, core.NewDataSourceError("catalog workbook", fmt.Errorf("row %d: duplicate marker %s", i+2, id))
		}
		seen[id] = true

		byResolution[marker.Resolution] = append(byResolution[marker.Resolution], marker)
	}

	for _, markers := range byResolution {
		sort.Slice(markers, func(i, j int) bool { return markers[i].Key < markers[j].Key })
	}

	readerLog.Info("catalog workbook loaded: %s (%d markers, %d tiers)", path, len(seen), len(byResolution))

	return &WorkbookCatalog{path: path, byResolution: byResolution}, nil
}

// Path returns the file the catalog was loaded from
func (c *WorkbookCatalog) Path() string {
	return c.path
}

// Resolutions lists the tiers present in the workbook, ordered by name
func (c *WorkbookCatalog) Resolutions(ctx context.Context) ([]study.Resolution, error) {
	resolutions := make([]study.Resolution, 0, len(c.byResolution))
	for res := range c.byResolution {
		resolutions = append(resolutions, res)
	}
	sort.Slice(resolutions, func(i, j int) bool { return resolutions[i] < resolutions[j] })
	return resolutions, nil
}

// List returns every marker of one tier, ordered by key
func (c *WorkbookCatalog) List(ctx context.Context, res study.Resolution) ([]study.Biomarker, error) {
	markers, ok := c.byResolution[res]
	if !ok {
		return nil, core.NewNotFoundError("resolution", string(res))
	}
	out := make([]study.Biomarker, len(markers))
	copy(out, markers)
	return out, nil
}

// Get returns a single marker or a not-found error
func (c *WorkbookCatalog) Get(ctx context.Context, res study.Resolution, key core.BiomarkerKey) (*study.Biomarker, error) {
	markers, ok := c.byResolution[res]
	if !ok {
		return nil, core.NewNotFoundError("resolution", string(res))
	}
	for _, marker := range markers {
		if marker.Key == key {
			out := marker
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w %q in %s tier", core.ErrBiomarkerNotFound, key, res)
}

func markerFromRow(row RowData) (study.Biomarker, error) {
	resolution, err := study.ParseResolution(row[colResolution])
	if err != nil {
		return study.Biomarker{}, err
	}
	key, err := core.ParseBiomarkerKey(row[colKey])
	if err != nil {
		return study.Biomarker{}, err
	}

	biologicalSD, err := parseSDCell(row, colBiologicalSD)
	if err != nil {
		return study.Biomarker{}, err
	}
	interSystemSD, err := parseSDCell(row, colInterSystemSD)
	if err != nil {
		return study.Biomarker{}, err
	}

	var publishedTotalSD float64
	if raw := row[colTotalSD]; raw != "" {
		publishedTotalSD, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return study.Biomarker{}, fmt.Errorf("column %q: %w", colTotalSD, err)
		}
	}

	marker := study.Biomarker{
		Key:        key,
		Name:       row[colName],
		Resolution: resolution,
		Variability: study.VariabilityModel{
			BiologicalSD:  biologicalSD,
			InterSystemSD: interSystemSD,
		},
		PublishedTotalSD: publishedTotalSD,
		Source:           row[colSource],
	}
	if err := marker.Validate(); err != nil {
		return study.Biomarker{}, err
	}
	return marker, nil
}

func parseSDCell(row RowData, col string) (float64, error) {
	raw := row[col]
	if raw == "" {
		return 0, fmt.Errorf("column %q: value required", col)
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", col, err)
	}
	return value, nil
}

var _ ports.BiomarkerCatalog = (*WorkbookCatalog)(nil)
