package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"gopower/domain/core"
	"gopower/domain/study"
)

// WriteWorkbookCatalog saves markers as an .xlsx workbook in the layout
// OpenWorkbookCatalog reads back: a header row on Sheet1 followed by one
// row per marker. Optional fields (published total, source) stay blank
// when unset so a round trip reproduces the input.
func WriteWorkbookCatalog(path string, markers []study.Biomarker) error {
	f := excelize.NewFile()
	defer f.Close()

	header := []interface{}{colResolution, colKey, colName, colBiologicalSD, colInterSystemSD, colTotalSD, colSource}
	rows := make([][]interface{}, 0, len(markers)+1)
	rows = append(rows, header)
	for _, m := range markers {
		var publishedTotal interface{} = ""
		if m.PublishedTotalSD > 0 {
			publishedTotal = m.PublishedTotalSD
		}
		rows = append(rows, []interface{}{
			string(m.Resolution),
			string(m.Key),
			m.Name,
			m.Variability.BiologicalSD,
			m.Variability.InterSystemSD,
			publishedTotal,
			m.Source,
		})
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return core.NewDataSourceError("catalog workbook", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &rows[i]); err != nil {
			return core.NewDataSourceError("catalog workbook", fmt.Errorf("row %d: %w", i+1, err))
		}
	}

	if err := f.SaveAs(path); err != nil {
		return core.NewDataSourceError("catalog workbook", err)
	}

	readerLog.Info("catalog workbook written: %s (%d markers)", path, len(markers))
	return nil
}
