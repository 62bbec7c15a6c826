package excel

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"gopower/domain/core"
	"gopower/domain/study"
)

const catalogCSV = `resolution,key,name,biological_sd,intersystem_sd,total_sd,source
standard,stenosis_severity,Stenosis severity (%),11.6,2.4,11.85,published repeatability study
uhr,stenosis_severity,Stenosis severity (%),11.6,10.2,15.47,published repeatability study
uhr,ct_ffr,CT-FFR,0.08,0.11,0.14,
`

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func writeTempWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("writing row %d: %v", i+1, err)
		}
	}

	path := filepath.Join(t.TempDir(), "catalog.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("saving workbook: %v", err)
	}
	return path
}

func TestWorkbookCatalogFromCSV(t *testing.T) {
	cat, err := OpenWorkbookCatalog(writeTempCSV(t, catalogCSV))
	if err != nil {
		t.Fatalf("OpenWorkbookCatalog failed: %v", err)
	}

	resolutions, err := cat.Resolutions(context.Background())
	if err != nil {
		t.Fatalf("Resolutions failed: %v", err)
	}
	if len(resolutions) != 2 || resolutions[0] != study.ResolutionStandard || resolutions[1] != study.ResolutionUltraHigh {
		t.Errorf("unexpected resolutions: %v", resolutions)
	}

	markers, err := cat.List(context.Background(), study.ResolutionUltraHigh)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(markers) != 2 {
		t.Fatalf("expected 2 uhr markers, got %d", len(markers))
	}
	// Ordered by key: ct_ffr before stenosis_severity.
	if markers[0].Key != "ct_ffr" || markers[1].Key != "stenosis_severity" {
		t.Errorf("markers out of order: %v, %v", markers[0].Key, markers[1].Key)
	}

	marker, err := cat.Get(context.Background(), study.ResolutionStandard, core.BiomarkerKey("stenosis_severity"))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if marker.Variability.BiologicalSD != 11.6 || marker.Variability.InterSystemSD != 2.4 {
		t.Errorf("unexpected variability: %+v", marker.Variability)
	}
	if marker.PublishedTotalSD != 11.85 {
		t.Errorf("expected published total 11.85, got %v", marker.PublishedTotalSD)
	}
	if marker.Name != "Stenosis severity (%)" {
		t.Errorf("unexpected name: %q", marker.Name)
	}
}

func TestWorkbookCatalogFromXLSX(t *testing.T) {
	path := writeTempWorkbook(t, [][]interface{}{
		{"resolution", "key", "name", "biological_sd", "intersystem_sd", "total_sd", "source"},
		{"uhr", "minimal_lumen_area", "Minimal lumen area (mm²)", 1.89, 1.32, 2.30, "in-review"},
	})

	cat, err := OpenWorkbookCatalog(path)
	if err != nil {
		t.Fatalf("OpenWorkbookCatalog failed: %v", err)
	}

	marker, err := cat.Get(context.Background(), study.ResolutionUltraHigh, core.BiomarkerKey("minimal_lumen_area"))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if marker.Variability.BiologicalSD != 1.89 {
		t.Errorf("expected biological SD 1.89, got %v", marker.Variability.BiologicalSD)
	}
	want := math.Sqrt(1.89*1.89 + 1.32*1.32)
	if got := marker.Variability.TotalSD(); math.Abs(got-want) > 1e-12 {
		t.Errorf("expected total SD %v, got %v", want, got)
	}
}

func TestWorkbookCatalogUnknownLookups(t *testing.T) {
	cat, err := OpenWorkbookCatalog(writeTempCSV(t, catalogCSV))
	if err != nil {
		t.Fatalf("OpenWorkbookCatalog failed: %v", err)
	}

	if _, err := cat.Get(context.Background(), study.ResolutionUltraHigh, core.BiomarkerKey("plaque_burden")); !core.IsNotFound(err) {
		t.Errorf("expected not-found for unknown key, got %v", err)
	}
	if _, err := cat.List(context.Background(), study.Resolution("photon")); !core.IsNotFound(err) {
		t.Errorf("expected not-found for unknown tier, got %v", err)
	}
}

func TestWorkbookCatalogRejectsMalformedSheets(t *testing.T) {
	cases := []struct {
		name string
		csv  string
	}{
		{"missing required column", "resolution,key,name,biological_sd\nstandard,x,X,1\n"},
		{"bad number", "resolution,key,name,biological_sd,intersystem_sd\nstandard,x,X,eleven,2\n"},
		{"negative sd", "resolution,key,name,biological_sd,intersystem_sd\nstandard,x,X,-1,2\n"},
		{"unknown resolution", "resolution,key,name,biological_sd,intersystem_sd\nmega,x,X,1,2\n"},
		{"empty key", "resolution,key,name,biological_sd,intersystem_sd\nstandard,,X,1,2\n"},
		{"duplicate marker", "resolution,key,name,biological_sd,intersystem_sd\nstandard,x,X,1,2\nstandard,x,X,1,2\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := OpenWorkbookCatalog(writeTempCSV(t, tc.csv))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !core.IsDataSource(err) {
				t.Errorf("expected a data source error, got %v", err)
			}
		})
	}
}

func TestWorkbookCatalogMissingFile(t *testing.T) {
	_, err := OpenWorkbookCatalog(filepath.Join(t.TempDir(), "absent.xlsx"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if !core.IsDataSource(err) {
		t.Errorf("expected a data source error, got %v", err)
	}
}
