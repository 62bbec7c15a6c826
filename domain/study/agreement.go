package study

// AgreementSummary describes how two systems' measurements of the same
// subjects agree, estimated from an intra-individual comparison. It is the
// raw-data counterpart of a catalog entry's published SD values.
type AgreementSummary struct {
	Pairs            int     `json:"pairs"`
	MeanBias         float64 `json:"mean_bias"`          // mean of per-subject differences (B - A)
	DiffSD           float64 `json:"diff_sd"`            // sample SD of per-subject differences
	BetweenSubjectSD float64 `json:"between_subject_sd"` // sample SD of per-subject means
	TotalSD          float64 `json:"total_sd"`
	LoALower         float64 `json:"loa_lower"` // lower 95% limit of agreement
	LoAUpper         float64 `json:"loa_upper"` // upper 95% limit of agreement
}

// Variability maps the summary onto the calculator's input model, with the
// between-subject spread as the biological term and the difference SD
// standing in for the inter-system term, as the paired formula assumes.
func (a AgreementSummary) Variability() VariabilityModel {
	return VariabilityModel{
		BiologicalSD:  a.BetweenSubjectSD,
		InterSystemSD: a.DiffSD,
	}
}
