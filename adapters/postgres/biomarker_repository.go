package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"gopower/domain/core"
	"gopower/domain/study"
	apperrors "gopower/internal/errors"
	"gopower/ports"
)

// biomarkerRow mirrors one row of the biomarkers table
type biomarkerRow struct {
	Resolution       string          `db:"resolution"`
	Key              string          `db:"key"`
	Name             string          `db:"name"`
	BiologicalSD     float64         `db:"biological_sd"`
	InterSystemSD    float64         `db:"intersystem_sd"`
	PublishedTotalSD sql.NullFloat64 `db:"published_total_sd"`
	Source           sql.NullString  `db:"source"`
}

func (r biomarkerRow) toDomain() study.Biomarker {
	return study.Biomarker{
		Key:        core.BiomarkerKey(r.Key),
		Name:       r.Name,
		Resolution: study.Resolution(r.Resolution),
		Variability: study.VariabilityModel{
			BiologicalSD:  r.BiologicalSD,
			InterSystemSD: r.InterSystemSD,
		},
		PublishedTotalSD: r.PublishedTotalSD.Float64,
		Source:           r.Source.String,
	}
}

const biomarkerColumns = `resolution, key, name, biological_sd, intersystem_sd, published_total_sd, source`

// BiomarkerRepository implements the biomarker catalog over PostgreSQL.
type BiomarkerRepository struct {
	db *sqlx.DB
}

// NewBiomarkerRepository creates a new PostgreSQL biomarker catalog
func NewBiomarkerRepository(db *sqlx.DB) *BiomarkerRepository {
	return &BiomarkerRepository{db: db}
}

// Resolutions lists the tiers present in the table
func (r *BiomarkerRepository) Resolutions(ctx context.Context) ([]study.Resolution, error) {
	var raw []string
	err := r.db.SelectContext(ctx, &raw, `
		SELECT DISTINCT resolution FROM biomarkers ORDER BY resolution
	`)
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeDatabaseError, fmt.Errorf("failed to list resolutions: %w", err))
	}

	resolutions := make([]study.Resolution, len(raw))
	for i, s := range raw {
		resolutions[i] = study.Resolution(s)
	}
	return resolutions, nil
}

// List returns every marker of one tier, ordered by key
func (r *BiomarkerRepository) List(ctx context.Context, res study.Resolution) ([]study.Biomarker, error) {
	var rows []biomarkerRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+biomarkerColumns+`
		FROM biomarkers
		WHERE resolution = $1
		ORDER BY key
	`, string(res))
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeDatabaseError, fmt.Errorf("failed to list biomarkers: %w", err))
	}
	if len(rows) == 0 {
		// An unseeded tier and an unknown one look the same from here.
		return nil, core.NewNotFoundError("resolution", string(res))
	}

	markers := make([]study.Biomarker, len(rows))
	for i, row := range rows {
		markers[i] = row.toDomain()
	}
	return markers, nil
}

// Get returns a single marker or a not-found error
func (r *BiomarkerRepository) Get(ctx context.Context, res study.Resolution, key core.BiomarkerKey) (*study.Biomarker, error) {
	var row biomarkerRow
	err := r.db.GetContext(ctx, &row, `
		SELECT `+biomarkerColumns+`
		FROM biomarkers
		WHERE resolution = $1 AND key = $2
	`, string(res), string(key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w %q in %s tier", core.ErrBiomarkerNotFound, key, res)
	}
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeDatabaseError, fmt.Errorf("failed to get biomarker: %w", err))
	}

	marker := row.toDomain()
	return &marker, nil
}

// Seed inserts catalog entries, leaving existing (resolution, key) rows
// untouched so reseeding never disturbs curated values. Returns the number
// of rows actually inserted.
func (r *BiomarkerRepository) Seed(ctx context.Context, markers []study.Biomarker) (int64, error) {
	var inserted int64
	for _, marker := range markers {
		result, err := r.db.ExecContext(ctx, `
			INSERT INTO biomarkers (resolution, key, name, biological_sd, intersystem_sd, published_total_sd, source)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (resolution, key) DO NOTHING
		`,
			string(marker.Resolution), string(marker.Key), marker.Name,
			marker.Variability.BiologicalSD, marker.Variability.InterSystemSD,
			nullFloat(marker.PublishedTotalSD), nullString(marker.Source),
		)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) {
				return inserted, apperrors.WithCode(apperrors.CodeDatabaseError,
					fmt.Errorf("failed to seed %s/%s (%s): %w", marker.Resolution, marker.Key, pqErr.Code.Name(), err))
			}
			return inserted, apperrors.WithCode(apperrors.CodeDatabaseError,
				fmt.Errorf("failed to seed %s/%s: %w", marker.Resolution, marker.Key, err))
		}

		n, err := result.RowsAffected()
		if err != nil {
			return inserted, apperrors.WithCode(apperrors.CodeDatabaseError, fmt.Errorf("failed to count seeded rows: %w", err))
		}
		inserted += n
	}
	return inserted, nil
}

func nullFloat(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: v != 0}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var _ ports.BiomarkerCatalog = (*BiomarkerRepository)(nil)
