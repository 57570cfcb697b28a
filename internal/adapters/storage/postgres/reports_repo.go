package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"pet-lost-and-found/internal/domain/reports"
)

// Tablas:
//
//	CREATE TABLE missing_reports (
//	    id                          text PRIMARY KEY,
//	    pet_id                      text NOT NULL,
//	    reporter_user_id            text NOT NULL,
//	    latitude                    double precision NOT NULL,
//	    longitude                   double precision NOT NULL,
//	    description                 text NOT NULL DEFAULT '',
//	    photo_urls                  jsonb NOT NULL DEFAULT '[]',
//	    status                      text NOT NULL,
//	    resolved_by_found_report_id text,
//	    resolved_at                 timestamptz,
//	    created_at                  timestamptz NOT NULL,
//	    updated_at                  timestamptz NOT NULL
//	);
//	CREATE INDEX missing_reports_open_recent ON missing_reports (status, created_at DESC);
//
//	CREATE TABLE found_reports (
//	    id                text PRIMARY KEY,
//	    missing_report_id text NOT NULL REFERENCES missing_reports (id),
//	    helper_user_id    text NOT NULL,
//	    latitude          double precision NOT NULL,
//	    longitude         double precision NOT NULL,
//	    description       text NOT NULL DEFAULT '',
//	    photo_urls        jsonb NOT NULL DEFAULT '[]',
//	    review            text NOT NULL,
//	    created_at        timestamptz NOT NULL
//	);
//	CREATE INDEX found_reports_by_missing ON found_reports (missing_report_id, created_at DESC);
//
// photo_urls va como jsonb para preservar el orden de la lista sin tabla hija.
type ReportsRepo struct {
	db *sql.DB
}

func NewReportsRepo(db *sql.DB) *ReportsRepo {
	return &ReportsRepo{db: db}
}

func (r *ReportsRepo) CreateMissing(ctx context.Context, m reports.MissingReport) error {
	photos, err := marshalPhotoURLs(m.PhotoURLs)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO missing_reports (
			id, pet_id, reporter_user_id,
			latitude, longitude,
			description, photo_urls,
			status, resolved_by_found_report_id, resolved_at,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		m.ID,
		m.PetID,
		m.ReporterUserID,
		m.Latitude,
		m.Longitude,
		m.Description,
		photos,
		string(m.Status),
		toNullString(m.ResolvedByFoundReportID),
		toNullTime(m.ResolvedAt),
		m.CreatedAt,
		m.UpdatedAt,
	)
	return err
}

func (r *ReportsRepo) GetMissingByID(ctx context.Context, id string) (reports.MissingReport, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return reports.MissingReport{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, pet_id, reporter_user_id,
			latitude, longitude,
			description, photo_urls,
			status, resolved_by_found_report_id, resolved_at,
			created_at, updated_at
		FROM missing_reports
		WHERE id = $1
	`, id)

	m, err := scanMissing(row.Scan)
	if err == sql.ErrNoRows {
		return reports.MissingReport{}, ErrNotFound
	}
	return m, err
}

func (r *ReportsRepo) ListMissing(ctx context.Context, q reports.ListQuery) ([]reports.MissingReport, error) {
	sb := strings.Builder{}
	sb.WriteString(`
		SELECT
			id, pet_id, reporter_user_id,
			latitude, longitude,
			description, photo_urls,
			status, resolved_by_found_report_id, resolved_at,
			created_at, updated_at
		FROM missing_reports
		WHERE 1=1
	`)

	args := []any{}
	argN := 1

	if q.OnlyOpen {
		sb.WriteString(fmt.Sprintf(" AND status = $%d", argN))
		args = append(args, string(reports.StatusOpen))
		argN++
	}
	if q.ReporterUserID != "" {
		sb.WriteString(fmt.Sprintf(" AND reporter_user_id = $%d", argN))
		args = append(args, q.ReporterUserID)
		argN++
	}
	if q.CreatedAfter != nil {
		sb.WriteString(fmt.Sprintf(" AND created_at >= $%d", argN))
		args = append(args, *q.CreatedAfter)
		argN++
	}
	if q.Bounds != nil {
		sb.WriteString(fmt.Sprintf(" AND latitude BETWEEN $%d AND $%d", argN, argN+1))
		args = append(args, q.Bounds.MinLat, q.Bounds.MaxLat)
		argN += 2
		sb.WriteString(fmt.Sprintf(" AND longitude BETWEEN $%d AND $%d", argN, argN+1))
		args = append(args, q.Bounds.MinLng, q.Bounds.MaxLng)
		argN += 2
	}

	sb.WriteString(" ORDER BY created_at DESC, id ASC")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]reports.MissingReport, 0)
	for rows.Next() {
		m, err := scanMissing(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}

	return out, rows.Err()
}

// Resolve hace la transición open -> resolved como update condicional:
// si otra resolución llegó primero, afecta cero filas y devolvemos
// reports.ErrReportClosed para que el servicio decida.
func (r *ReportsRepo) Resolve(ctx context.Context, id string, resolvedBy *string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE missing_reports
		SET
			status = $2,
			resolved_by_found_report_id = $3,
			resolved_at = $4,
			updated_at = $4
		WHERE id = $1 AND status = $5
	`,
		id,
		string(reports.StatusResolved),
		toNullString(resolvedBy),
		at,
		string(reports.StatusOpen),
	)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return reports.ErrReportClosed
	}
	return nil
}

// Accept resuelve el reporte y marca el avistamiento aceptado en una sola
// transacción: nunca queda un resolved sin su avistamiento registrado.
func (r *ReportsRepo) Accept(ctx context.Context, missingID, foundID string, at time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE missing_reports
		SET
			status = $2,
			resolved_by_found_report_id = $3,
			resolved_at = $4,
			updated_at = $4
		WHERE id = $1 AND status = $5
	`,
		missingID,
		string(reports.StatusResolved),
		foundID,
		at,
		string(reports.StatusOpen),
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return reports.ErrReportClosed
	}

	res, err = tx.ExecContext(ctx, `
		UPDATE found_reports
		SET review = $2
		WHERE id = $1
	`, foundID, string(reports.ReviewAccepted))
	if err != nil {
		return err
	}
	n, _ = res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

func (r *ReportsRepo) CreateFound(ctx context.Context, f reports.FoundReport) error {
	photos, err := marshalPhotoURLs(f.PhotoURLs)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO found_reports (
			id, missing_report_id, helper_user_id,
			latitude, longitude,
			description, photo_urls,
			review, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		f.ID,
		f.MissingReportID,
		f.HelperUserID,
		f.Latitude,
		f.Longitude,
		f.Description,
		photos,
		string(f.Review),
		f.CreatedAt,
	)
	return err
}

func (r *ReportsRepo) GetFoundByID(ctx context.Context, id string) (reports.FoundReport, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return reports.FoundReport{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, missing_report_id, helper_user_id,
			latitude, longitude,
			description, photo_urls,
			review, created_at
		FROM found_reports
		WHERE id = $1
	`, id)

	f, err := scanFound(row.Scan)
	if err == sql.ErrNoRows {
		return reports.FoundReport{}, ErrNotFound
	}
	return f, err
}

func (r *ReportsRepo) ListFoundByMissing(ctx context.Context, missingID string) ([]reports.FoundReport, error) {
	missingID = strings.TrimSpace(missingID)
	if missingID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, missing_report_id, helper_user_id,
			latitude, longitude,
			description, photo_urls,
			review, created_at
		FROM found_reports
		WHERE missing_report_id = $1
		ORDER BY created_at DESC, id ASC
	`, missingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]reports.FoundReport, 0)
	for rows.Next() {
		f, err := scanFound(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}

	return out, rows.Err()
}

func (r *ReportsRepo) SetFoundReview(ctx context.Context, id string, review reports.Review) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE found_reports
		SET review = $2
		WHERE id = $1
	`, id, string(review))
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// -------------------------
// Scan helpers
// -------------------------

func scanMissing(scan func(dest ...any) error) (reports.MissingReport, error) {
	var m reports.MissingReport
	var photos []byte
	var status string
	var resolvedBy sql.NullString
	var resolvedAt sql.NullTime

	if err := scan(
		&m.ID,
		&m.PetID,
		&m.ReporterUserID,
		&m.Latitude,
		&m.Longitude,
		&m.Description,
		&photos,
		&status,
		&resolvedBy,
		&resolvedAt,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return reports.MissingReport{}, err
	}

	m.Status = reports.Status(status)
	if resolvedBy.Valid {
		s := resolvedBy.String
		m.ResolvedByFoundReportID = &s
	}
	if resolvedAt.Valid {
		t := resolvedAt.Time
		m.ResolvedAt = &t
	}

	urls, err := unmarshalPhotoURLs(photos)
	if err != nil {
		return reports.MissingReport{}, err
	}
	m.PhotoURLs = urls

	return m, nil
}

func scanFound(scan func(dest ...any) error) (reports.FoundReport, error) {
	var f reports.FoundReport
	var photos []byte
	var review string

	if err := scan(
		&f.ID,
		&f.MissingReportID,
		&f.HelperUserID,
		&f.Latitude,
		&f.Longitude,
		&f.Description,
		&photos,
		&review,
		&f.CreatedAt,
	); err != nil {
		return reports.FoundReport{}, err
	}

	f.Review = reports.Review(review)

	urls, err := unmarshalPhotoURLs(photos)
	if err != nil {
		return reports.FoundReport{}, err
	}
	f.PhotoURLs = urls

	return f, nil
}

func marshalPhotoURLs(urls []string) ([]byte, error) {
	if urls == nil {
		urls = []string{}
	}
	return json.Marshal(urls)
}

func unmarshalPhotoURLs(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return []string{}, nil
	}
	var urls []string
	if err := json.Unmarshal(raw, &urls); err != nil {
		return nil, err
	}
	return urls, nil
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
