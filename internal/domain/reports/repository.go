package reports

import (
	"context"
	"errors"
	"time"
)

// ErrReportClosed lo devuelven Resolve/Accept cuando el update condicional
// no afecta filas porque el reporte ya no está open. No es un error del
// adapter: el servicio decide si el resultado es benigno.
var ErrReportClosed = errors.New("report already closed")

type Repository interface {
	CreateMissing(ctx context.Context, m MissingReport) error
	GetMissingByID(ctx context.Context, id string) (MissingReport, error)
	ListMissing(ctx context.Context, q ListQuery) ([]MissingReport, error)

	// Resolve hace la transición open -> resolved con compare-and-swap
	// (solo si status sigue open). resolvedBy puede ser nil (encontrado directo).
	Resolve(ctx context.Context, id string, resolvedBy *string, at time.Time) error

	// Accept resuelve el reporte y marca el avistamiento como accepted
	// en una sola transacción.
	Accept(ctx context.Context, missingID, foundID string, at time.Time) error

	CreateFound(ctx context.Context, f FoundReport) error
	GetFoundByID(ctx context.Context, id string) (FoundReport, error)
	ListFoundByMissing(ctx context.Context, missingID string) ([]FoundReport, error)
	SetFoundReview(ctx context.Context, id string, review Review) error
}
