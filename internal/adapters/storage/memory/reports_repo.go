package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"pet-lost-and-found/internal/domain/reports"
)

type reportsRepo struct {
	mu      sync.RWMutex
	missing map[string]reports.MissingReport
	found   map[string]reports.FoundReport
}

func NewReportsRepo() reports.Repository {
	return &reportsRepo{
		missing: make(map[string]reports.MissingReport),
		found:   make(map[string]reports.FoundReport),
	}
}

func (r *reportsRepo) CreateMissing(ctx context.Context, m reports.MissingReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(m.ID) == "" {
		return errors.New("report id required")
	}
	if _, exists := r.missing[m.ID]; exists {
		return errors.New("report already exists")
	}
	r.missing[m.ID] = m
	return nil
}

func (r *reportsRepo) GetMissingByID(ctx context.Context, id string) (reports.MissingReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.missing[id]
	if !ok {
		return reports.MissingReport{}, ErrNotFound
	}
	return m, nil
}

func (r *reportsRepo) ListMissing(ctx context.Context, q reports.ListQuery) ([]reports.MissingReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]reports.MissingReport, 0)
	for _, m := range r.missing {
		if q.OnlyOpen && m.Status != reports.StatusOpen {
			continue
		}
		if q.ReporterUserID != "" && m.ReporterUserID != q.ReporterUserID {
			continue
		}
		if q.CreatedAfter != nil && m.CreatedAt.Before(*q.CreatedAfter) {
			continue
		}
		if q.Bounds != nil && !q.Bounds.Contains(m.Latitude, m.Longitude) {
			continue
		}
		out = append(out, m)
	}

	// Más nuevos primero; desempate por ID para orden estable.
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

// Resolve es el compare-and-swap: solo transiciona si el estado sigue open.
// El mutex del repo cumple acá el rol del UPDATE condicional en Postgres.
func (r *reportsRepo) Resolve(ctx context.Context, id string, resolvedBy *string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.resolveLocked(id, resolvedBy, at)
}

func (r *reportsRepo) Accept(ctx context.Context, missingID, foundID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.found[foundID]
	if !ok {
		return ErrNotFound
	}

	if err := r.resolveLocked(missingID, &foundID, at); err != nil {
		return err
	}

	f.Review = reports.ReviewAccepted
	r.found[foundID] = f
	return nil
}

func (r *reportsRepo) resolveLocked(id string, resolvedBy *string, at time.Time) error {
	m, ok := r.missing[id]
	if !ok {
		return ErrNotFound
	}
	if m.Status != reports.StatusOpen {
		return reports.ErrReportClosed
	}

	m.Status = reports.StatusResolved
	m.ResolvedByFoundReportID = resolvedBy
	m.ResolvedAt = &at
	m.UpdatedAt = at
	r.missing[id] = m
	return nil
}

func (r *reportsRepo) CreateFound(ctx context.Context, f reports.FoundReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(f.ID) == "" {
		return errors.New("sighting id required")
	}
	if _, exists := r.found[f.ID]; exists {
		return errors.New("sighting already exists")
	}
	r.found[f.ID] = f
	return nil
}

func (r *reportsRepo) GetFoundByID(ctx context.Context, id string) (reports.FoundReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.found[id]
	if !ok {
		return reports.FoundReport{}, ErrNotFound
	}
	return f, nil
}

func (r *reportsRepo) ListFoundByMissing(ctx context.Context, missingID string) ([]reports.FoundReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]reports.FoundReport, 0)
	for _, f := range r.found {
		if f.MissingReportID == missingID {
			out = append(out, f)
		}
	}

	// Orden de display: más nuevos primero (sin orden causal entre helpers).
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

func (r *reportsRepo) SetFoundReview(ctx context.Context, id string, review reports.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.found[id]
	if !ok {
		return ErrNotFound
	}
	f.Review = review
	r.found[id] = f
	return nil
}
