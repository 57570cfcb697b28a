package reports

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	mu      sync.Mutex
	missing map[string]MissingReport
	found   map[string]FoundReport
}

func newTestRepo() *testRepo {
	return &testRepo{
		missing: map[string]MissingReport{},
		found:   map[string]FoundReport{},
	}
}

func (r *testRepo) CreateMissing(ctx context.Context, m MissingReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.missing[m.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.missing[m.ID] = m
	return nil
}

func (r *testRepo) GetMissingByID(ctx context.Context, id string) (MissingReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.missing[id]
	if !ok {
		return MissingReport{}, errRepoNotFound
	}
	return m, nil
}

func (r *testRepo) ListMissing(ctx context.Context, q ListQuery) ([]MissingReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]MissingReport, 0)
	for _, m := range r.missing {
		if q.OnlyOpen && m.Status != StatusOpen {
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

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *testRepo) Resolve(ctx context.Context, id string, resolvedBy *string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolveLocked(id, resolvedBy, at)
}

func (r *testRepo) Accept(ctx context.Context, missingID, foundID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.found[foundID]
	if !ok {
		return errRepoNotFound
	}
	if err := r.resolveLocked(missingID, &foundID, at); err != nil {
		return err
	}
	f.Review = ReviewAccepted
	r.found[foundID] = f
	return nil
}

func (r *testRepo) resolveLocked(id string, resolvedBy *string, at time.Time) error {
	m, ok := r.missing[id]
	if !ok {
		return errRepoNotFound
	}
	if m.Status != StatusOpen {
		return ErrReportClosed
	}
	m.Status = StatusResolved
	m.ResolvedByFoundReportID = resolvedBy
	m.ResolvedAt = &at
	m.UpdatedAt = at
	r.missing[id] = m
	return nil
}

func (r *testRepo) CreateFound(ctx context.Context, f FoundReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.found[f.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.found[f.ID] = f
	return nil
}

func (r *testRepo) GetFoundByID(ctx context.Context, id string) (FoundReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.found[id]
	if !ok {
		return FoundReport{}, errRepoNotFound
	}
	return f, nil
}

func (r *testRepo) ListFoundByMissing(ctx context.Context, missingID string) ([]FoundReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]FoundReport, 0)
	for _, f := range r.found {
		if f.MissingReportID == missingID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *testRepo) SetFoundReview(ctx context.Context, id string, review Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.found[id]
	if !ok {
		return errRepoNotFound
	}
	f.Review = review
	r.found[id] = f
	return nil
}

// fakePets resuelve pet -> owner sin levantar el módulo pets.
type fakePets struct {
	owners map[string]string
}

func (f *fakePets) OwnerOf(ctx context.Context, petID string) (string, error) {
	owner, ok := f.owners[petID]
	if !ok {
		return "", errors.New("pet not found")
	}
	return owner, nil
}

func newTestService(owners map[string]string) (*Service, *testRepo) {
	repo := newTestRepo()
	svc := NewService(repo, &fakePets{owners: owners})
	return svc, repo
}

// -------------------------
// Tests
// -------------------------

func TestService_ReportMissing_RoundTripCoordinates(t *testing.T) {
	service, _ := newTestService(map[string]string{"pet-42": "owner-a"})

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	m, err := service.ReportMissing(context.Background(), "owner-a", ReportMissingInput{
		PetID:       "pet-42",
		Latitude:    -36.8270,
		Longitude:   -73.0498,
		Description: "gray cat, collar",
	})
	if err != nil {
		t.Fatalf("ReportMissing returned error: %v", err)
	}
	if m.Status != StatusOpen {
		t.Fatalf("expected status open, got %s", m.Status)
	}
	if m.CreatedAt != now {
		t.Fatalf("expected CreatedAt to be now")
	}

	got, err := service.GetByID(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.Latitude != -36.8270 || got.Longitude != -73.0498 {
		t.Fatalf("coordinates did not round-trip: got (%v, %v)", got.Latitude, got.Longitude)
	}
	if got.Description != "gray cat, collar" {
		t.Fatalf("unexpected description: %q", got.Description)
	}

	// recent() lo incluye de inmediato
	recent, err := service.Recent(context.Background(), nil)
	if err != nil {
		t.Fatalf("Recent error: %v", err)
	}
	if len(recent) != 1 || recent[0].PetID != "pet-42" {
		t.Fatalf("expected recent to include the new report, got %#v", recent)
	}
}

func TestService_ReportMissing_RejectsOutOfRangeCoordinates(t *testing.T) {
	cases := []struct {
		name     string
		lat, lng float64
	}{
		{"lat too low", -90.0001, 0},
		{"lat too high", 90.0001, 0},
		{"lng too low", 0, -180.0001},
		{"lng too high", 0, 180.0001},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service, repo := newTestService(map[string]string{"pet-1": "owner-a"})

			_, err := service.ReportMissing(context.Background(), "owner-a", ReportMissingInput{
				PetID:     "pet-1",
				Latitude:  tc.lat,
				Longitude: tc.lng,
			})
			if err != ErrInvalidCoordinate {
				t.Fatalf("expected ErrInvalidCoordinate, got %v", err)
			}
			if len(repo.missing) != 0 {
				t.Fatalf("expected nothing persisted, got %d records", len(repo.missing))
			}
		})
	}
}

func TestService_ReportMissing_BoundaryCoordinatesAreValid(t *testing.T) {
	service, _ := newTestService(map[string]string{"pet-1": "owner-a"})

	for _, c := range [][2]float64{{-90, -180}, {90, 180}, {0, 0}} {
		if _, err := service.ReportMissing(context.Background(), "owner-a", ReportMissingInput{
			PetID:     "pet-1",
			Latitude:  c[0],
			Longitude: c[1],
		}); err != nil {
			t.Fatalf("expected (%v,%v) to be valid, got %v", c[0], c[1], err)
		}
	}
}

func TestService_ReportMissing_RejectsForeignPet(t *testing.T) {
	service, repo := newTestService(map[string]string{"pet-1": "owner-b"})

	_, err := service.ReportMissing(context.Background(), "owner-a", ReportMissingInput{
		PetID:    "pet-1",
		Latitude: 1, Longitude: 1,
	})
	if err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for pet of another owner, got %v", err)
	}
	if len(repo.missing) != 0 {
		t.Fatalf("expected nothing persisted")
	}
}

func TestService_ReportMissing_UnknownPetIsNotFound(t *testing.T) {
	service, _ := newTestService(map[string]string{})

	_, err := service.ReportMissing(context.Background(), "owner-a", ReportMissingInput{
		PetID:    "nope",
		Latitude: 1, Longitude: 1,
	})
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_ReportMissing_PhotoAndDescriptionLimits(t *testing.T) {
	service, _ := newTestService(map[string]string{"pet-1": "owner-a"})

	_, err := service.ReportMissing(context.Background(), "owner-a", ReportMissingInput{
		PetID:    "pet-1",
		Latitude: 1, Longitude: 1,
		PhotoURLs: []string{"u1", "u2", "u3", "u4"},
	})
	if err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for 4 photos, got %v", err)
	}

	_, err = service.ReportMissing(context.Background(), "owner-a", ReportMissingInput{
		PetID:    "pet-1",
		Latitude: 1, Longitude: 1,
		Description: strings.Repeat("x", MaxDescriptionLen+1),
	})
	if err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for long description, got %v", err)
	}

	// 3 fotos con orden preservado; los strings vacíos se descartan
	m, err := service.ReportMissing(context.Background(), "owner-a", ReportMissingInput{
		PetID:    "pet-1",
		Latitude: 1, Longitude: 1,
		PhotoURLs: []string{"u1", "", "u2", "u3"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.PhotoURLs) != 3 || m.PhotoURLs[0] != "u1" || m.PhotoURLs[2] != "u3" {
		t.Fatalf("expected ordered photos [u1 u2 u3], got %#v", m.PhotoURLs)
	}
}

func seedOpenReport(t *testing.T, service *Service, owner, petID string) MissingReport {
	t.Helper()
	m, err := service.ReportMissing(context.Background(), owner, ReportMissingInput{
		PetID:    petID,
		Latitude: -36.8270, Longitude: -73.0498,
	})
	if err != nil {
		t.Fatalf("seed report error: %v", err)
	}
	return m
}

func TestService_ReportSighting_ForbiddenForReporter(t *testing.T) {
	service, _ := newTestService(map[string]string{"pet-1": "owner-a"})
	m := seedOpenReport(t, service, "owner-a", "pet-1")

	_, err := service.ReportSighting(context.Background(), "owner-a", m.ID, SightingInput{
		Latitude: 1, Longitude: 1,
	})
	if err != ErrForbidden {
		t.Fatalf("expected ErrForbidden for own report, got %v", err)
	}
}

func TestService_ReportSighting_RequiresOpenReport(t *testing.T) {
	service, _ := newTestService(map[string]string{"pet-1": "owner-a"})

	_, err := service.ReportSighting(context.Background(), "helper-b", "ghost", SightingInput{
		Latitude: 1, Longitude: 1,
	})
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for missing target, got %v", err)
	}

	m := seedOpenReport(t, service, "owner-a", "pet-1")
	if _, err := service.MarkFound(context.Background(), "owner-a", m.ID); err != nil {
		t.Fatalf("MarkFound error: %v", err)
	}

	_, err = service.ReportSighting(context.Background(), "helper-b", m.ID, SightingInput{
		Latitude: 1, Longitude: 1,
	})
	if err != ErrBadState {
		t.Fatalf("expected ErrBadState for resolved target, got %v", err)
	}
}

func TestService_ReportSighting_KeepsOwnCoordinates(t *testing.T) {
	service, _ := newTestService(map[string]string{"pet-1": "owner-a"})
	m := seedOpenReport(t, service, "owner-a", "pet-1")

	f, err := service.ReportSighting(context.Background(), "helper-b", m.ID, SightingInput{
		Latitude: -36.8301, Longitude: -73.0455,
	})
	if err != nil {
		t.Fatalf("ReportSighting error: %v", err)
	}
	if f.Latitude != -36.8301 || f.Longitude != -73.0455 {
		t.Fatalf("sighting coordinates altered: (%v, %v)", f.Latitude, f.Longitude)
	}
	if f.Review != ReviewPending {
		t.Fatalf("expected pending review, got %s", f.Review)
	}
}

func TestService_MarkFound_IdempotentForOwner(t *testing.T) {
	service, _ := newTestService(map[string]string{"pet-1": "owner-a"})

	now1 := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	now2 := now1.Add(10 * time.Minute)
	service.now = func() time.Time { return now1 }

	m := seedOpenReport(t, service, "owner-a", "pet-1")

	service.now = func() time.Time { return now2 }
	r1, err := service.MarkFound(context.Background(), "owner-a", m.ID)
	if err != nil {
		t.Fatalf("MarkFound #1 error: %v", err)
	}
	if r1.Status != StatusResolved || r1.ResolvedAt == nil || !r1.ResolvedAt.Equal(now2) {
		t.Fatalf("expected resolved at now2, got %#v", r1)
	}

	// Segunda llamada: no-op, sin mover el resolved_at
	service.now = func() time.Time { return now2.Add(time.Hour) }
	r2, err := service.MarkFound(context.Background(), "owner-a", m.ID)
	if err != nil {
		t.Fatalf("MarkFound #2 error: %v", err)
	}
	if r2.Status != StatusResolved {
		t.Fatalf("expected resolved, got %s", r2.Status)
	}
	if r2.ResolvedAt == nil || !r2.ResolvedAt.Equal(now2) {
		t.Fatalf("expected ResolvedAt unchanged on idempotent call")
	}
}

func TestService_MarkFound_ForbiddenForNonOwner(t *testing.T) {
	service, _ := newTestService(map[string]string{"pet-1": "owner-a"})
	m := seedOpenReport(t, service, "owner-a", "pet-1")

	_, err := service.MarkFound(context.Background(), "intruder", m.ID)
	if err != ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	got, _ := service.GetByID(context.Background(), m.ID)
	if got.Status != StatusOpen {
		t.Fatalf("status must be unchanged after forbidden attempt, got %s", got.Status)
	}
}

func TestService_AcceptSighting_ResolvesAndLinks(t *testing.T) {
	service, _ := newTestService(map[string]string{"pet-1": "owner-a"})
	m := seedOpenReport(t, service, "owner-a", "pet-1")

	f, err := service.ReportSighting(context.Background(), "helper-b", m.ID, SightingInput{
		Latitude: -36.8301, Longitude: -73.0455,
	})
	if err != nil {
		t.Fatalf("ReportSighting error: %v", err)
	}

	resolved, err := service.AcceptSighting(context.Background(), "owner-a", f.ID)
	if err != nil {
		t.Fatalf("AcceptSighting error: %v", err)
	}
	if resolved.Status != StatusResolved {
		t.Fatalf("expected resolved, got %s", resolved.Status)
	}
	if resolved.ResolvedByFoundReportID == nil || *resolved.ResolvedByFoundReportID != f.ID {
		t.Fatalf("expected resolving sighting link to %s, got %#v", f.ID, resolved.ResolvedByFoundReportID)
	}

	// el avistamiento queda accepted
	sightings, err := service.Sightings(context.Background(), "owner-a", m.ID)
	if err != nil {
		t.Fatalf("Sightings error: %v", err)
	}
	if len(sightings) != 1 || sightings[0].Review != ReviewAccepted {
		t.Fatalf("expected one accepted sighting, got %#v", sightings)
	}

	// recent ya no lo incluye; mine sí, con status resolved
	recent, _ := service.Recent(context.Background(), nil)
	if len(recent) != 0 {
		t.Fatalf("expected recent to exclude resolved report")
	}
	mine, _ := service.Mine(context.Background(), "owner-a")
	if len(mine) != 1 || mine[0].Status != StatusResolved {
		t.Fatalf("expected mine to keep the resolved report, got %#v", mine)
	}
}

func TestService_AcceptSighting_ForbiddenForNonOwner(t *testing.T) {
	service, _ := newTestService(map[string]string{"pet-1": "owner-a"})
	m := seedOpenReport(t, service, "owner-a", "pet-1")

	f, _ := service.ReportSighting(context.Background(), "helper-b", m.ID, SightingInput{
		Latitude: 1, Longitude: 1,
	})

	if _, err := service.AcceptSighting(context.Background(), "helper-b", f.ID); err != ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestService_RejectSighting_KeepsReportOpen(t *testing.T) {
	service, _ := newTestService(map[string]string{"pet-1": "owner-a"})
	m := seedOpenReport(t, service, "owner-a", "pet-1")

	f, _ := service.ReportSighting(context.Background(), "helper-c", m.ID, SightingInput{
		Latitude: 1, Longitude: 1,
	})

	rejected, err := service.RejectSighting(context.Background(), "owner-a", f.ID)
	if err != nil {
		t.Fatalf("RejectSighting error: %v", err)
	}
	if rejected.Review != ReviewRejected {
		t.Fatalf("expected rejected review, got %s", rejected.Review)
	}

	got, _ := service.GetByID(context.Background(), m.ID)
	if got.Status != StatusOpen {
		t.Fatalf("reject must not change report status, got %s", got.Status)
	}

	// idempotente
	if _, err := service.RejectSighting(context.Background(), "owner-a", f.ID); err != nil {
		t.Fatalf("RejectSighting #2 error: %v", err)
	}

	// el registro sigue existiendo (auditoría)
	sightings, _ := service.Sightings(context.Background(), "owner-a", m.ID)
	if len(sightings) != 1 {
		t.Fatalf("rejected sighting must be retained, got %d", len(sightings))
	}
}

func TestService_RejectAfterAccept_IsBadState(t *testing.T) {
	service, _ := newTestService(map[string]string{"pet-1": "owner-a"})
	m := seedOpenReport(t, service, "owner-a", "pet-1")

	f, _ := service.ReportSighting(context.Background(), "helper-b", m.ID, SightingInput{Latitude: 1, Longitude: 1})
	if _, err := service.AcceptSighting(context.Background(), "owner-a", f.ID); err != nil {
		t.Fatalf("AcceptSighting error: %v", err)
	}

	if _, err := service.RejectSighting(context.Background(), "owner-a", f.ID); err != ErrBadState {
		t.Fatalf("expected ErrBadState rejecting an accepted sighting, got %v", err)
	}
}

func TestService_AcceptSighting_ConcurrentSingleWinner(t *testing.T) {
	service, _ := newTestService(map[string]string{"pet-1": "owner-a"})
	m := seedOpenReport(t, service, "owner-a", "pet-1")

	f1, _ := service.ReportSighting(context.Background(), "helper-b", m.ID, SightingInput{Latitude: 1, Longitude: 1})
	f2, _ := service.ReportSighting(context.Background(), "helper-c", m.ID, SightingInput{Latitude: 2, Longitude: 2})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, fid := range []string{f1.ID, f2.ID} {
		wg.Add(1)
		go func(i int, fid string) {
			defer wg.Done()
			_, errs[i] = service.AcceptSighting(context.Background(), "owner-a", fid)
		}(i, fid)
	}
	wg.Wait()

	// Ambas llamadas terminan bien: la perdedora observa "ya resuelto".
	for i, err := range errs {
		if err != nil {
			t.Fatalf("accept #%d returned error: %v", i, err)
		}
	}

	got, _ := service.GetByID(context.Background(), m.ID)
	if got.Status != StatusResolved {
		t.Fatalf("expected resolved, got %s", got.Status)
	}
	if got.ResolvedByFoundReportID == nil {
		t.Fatalf("expected a resolving sighting link")
	}
	winner := *got.ResolvedByFoundReportID
	if winner != f1.ID && winner != f2.ID {
		t.Fatalf("unexpected winner %s", winner)
	}

	// exactamente un accepted
	sightings, _ := service.Sightings(context.Background(), "owner-a", m.ID)
	accepted := 0
	for _, f := range sightings {
		if f.Review == ReviewAccepted {
			accepted++
			if f.ID != winner {
				t.Fatalf("accepted sighting %s does not match link %s", f.ID, winner)
			}
		}
	}
	if accepted != 1 {
		t.Fatalf("expected exactly one accepted sighting, got %d", accepted)
	}
}

func TestService_Queries_RecentWindowAndMine(t *testing.T) {
	service, _ := newTestService(map[string]string{
		"pet-old": "owner-a",
		"pet-new": "owner-a",
		"pet-b":   "owner-b",
	})

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	service.now = func() time.Time { return base.Add(-31 * 24 * time.Hour) }
	old := seedOpenReport(t, service, "owner-a", "pet-old")

	service.now = func() time.Time { return base.Add(-2 * 24 * time.Hour) }
	fresh := seedOpenReport(t, service, "owner-a", "pet-new")
	other := seedOpenReport(t, service, "owner-b", "pet-b")

	service.now = func() time.Time { return base }

	recent, err := service.Recent(context.Background(), nil)
	if err != nil {
		t.Fatalf("Recent error: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 recent reports, got %d", len(recent))
	}
	for _, m := range recent {
		if m.ID == old.ID {
			t.Fatalf("recent must exclude reports older than 30 days")
		}
	}

	all, err := service.All(context.Background(), nil)
	if err != nil {
		t.Fatalf("All error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected all 3 open reports, got %d", len(all))
	}
	// más nuevos primero
	if all[len(all)-1].ID != old.ID {
		t.Fatalf("expected oldest report last, got %#v", all)
	}

	mine, err := service.Mine(context.Background(), "owner-a")
	if err != nil {
		t.Fatalf("Mine error: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected owner-a to have 2 reports, got %d", len(mine))
	}
	for _, m := range mine {
		if m.ID == other.ID {
			t.Fatalf("mine must exclude other users' reports")
		}
	}
	_ = fresh
}

// La caja que cubre toda la Tierra no puede alterar resultados: el bounding
// box es solo un pre-filtro, nunca semántica nueva.
func TestService_List_WholeEarthBoundsIsNoop(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	service, _ := newTestService(map[string]string{"pet-1": "owner-a"})

	for i := 0; i < 40; i++ {
		lat := rng.Float64()*180 - 90
		lng := rng.Float64()*360 - 180
		m, err := service.ReportMissing(context.Background(), "owner-a", ReportMissingInput{
			PetID:    "pet-1",
			Latitude: lat, Longitude: lng,
			Description: fmt.Sprintf("caso %d", i),
		})
		if err != nil {
			t.Fatalf("seed %d error: %v", i, err)
		}
		if i%3 == 0 {
			if _, err := service.MarkFound(context.Background(), "owner-a", m.ID); err != nil {
				t.Fatalf("resolve %d error: %v", i, err)
			}
		}
	}

	earth := &BoundingBox{MinLat: -90, MaxLat: 90, MinLng: -180, MaxLng: 180}

	plain, err := service.All(context.Background(), nil)
	if err != nil {
		t.Fatalf("All error: %v", err)
	}
	boxed, err := service.All(context.Background(), earth)
	if err != nil {
		t.Fatalf("All with bounds error: %v", err)
	}

	if len(plain) != len(boxed) {
		t.Fatalf("whole-earth box changed result size: %d vs %d", len(plain), len(boxed))
	}
	for i := range plain {
		if plain[i].ID != boxed[i].ID {
			t.Fatalf("whole-earth box changed result order/content at %d", i)
		}
	}
}

func TestService_Sightings_OnlyForReporter(t *testing.T) {
	service, _ := newTestService(map[string]string{"pet-1": "owner-a"})
	m := seedOpenReport(t, service, "owner-a", "pet-1")

	if _, err := service.Sightings(context.Background(), "helper-b", m.ID); err != ErrForbidden {
		t.Fatalf("expected ErrForbidden for non-reporter, got %v", err)
	}
}
