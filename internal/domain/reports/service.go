package reports

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrBadState          = errors.New("invalid state")
)

const (
	MaxPhotoURLs      = 3
	MaxDescriptionLen = 250

	// RecentWindow es la ventana fija de "reportes recientes".
	// Es política del producto, no un parámetro por request.
	RecentWindow = 30 * 24 * time.Hour
)

// PetResolver es lo mínimo que el servicio necesita del módulo pets:
// re-validar server-side que la mascota reportada pertenece al reporter.
type PetResolver interface {
	OwnerOf(ctx context.Context, petID string) (string, error)
}

type Service struct {
	repo Repository
	pets PetResolver
	now  func() time.Time
}

func NewService(repo Repository, pets PetResolver) *Service {
	return &Service{
		repo: repo,
		pets: pets,
		now:  time.Now,
	}
}

type ReportMissingInput struct {
	PetID       string
	Latitude    float64
	Longitude   float64
	Description string
	PhotoURLs   []string
}

// ReportMissing crea un reporte de mascota perdida a nombre del reporter.
// La mascota debe existir y pertenecerle; eso se valida acá aunque la UI
// ya filtre el picker a sus propias mascotas.
func (s *Service) ReportMissing(ctx context.Context, reporterUserID string, in ReportMissingInput) (MissingReport, error) {
	reporterUserID = strings.TrimSpace(reporterUserID)
	petID := strings.TrimSpace(in.PetID)

	if reporterUserID == "" || petID == "" {
		return MissingReport{}, ErrInvalidInput
	}
	if err := validateCoordinates(in.Latitude, in.Longitude); err != nil {
		return MissingReport{}, err
	}

	desc := strings.TrimSpace(in.Description)
	if len(desc) > MaxDescriptionLen {
		return MissingReport{}, ErrInvalidInput
	}

	photos, err := normalizePhotoURLs(in.PhotoURLs)
	if err != nil {
		return MissingReport{}, err
	}

	owner, err := s.pets.OwnerOf(ctx, petID)
	if err != nil {
		return MissingReport{}, ErrNotFound
	}
	if owner != reporterUserID {
		return MissingReport{}, ErrInvalidInput
	}

	now := s.now()
	m := MissingReport{
		ID:             uuid.NewString(),
		PetID:          petID,
		ReporterUserID: reporterUserID,
		Latitude:       in.Latitude,
		Longitude:      in.Longitude,
		Description:    desc,
		PhotoURLs:      photos,
		Status:         StatusOpen,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.CreateMissing(ctx, m); err != nil {
		return MissingReport{}, err
	}
	return m, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (MissingReport, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return MissingReport{}, ErrInvalidInput
	}
	m, err := s.repo.GetMissingByID(ctx, id)
	if err != nil {
		return MissingReport{}, ErrNotFound
	}
	return m, nil
}

type SightingInput struct {
	Latitude    float64
	Longitude   float64
	Description string
	PhotoURLs   []string
}

// ReportSighting registra que alguien vio la mascota de un reporte abierto.
// Varias personas pueden avistar la misma mascota; cada avistamiento es
// un insert independiente sin orden causal entre helpers.
func (s *Service) ReportSighting(ctx context.Context, helperUserID, missingReportID string, in SightingInput) (FoundReport, error) {
	helperUserID = strings.TrimSpace(helperUserID)
	missingReportID = strings.TrimSpace(missingReportID)

	if helperUserID == "" || missingReportID == "" {
		return FoundReport{}, ErrInvalidInput
	}
	if err := validateCoordinates(in.Latitude, in.Longitude); err != nil {
		return FoundReport{}, err
	}

	desc := strings.TrimSpace(in.Description)
	if len(desc) > MaxDescriptionLen {
		return FoundReport{}, ErrInvalidInput
	}

	photos, err := normalizePhotoURLs(in.PhotoURLs)
	if err != nil {
		return FoundReport{}, err
	}

	m, err := s.repo.GetMissingByID(ctx, missingReportID)
	if err != nil {
		return FoundReport{}, ErrNotFound
	}
	if !CanReportSighting(helperUserID, m) {
		return FoundReport{}, ErrForbidden
	}
	if m.Status != StatusOpen {
		return FoundReport{}, ErrBadState
	}

	f := FoundReport{
		ID:              uuid.NewString(),
		MissingReportID: m.ID,
		HelperUserID:    helperUserID,
		Latitude:        in.Latitude,
		Longitude:       in.Longitude,
		Description:     desc,
		PhotoURLs:       photos,
		Review:          ReviewPending,
		CreatedAt:       s.now(),
	}

	if err := s.repo.CreateFound(ctx, f); err != nil {
		return FoundReport{}, err
	}
	return f, nil
}

// MarkFound marca el reporte como resuelto por acción directa del dueño,
// sin avistamiento de por medio.
// Primero cargamos y comparamos dueño (403 vs 404 explícitos); la transición
// en sí es un update condicional por si otra resolución llegó antes.
func (s *Service) MarkFound(ctx context.Context, reporterUserID, reportID string) (MissingReport, error) {
	reporterUserID = strings.TrimSpace(reporterUserID)
	reportID = strings.TrimSpace(reportID)

	if reporterUserID == "" || reportID == "" {
		return MissingReport{}, ErrInvalidInput
	}

	m, err := s.repo.GetMissingByID(ctx, reportID)
	if err != nil {
		return MissingReport{}, ErrNotFound
	}
	if !CanResolve(reporterUserID, m) {
		return MissingReport{}, ErrForbidden
	}

	// Idempotente: marcar encontrado dos veces no es error.
	if m.Status == StatusResolved {
		return m, nil
	}
	if m.Status.Terminal() {
		return MissingReport{}, ErrBadState
	}

	now := s.now()
	if err := s.repo.Resolve(ctx, m.ID, nil, now); err != nil {
		if errors.Is(err, ErrReportClosed) {
			return s.afterLostRace(ctx, m.ID)
		}
		return MissingReport{}, err
	}

	return s.GetByID(ctx, m.ID)
}

// AcceptSighting: el dueño acepta un avistamiento como la resolución del caso.
// El cambio de estado del reporte y el review del avistamiento van en una
// sola transacción; si dos accept concurren, gana exactamente uno y el otro
// observa "ya resuelto" como resultado benigno.
func (s *Service) AcceptSighting(ctx context.Context, reporterUserID, foundReportID string) (MissingReport, error) {
	reporterUserID = strings.TrimSpace(reporterUserID)
	foundReportID = strings.TrimSpace(foundReportID)

	if reporterUserID == "" || foundReportID == "" {
		return MissingReport{}, ErrInvalidInput
	}

	f, err := s.repo.GetFoundByID(ctx, foundReportID)
	if err != nil {
		return MissingReport{}, ErrNotFound
	}
	m, err := s.repo.GetMissingByID(ctx, f.MissingReportID)
	if err != nil {
		return MissingReport{}, ErrNotFound
	}
	if !CanResolve(reporterUserID, m) {
		return MissingReport{}, ErrForbidden
	}

	if m.Status == StatusResolved {
		// Ya resuelto (por este avistamiento u otro): no es error.
		return m, nil
	}
	if m.Status.Terminal() {
		return MissingReport{}, ErrBadState
	}
	if f.Review == ReviewRejected {
		return MissingReport{}, ErrBadState
	}

	now := s.now()
	if err := s.repo.Accept(ctx, m.ID, f.ID, now); err != nil {
		if errors.Is(err, ErrReportClosed) {
			return s.afterLostRace(ctx, m.ID)
		}
		return MissingReport{}, err
	}

	return s.GetByID(ctx, m.ID)
}

// RejectSighting descarta un candidato sin tocar el estado del reporte.
// El avistamiento no se borra.
func (s *Service) RejectSighting(ctx context.Context, reporterUserID, foundReportID string) (FoundReport, error) {
	reporterUserID = strings.TrimSpace(reporterUserID)
	foundReportID = strings.TrimSpace(foundReportID)

	if reporterUserID == "" || foundReportID == "" {
		return FoundReport{}, ErrInvalidInput
	}

	f, err := s.repo.GetFoundByID(ctx, foundReportID)
	if err != nil {
		return FoundReport{}, ErrNotFound
	}
	m, err := s.repo.GetMissingByID(ctx, f.MissingReportID)
	if err != nil {
		return FoundReport{}, ErrNotFound
	}
	if !CanResolve(reporterUserID, m) {
		return FoundReport{}, ErrForbidden
	}

	// Idempotente
	if f.Review == ReviewRejected {
		return f, nil
	}
	if f.Review == ReviewAccepted {
		return FoundReport{}, ErrBadState
	}

	if err := s.repo.SetFoundReview(ctx, f.ID, ReviewRejected); err != nil {
		return FoundReport{}, err
	}
	f.Review = ReviewRejected
	return f, nil
}

// Recent devuelve los reportes abiertos de los últimos 30 días, más nuevos primero.
func (s *Service) Recent(ctx context.Context, bounds *BoundingBox) ([]MissingReport, error) {
	since := s.now().Add(-RecentWindow)
	return s.repo.ListMissing(ctx, ListQuery{
		OnlyOpen:     true,
		CreatedAfter: &since,
		Bounds:       bounds,
	})
}

// All devuelve todos los reportes abiertos sin límite de antigüedad.
func (s *Service) All(ctx context.Context, bounds *BoundingBox) ([]MissingReport, error) {
	return s.repo.ListMissing(ctx, ListQuery{
		OnlyOpen: true,
		Bounds:   bounds,
	})
}

// Mine devuelve el historial del usuario, en cualquier estado.
func (s *Service) Mine(ctx context.Context, userID string) ([]MissingReport, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListMissing(ctx, ListQuery{
		ReporterUserID: userID,
	})
}

// Sightings lista los avistamientos de un reporte, solo para su dueño
// (es su bandeja de revisión e incluye datos de contacto de los helpers).
func (s *Service) Sightings(ctx context.Context, reporterUserID, missingReportID string) ([]FoundReport, error) {
	reporterUserID = strings.TrimSpace(reporterUserID)
	missingReportID = strings.TrimSpace(missingReportID)

	if reporterUserID == "" || missingReportID == "" {
		return nil, ErrInvalidInput
	}

	m, err := s.repo.GetMissingByID(ctx, missingReportID)
	if err != nil {
		return nil, ErrNotFound
	}
	if !CanResolve(reporterUserID, m) {
		return nil, ErrForbidden
	}

	return s.repo.ListFoundByMissing(ctx, m.ID)
}

// afterLostRace se usa cuando el CAS no afectó filas: alguien cerró el
// reporte entre nuestra lectura y el update. Si quedó resolved, el
// resultado es benigno; cualquier otra cosa es estado inválido.
func (s *Service) afterLostRace(ctx context.Context, id string) (MissingReport, error) {
	fresh, err := s.repo.GetMissingByID(ctx, id)
	if err != nil {
		return MissingReport{}, ErrNotFound
	}
	if fresh.Status == StatusResolved {
		return fresh, nil
	}
	return MissingReport{}, ErrBadState
}

func validateCoordinates(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return ErrInvalidCoordinate
	}
	if lat < -90 || lat > 90 {
		return ErrInvalidCoordinate
	}
	if lng < -180 || lng > 180 {
		return ErrInvalidCoordinate
	}
	return nil
}

func normalizePhotoURLs(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	for _, raw := range in {
		u := strings.TrimSpace(raw)
		if u == "" {
			continue
		}
		out = append(out, u)
	}
	if len(out) > MaxPhotoURLs {
		return nil, ErrInvalidInput
	}
	return out, nil
}
