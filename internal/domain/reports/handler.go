package reports

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet-lost-and-found/internal/domain/pets"
	"pet-lost-and-found/internal/middleware"
	"pet-lost-and-found/internal/ports/directory"
	"pet-lost-and-found/internal/ports/uploads"

	"github.com/go-chi/chi/v5"
)

const maxUploadBytes = 8 << 20 // por archivo

var errUpstreamUpload = errors.New("upload failed")

func RegisterRoutes(r chi.Router, svc *Service, petsSvc *pets.Service, users directory.UserResolver, uploader uploads.Uploader) {
	r.Route("/reports", func(rr chi.Router) {
		rr.Get("/", listReportsHandler(svc, petsSvc, users))
		rr.Post("/", createReportHandler(svc, petsSvc, users, uploader))

		rr.Get("/{reportID}", getReportHandler(svc, petsSvc, users))

		// Marcar encontrado directo (solo el reporter)
		rr.Post("/{reportID}/resolve", resolveReportHandler(svc, petsSvc, users))

		// Avistamientos sobre un reporte
		rr.Post("/{reportID}/sightings", createSightingHandler(svc, users, uploader))
		rr.Get("/{reportID}/sightings", listSightingsHandler(svc, users))
	})

	// Revisión de un avistamiento por el dueño del reporte padre
	r.Post("/sightings/{sightingID}/accept", acceptSightingHandler(svc, petsSvc, users))
	r.Post("/sightings/{sightingID}/reject", rejectSightingHandler(svc, users))
}

// createReportRequest es el cuerpo JSON para crear un reporte de perdida.
// En multipart/form-data los mismos campos van como fields, y las fotos
// pueden ir como archivos `photos` (se suben al uploader) o como
// `photo_urls` ya hosteadas.
type createReportRequest struct {
	PetID       string   `json:"pet_id"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	Description string   `json:"description"`
	PhotoURLs   []string `json:"photo_urls"`
}

type createSightingRequest struct {
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	Description string   `json:"description"`
	PhotoURLs   []string `json:"photo_urls"`
}

type petSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Species  string `json:"species"`
	PhotoURL string `json:"photo_url,omitempty"`
}

type userSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Email     string `json:"email,omitempty"`
}

// reportResponse es el view model de un reporte para la UI del mapa:
// el registro más el join de display de mascota y reporter.
type reportResponse struct {
	ID             string     `json:"id"`
	PetID          string     `json:"pet_id"`
	ReporterUserID string     `json:"reporter_user_id"`
	Latitude       float64    `json:"latitude"`
	Longitude      float64    `json:"longitude"`
	Description    string     `json:"description"`
	PhotoURLs      []string   `json:"photo_urls"`
	Status         Status     `json:"status"`
	ResolvedByID   *string    `json:"resolved_by_sighting_id,omitempty"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`

	Pet      *petSummary  `json:"pet,omitempty"`
	Reporter *userSummary `json:"reporter,omitempty"`
}

type sightingResponse struct {
	ID              string    `json:"id"`
	MissingReportID string    `json:"missing_report_id"`
	HelperUserID    string    `json:"helper_user_id"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	Description     string    `json:"description"`
	PhotoURLs       []string  `json:"photo_urls"`
	Review          Review    `json:"review"`
	CreatedAt       time.Time `json:"created_at"`

	Helper *userSummary `json:"helper,omitempty"`
}

// listReportsHandler godoc
// @Summary Listar reportes de mascotas perdidas
// @Description Despacha según `mode`: recent (abiertos de los últimos 30 días), all (todos los abiertos), mine (historial propio en cualquier estado). Acepta un bounding box opcional (min_lat, max_lat, min_lng, max_lng) como pre-filtro para el mapa.
// @Tags reports
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param mode query string false "recent | all | mine (default recent)"
// @Success 200 {array} reportResponse
// @Failure 400 {string} string "mode o bounding box inválido"
// @Failure 401 {string} string "unauthorized"
// @Router /reports [get]
func listReportsHandler(svc *Service, petsSvc *pets.Service, users directory.UserResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		bounds, err := parseBounds(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		mode := Scope(strings.TrimSpace(r.URL.Query().Get("mode")))
		if mode == "" {
			mode = ScopeRecent
		}

		var items []MissingReport
		switch mode {
		case ScopeRecent:
			items, err = svc.Recent(r.Context(), bounds)
		case ScopeAll:
			items, err = svc.All(r.Context(), bounds)
		case ScopeMine:
			items, err = svc.Mine(r.Context(), claims.UserID)
		default:
			http.Error(w, "mode must be recent, all or mine", http.StatusBadRequest)
			return
		}
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]reportResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toReportResponse(r.Context(), m, petsSvc, users))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getReportHandler godoc
// @Summary Ver un reporte
// @Tags reports
// @Produce json
// @Param reportID path string true "ID del reporte"
// @Success 200 {object} reportResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "report not found"
// @Router /reports/{reportID} [get]
func getReportHandler(svc *Service, petsSvc *pets.Service, users directory.UserResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		m, err := svc.GetByID(r.Context(), chi.URLParam(r, "reportID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toReportResponse(r.Context(), m, petsSvc, users))
	}
}

// createReportHandler godoc
// @Summary Reportar mascota perdida
// @Description Crea un reporte a nombre del usuario autenticado. La mascota debe ser suya (se re-valida server-side). Acepta multipart/form-data (pet_id, latitude, longitude, description?, photo_urls y/o archivos photos) o application/json.
// @Tags reports
// @Accept mpfd
// @Produce json
// @Success 201 {object} reportResponse
// @Failure 400 {string} string "campos inválidos / coordenadas fuera de rango / más de 3 fotos"
// @Failure 401 {string} string "unauthorized"
// @Failure 502 {string} string "fallo el uploader de imágenes"
// @Router /reports [post]
func createReportHandler(svc *Service, petsSvc *pets.Service, users directory.UserResolver, uploader uploads.Uploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createReportRequest
		if isJSONRequest(r) {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
		} else {
			form, err := parseReportForm(r, uploader)
			if err != nil {
				writeFormError(w, err)
				return
			}
			req = createReportRequest{
				PetID:       r.FormValue("pet_id"),
				Latitude:    form.lat,
				Longitude:   form.lng,
				Description: form.description,
				PhotoURLs:   form.photoURLs,
			}
		}

		m, err := svc.ReportMissing(r.Context(), claims.UserID, ReportMissingInput{
			PetID:       req.PetID,
			Latitude:    req.Latitude,
			Longitude:   req.Longitude,
			Description: req.Description,
			PhotoURLs:   req.PhotoURLs,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toReportResponse(r.Context(), m, petsSvc, users))
	}
}

// createSightingHandler godoc
// @Summary Reportar avistamiento (found report)
// @Description Cualquier usuario autenticado que no sea el reporter puede registrar que vio la mascota de un reporte abierto. Las coordenadas son las del avistamiento.
// @Tags sightings
// @Accept mpfd
// @Produce json
// @Param reportID path string true "ID del reporte de perdida"
// @Success 201 {object} sightingResponse
// @Failure 400 {string} string "campos inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "el reporter no puede avistar su propio reporte"
// @Failure 404 {string} string "report not found"
// @Failure 409 {string} string "el reporte ya no está abierto"
// @Router /reports/{reportID}/sightings [post]
func createSightingHandler(svc *Service, users directory.UserResolver, uploader uploads.Uploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createSightingRequest
		if isJSONRequest(r) {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
		} else {
			form, err := parseReportForm(r, uploader)
			if err != nil {
				writeFormError(w, err)
				return
			}
			req = createSightingRequest{
				Latitude:    form.lat,
				Longitude:   form.lng,
				Description: form.description,
				PhotoURLs:   form.photoURLs,
			}
		}

		f, err := svc.ReportSighting(r.Context(), claims.UserID, chi.URLParam(r, "reportID"), SightingInput{
			Latitude:    req.Latitude,
			Longitude:   req.Longitude,
			Description: req.Description,
			PhotoURLs:   req.PhotoURLs,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toSightingResponse(r.Context(), f, users))
	}
}

// listSightingsHandler godoc
// @Summary Listar avistamientos de un reporte
// @Description Bandeja de revisión del dueño del reporte; incluye contacto de los helpers.
// @Tags sightings
// @Produce json
// @Param reportID path string true "ID del reporte de perdida"
// @Success 200 {array} sightingResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "report not found"
// @Router /reports/{reportID}/sightings [get]
func listSightingsHandler(svc *Service, users directory.UserResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.Sightings(r.Context(), claims.UserID, chi.URLParam(r, "reportID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}

		out := make([]sightingResponse, 0, len(items))
		for _, f := range items {
			out = append(out, toSightingResponse(r.Context(), f, users))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// resolveReportHandler godoc
// @Summary Marcar encontrado directo
// @Description El reporter cierra su propio caso sin avistamiento. Idempotente: repetirlo devuelve 200 con el mismo estado.
// @Tags reports
// @Produce json
// @Param reportID path string true "ID del reporte"
// @Success 200 {object} reportResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "no es tu reporte"
// @Failure 404 {string} string "report not found"
// @Router /reports/{reportID}/resolve [post]
func resolveReportHandler(svc *Service, petsSvc *pets.Service, users directory.UserResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		m, err := svc.MarkFound(r.Context(), claims.UserID, chi.URLParam(r, "reportID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toReportResponse(r.Context(), m, petsSvc, users))
	}
}

// acceptSightingHandler godoc
// @Summary Aceptar un avistamiento
// @Description El dueño del reporte padre acepta el avistamiento como resolución del caso. Si el reporte ya quedó resuelto por otra aceptación concurrente, devuelve 200 con el estado vigente.
// @Tags sightings
// @Produce json
// @Param sightingID path string true "ID del avistamiento"
// @Success 200 {object} reportResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "no es tu reporte"
// @Failure 404 {string} string "sighting not found"
// @Failure 409 {string} string "estado inválido"
// @Router /sightings/{sightingID}/accept [post]
func acceptSightingHandler(svc *Service, petsSvc *pets.Service, users directory.UserResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		m, err := svc.AcceptSighting(r.Context(), claims.UserID, chi.URLParam(r, "sightingID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toReportResponse(r.Context(), m, petsSvc, users))
	}
}

// rejectSightingHandler godoc
// @Summary Rechazar un avistamiento
// @Description Descarta el candidato sin cambiar el estado del reporte padre. El avistamiento queda registrado como rechazado.
// @Tags sightings
// @Produce json
// @Param sightingID path string true "ID del avistamiento"
// @Success 200 {object} sightingResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "no es tu reporte"
// @Failure 404 {string} string "sighting not found"
// @Failure 409 {string} string "ya fue aceptado"
// @Router /sightings/{sightingID}/reject [post]
func rejectSightingHandler(svc *Service, users directory.UserResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		f, err := svc.RejectSighting(r.Context(), claims.UserID, chi.URLParam(r, "sightingID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toSightingResponse(r.Context(), f, users))
	}
}

// -------------------------
// Helpers
// -------------------------

type reportForm struct {
	lat         float64
	lng         float64
	description string
	photoURLs   []string
}

type formError struct {
	msg    string
	status int
}

func (e *formError) Error() string { return e.msg }

// parseReportForm procesa multipart/form-data: coordenadas, descripción,
// photo_urls ya hosteadas y archivos `photos` que se suben al uploader.
// Los archivos se suben recién después de validar la cantidad total,
// para no dejar imágenes huérfanas por un 400 evitable.
func parseReportForm(r *http.Request, uploader uploads.Uploader) (reportForm, error) {
	if err := r.ParseMultipartForm(16 << 20); err != nil {
		return reportForm{}, &formError{msg: "invalid multipart form", status: http.StatusBadRequest}
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue("latitude")), 64)
	if err != nil {
		return reportForm{}, &formError{msg: "latitude must be a number", status: http.StatusBadRequest}
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue("longitude")), 64)
	if err != nil {
		return reportForm{}, &formError{msg: "longitude must be a number", status: http.StatusBadRequest}
	}

	form := reportForm{
		lat:         lat,
		lng:         lng,
		description: r.FormValue("description"),
	}

	for _, u := range r.Form["photo_urls"] {
		if strings.TrimSpace(u) != "" {
			form.photoURLs = append(form.photoURLs, u)
		}
	}

	var files []*multipart.FileHeader
	if r.MultipartForm != nil {
		files = r.MultipartForm.File["photos"]
	}

	if len(form.photoURLs)+len(files) > MaxPhotoURLs {
		return reportForm{}, &formError{msg: "at most 3 photos", status: http.StatusBadRequest}
	}

	for _, fh := range files {
		url, err := uploadPhoto(r.Context(), uploader, fh)
		if err != nil {
			return reportForm{}, errUpstreamUpload
		}
		form.photoURLs = append(form.photoURLs, url)
	}

	return form, nil
}

func uploadPhoto(ctx context.Context, uploader uploads.Uploader, fh *multipart.FileHeader) (string, error) {
	if uploader == nil {
		return "", errors.New("no uploader configured")
	}

	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		return "", err
	}

	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}

	return uploader.Upload(ctx, fh.Filename, ct, data)
}

func isJSONRequest(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

func parseBounds(r *http.Request) (*BoundingBox, error) {
	q := r.URL.Query()
	keys := []string{"min_lat", "max_lat", "min_lng", "max_lng"}

	present := 0
	for _, k := range keys {
		if strings.TrimSpace(q.Get(k)) != "" {
			present++
		}
	}
	if present == 0 {
		return nil, nil
	}
	if present != len(keys) {
		return nil, errors.New("bounding box requires min_lat, max_lat, min_lng and max_lng")
	}

	vals := make([]float64, 0, len(keys))
	for _, k := range keys {
		v, err := strconv.ParseFloat(strings.TrimSpace(q.Get(k)), 64)
		if err != nil {
			return nil, errors.New(k + " must be a number")
		}
		vals = append(vals, v)
	}

	return &BoundingBox{MinLat: vals[0], MaxLat: vals[1], MinLng: vals[2], MaxLng: vals[3]}, nil
}

func toReportResponse(ctx context.Context, m MissingReport, petsSvc *pets.Service, users directory.UserResolver) reportResponse {
	resp := reportResponse{
		ID:             m.ID,
		PetID:          m.PetID,
		ReporterUserID: m.ReporterUserID,
		Latitude:       m.Latitude,
		Longitude:      m.Longitude,
		Description:    m.Description,
		PhotoURLs:      m.PhotoURLs,
		Status:         m.Status,
		ResolvedByID:   m.ResolvedByFoundReportID,
		ResolvedAt:     m.ResolvedAt,
		CreatedAt:      m.CreatedAt,
	}
	if resp.PhotoURLs == nil {
		resp.PhotoURLs = []string{}
	}

	// Joins de display best-effort: un pet o usuario borrado no rompe el listado.
	if petsSvc != nil {
		if p, err := petsSvc.GetByID(ctx, m.PetID); err == nil {
			resp.Pet = &petSummary{
				ID:       p.ID,
				Name:     p.Name,
				Species:  string(p.Species),
				PhotoURL: p.PhotoURL,
			}
		}
	}
	if users != nil {
		if u, err := users.Resolve(ctx, m.ReporterUserID); err == nil {
			resp.Reporter = &userSummary{
				ID:        u.ID,
				Name:      u.Name,
				Phone:     u.Phone,
				Instagram: u.Instagram,
				Email:     u.Email,
			}
		}
	}
	return resp
}

func toSightingResponse(ctx context.Context, f FoundReport, users directory.UserResolver) sightingResponse {
	resp := sightingResponse{
		ID:              f.ID,
		MissingReportID: f.MissingReportID,
		HelperUserID:    f.HelperUserID,
		Latitude:        f.Latitude,
		Longitude:       f.Longitude,
		Description:     f.Description,
		PhotoURLs:       f.PhotoURLs,
		Review:          f.Review,
		CreatedAt:       f.CreatedAt,
	}
	if resp.PhotoURLs == nil {
		resp.PhotoURLs = []string{}
	}

	if users != nil {
		if u, err := users.Resolve(ctx, f.HelperUserID); err == nil {
			resp.Helper = &userSummary{
				ID:        u.ID,
				Name:      u.Name,
				Phone:     u.Phone,
				Instagram: u.Instagram,
				Email:     u.Email,
			}
		}
	}
	return resp
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch err {
	case ErrInvalidInput:
		http.Error(w, "invalid input", http.StatusBadRequest)
	case ErrInvalidCoordinate:
		http.Error(w, "latitude must be in [-90,90] and longitude in [-180,180]", http.StatusBadRequest)
	case ErrForbidden:
		http.Error(w, "forbidden", http.StatusForbidden)
	case ErrNotFound:
		http.Error(w, "not found", http.StatusNotFound)
	case ErrBadState:
		http.Error(w, "report is not open", http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeFormError(w http.ResponseWriter, err error) {
	var fe *formError
	if errors.As(err, &fe) {
		http.Error(w, fe.msg, fe.status)
		return
	}
	if errors.Is(err, errUpstreamUpload) {
		http.Error(w, "image upload failed", http.StatusBadGateway)
		return
	}
	http.Error(w, "internal error", http.StatusInternalServerError)
}

// writeJSON está duplicado a propósito entre handlers de distintos módulos
// (pets/reports); si se repite en más lugares, ahí recién vale extraerlo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
