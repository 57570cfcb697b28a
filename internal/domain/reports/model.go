package reports

import "time"

// MissingReport declara una mascota perdida en una ubicación/momento.
// Pertenece a quien lo reporta; cualquier usuario autenticado puede verlo.
type MissingReport struct {
	ID string

	PetID          string
	ReporterUserID string

	// Coordenadas WGS84 en grados.
	Latitude  float64
	Longitude float64

	Description string
	PhotoURLs   []string // 0..3, orden preservado

	Status Status

	// Avistamiento que resolvió el reporte (nil si se marcó encontrado directo
	// o si sigue abierto). Se escribe en la misma transacción que el cambio de estado.
	ResolvedByFoundReportID *string
	ResolvedAt              *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FoundReport es el avistamiento de una mascota reportada como perdida.
// Sus coordenadas y fotos son del avistamiento, no de la desaparición original.
type FoundReport struct {
	ID string

	MissingReportID string
	HelperUserID    string

	Latitude  float64
	Longitude float64

	Description string
	PhotoURLs   []string

	// Revisión del dueño. Rechazar no borra el registro (queda para auditoría).
	Review Review

	CreatedAt time.Time
}

// BoundingBox es un pre-filtro opcional para listados.
// Una caja que cubre toda la Tierra no debe alterar resultados.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

func (b BoundingBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat &&
		lng >= b.MinLng && lng <= b.MaxLng
}

// ListQuery describe un listado de reportes ya resuelto por el servicio
// (el repo no conoce los modes de la API).
type ListQuery struct {
	OnlyOpen       bool
	CreatedAfter   *time.Time
	ReporterUserID string
	Bounds         *BoundingBox
}
