package reports

import "strings"

// Autorización por propiedad: acá no hay roles ni delegación,
// el único criterio es quién reportó la mascota.

// CanResolve indica si el usuario puede resolver/revisar el reporte
// (marcar encontrado directo, aceptar o rechazar avistamientos).
func CanResolve(userID string, r MissingReport) bool {
	userID = strings.TrimSpace(userID)
	return userID != "" && userID == r.ReporterUserID
}

// CanReportSighting indica si el usuario puede registrar un avistamiento.
// El propio reporter no puede avistar su propio reporte.
func CanReportSighting(userID string, r MissingReport) bool {
	userID = strings.TrimSpace(userID)
	return userID != "" && userID != r.ReporterUserID
}
