package reports

// Status define el ciclo de vida de un reporte de mascota perdida.
// @Enum open, resolved, rejected
type Status string

const (
	StatusOpen     Status = "open"
	StatusResolved Status = "resolved"
	StatusRejected Status = "rejected"
)

// Terminal indica si el estado ya no admite transiciones.
func (s Status) Terminal() bool {
	return s == StatusResolved || s == StatusRejected
}

// Review define la revisión de un avistamiento por parte del dueño del reporte.
// @Enum pending, accepted, rejected
type Review string

const (
	ReviewPending  Review = "pending"
	ReviewAccepted Review = "accepted"
	ReviewRejected Review = "rejected"
)

// Scope define las vistas de listado expuestas por la API (parámetro mode).
// @Enum recent, all, mine
type Scope string

const (
	ScopeRecent Scope = "recent"
	ScopeAll    Scope = "all"
	ScopeMine   Scope = "mine"
)
