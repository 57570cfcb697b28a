package pets

import "time"

// Species define las especies soportadas.
// @Enum dog, cat, other
type Species string

const (
	SpeciesDog   Species = "dog"
	SpeciesCat   Species = "cat"
	SpeciesOther Species = "other"
)

// Pet es el perfil mínimo que el flujo de perdidos/encontrados necesita:
// a quién pertenece y qué mostrar en el mapa (nombre, especie, foto).
type Pet struct {
	ID          string
	OwnerUserID string

	Name     string
	Species  Species
	PhotoURL string

	CreatedAt time.Time
	UpdatedAt time.Time
}
