package auth

// Claims representa la información extraída del token.
// UserID es opaco para este core; Role viene del servicio de auth,
// aunque acá la autorización de mutaciones es por ownership, no por rol.
type Claims struct {
	UserID string
	Email  string
	Role   string
}
