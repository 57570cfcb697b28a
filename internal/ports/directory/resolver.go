package directory

import "context"

// User es la vista mínima de un usuario que este core lee para mostrar
// al interlocutor de un reporte. Nunca se muta acá.
type User struct {
	ID        string
	Name      string
	Phone     string
	Instagram string
	Email     string
}

// UserResolver resuelve un user ID opaco a sus datos de display.
type UserResolver interface {
	Resolve(ctx context.Context, userID string) (User, error)
}
