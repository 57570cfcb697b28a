package pets

import "context"

// OwnerOf expone el ownerUserID de una mascota.
// Es la dependencia que usa el módulo reports para re-validar server-side
// que la mascota reportada pertenece al reporter, sin acoplar imports.
func (s *Service) OwnerOf(ctx context.Context, petID string) (string, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return "", err
	}
	return p.OwnerUserID, nil
}
