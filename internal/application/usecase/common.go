package usecase

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Stock-api/internal/domain"
)

func checkID(kind, id string) error {
	if id == "" {
		return fmt.Errorf("%s requerido: %w", kind, domain.ErrInvalidInput)
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%s %q no es un UUID: %w", kind, id, domain.ErrInvalidInput)
	}
	return nil
}

// checkFilterIDs valida filtros opcionales dados como pares (nombre, valor); vacío = sin filtro.
func checkFilterIDs(kv ...string) error {
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] == "" {
			continue
		}
		if err := checkID(kv[i], kv[i+1]); err != nil {
			return err
		}
	}
	return nil
}
