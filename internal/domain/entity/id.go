package entity

import (
	"strings"

	"github.com/google/uuid"
)

// ParseID normaliza un identificador a la forma canónica de UUID (minúsculas, con guiones).
// ok=false si no es un UUID: productos, traslados y avisos usan columnas UUID.
func ParseID(s string) (string, bool) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return "", false
	}
	return id.String(), true
}
