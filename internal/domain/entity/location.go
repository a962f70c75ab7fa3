package entity

import (
	"fmt"
	"strings"

	"github.com/jhoicas/confecciones-stock/internal/domain"
)

// Location área física donde se guarda stock. Conjunto cerrado.
type Location string

const (
	LocationManufacturing Location = "manufacturing" // taller de producción
	LocationTransit       Location = "transit"       // mercancía en camión / bodega de paso
	LocationWholesale     Location = "wholesale"     // bodega mayorista
	LocationRetail        Location = "retail"        // tienda al detal
)

// Locations devuelve todas las ubicaciones válidas en orden de la cadena productiva.
func Locations() []Location {
	return []Location{LocationManufacturing, LocationTransit, LocationWholesale, LocationRetail}
}

// Valid indica si la ubicación pertenece al conjunto cerrado.
func (l Location) Valid() bool {
	switch l {
	case LocationManufacturing, LocationTransit, LocationWholesale, LocationRetail:
		return true
	}
	return false
}

func (l Location) String() string { return string(l) }

// ParseLocation normaliza (minúsculas, sin espacios) y valida un nombre de ubicación.
func ParseLocation(s string) (Location, error) {
	l := Location(strings.ToLower(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownLocation, s)
	}
	return l, nil
}
