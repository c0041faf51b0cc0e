package inventory

import (
	"fmt"
	"strings"

	"github.com/jhoicas/Stock-api/internal/domain"
	"github.com/jhoicas/Stock-api/internal/domain/entity"
)

// NegativePolicy decide qué tipos de movimiento pueden dejar la existencia en negativo
// (servicio de dominio). Por defecto solo el ajuste de inventario puede hacerlo.
type NegativePolicy struct {
	allowed map[entity.MovementType]bool
}

// DefaultNegativePolicy rechaza SALE y TRANSFER_OUT por debajo de cero y acepta INVENTORY_ADJUSTMENT.
func DefaultNegativePolicy() NegativePolicy {
	return NewNegativePolicy(entity.MovementAdjustment)
}

// NewNegativePolicy construye la política con los tipos que pueden quedar en negativo.
func NewNegativePolicy(allowed ...entity.MovementType) NegativePolicy {
	p := NegativePolicy{allowed: make(map[entity.MovementType]bool, len(allowed))}
	for _, t := range allowed {
		p.allowed[t] = true
	}
	return p
}

// ParseNegativePolicy lee una lista separada por comas ("INVENTORY_ADJUSTMENT,SALE").
// "none" o vacío = ningún tipo puede quedar en negativo.
func ParseNegativePolicy(s string) (NegativePolicy, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return NewNegativePolicy(), nil
	}
	var types []entity.MovementType
	for _, part := range strings.Split(s, ",") {
		mt := entity.MovementType(strings.ToUpper(strings.TrimSpace(part)))
		if mt == "" {
			continue
		}
		if !mt.Valid() {
			return NegativePolicy{}, fmt.Errorf("tipo de movimiento desconocido %q: %w", part, domain.ErrInvalidInput)
		}
		types = append(types, mt)
	}
	return NewNegativePolicy(types...), nil
}

// AllowsNegative indica si el tipo puede dejar la existencia en negativo.
func (p NegativePolicy) AllowsNegative(t entity.MovementType) bool {
	return p.allowed[t]
}

// Apply calcula la nueva cantidad o devuelve ErrInsufficientStock si la política lo impide.
// Un delta positivo nunca se rechaza aunque el saldo siga negativo. Si la suma desborda
// int64 devuelve ErrInvalidInput.
func (p NegativePolicy) Apply(t entity.MovementType, current, delta int64) (int64, error) {
	next := current + delta
	if (delta < 0 && next > current) || (delta > 0 && next < current) {
		return current, fmt.Errorf("%d %+d desborda la cantidad: %w", current, delta, domain.ErrInvalidInput)
	}
	if delta < 0 && next < 0 && !p.AllowsNegative(t) {
		return current, domain.ErrInsufficientStock
	}
	return next, nil
}

// String lista los tipos permitidos en el orden canónico.
func (p NegativePolicy) String() string {
	var out []string
	for _, t := range entity.MovementTypes {
		if p.allowed[t] {
			out = append(out, string(t))
		}
	}
	if len(out) == 0 {
		return "none"
	}
	return strings.Join(out, ",")
}

// ValidateDelta comprueba el signo del delta según el tipo: entradas positivas,
// salidas negativas y ajustes cualquier valor distinto de cero.
func ValidateDelta(t entity.MovementType, delta int64) error {
	if !t.Valid() {
		return fmt.Errorf("tipo de movimiento %q: %w", t, domain.ErrInvalidInput)
	}
	switch t {
	case entity.MovementPurchase, entity.MovementTransferIn:
		if delta <= 0 {
			return fmt.Errorf("%s requiere cantidad positiva: %w", t, domain.ErrInvalidInput)
		}
	case entity.MovementSale, entity.MovementTransferOut:
		if delta >= 0 {
			return fmt.Errorf("%s requiere cantidad negativa: %w", t, domain.ErrInvalidInput)
		}
	default:
		if delta == 0 {
			return fmt.Errorf("el ajuste no puede ser cero: %w", domain.ErrInvalidInput)
		}
	}
	return nil
}
