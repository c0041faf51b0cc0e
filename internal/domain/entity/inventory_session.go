package entity

import "time"

// SessionStatus estado de una sesión de conteo. Solo se permite OPEN -> CLOSED.
type SessionStatus string

// Estados de sesión.
const (
	SessionOpen   SessionStatus = "OPEN"
	SessionClosed SessionStatus = "CLOSED"
)

// InventorySession conteo físico de una ubicación. Una sola sesión OPEN por ubicación.
type InventorySession struct {
	ID         string
	LocationID string
	StartedBy  string // UserID
	StartTime  time.Time
	EndTime    *time.Time
	Status     SessionStatus
}

// IsOpen indica si la sesión todavía admite líneas y conteos.
func (s *InventorySession) IsOpen() bool {
	return s.Status == SessionOpen
}

// InventoryLine conteo de un producto dentro de una sesión.
// ExpectedQuantity es la foto del libro al crear la línea; CountedQuantity es nil hasta contar.
type InventoryLine struct {
	ID               string
	SessionID        string
	ProductID        string
	ExpectedQuantity int64
	CountedQuantity  *int64
	Note             string
}

// IsCounted indica si la línea ya tiene conteo físico.
func (l *InventoryLine) IsCounted() bool {
	return l.CountedQuantity != nil
}

// Difference contado - esperado; nil si no se ha contado.
func (l *InventoryLine) Difference() *int64 {
	if l.CountedQuantity == nil {
		return nil
	}
	d := *l.CountedQuantity - l.ExpectedQuantity
	return &d
}

// HasDiscrepancy contado distinto de esperado.
func (l *InventoryLine) HasDiscrepancy() bool {
	d := l.Difference()
	return d != nil && *d != 0
}

// IsSurplus sobrante: se contó más de lo esperado.
func (l *InventoryLine) IsSurplus() bool {
	d := l.Difference()
	return d != nil && *d > 0
}

// IsShortage faltante: se contó menos de lo esperado.
func (l *InventoryLine) IsShortage() bool {
	d := l.Difference()
	return d != nil && *d < 0
}

// SessionSummary totales de una sesión calculados a partir de sus líneas.
type SessionSummary struct {
	Lines         int
	Counted       int
	Uncounted     int
	Discrepancies int
	Surpluses     int
	Shortages     int
	TotalExpected int64
	TotalCounted  int64
	NetDifference int64
}

// Summarize calcula los totales de las líneas. Las no contadas solo suman a TotalExpected.
func Summarize(lines []*InventoryLine) SessionSummary {
	var s SessionSummary
	for _, l := range lines {
		s.Lines++
		s.TotalExpected += l.ExpectedQuantity
		if !l.IsCounted() {
			s.Uncounted++
			continue
		}
		s.Counted++
		s.TotalCounted += *l.CountedQuantity
		diff := *l.Difference()
		s.NetDifference += diff
		switch {
		case diff > 0:
			s.Discrepancies++
			s.Surpluses++
		case diff < 0:
			s.Discrepancies++
			s.Shortages++
		}
	}
	return s
}
