package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Stock-api/internal/application/dto"
	"github.com/jhoicas/Stock-api/internal/domain"
	"github.com/jhoicas/Stock-api/internal/domain/entity"
)

// ReconciliationUseCase sesiones de conteo físico: abrir, agregar líneas, contar y cerrar.
// Al cerrar, cada línea contada con diferencia genera un INVENTORY_ADJUSTMENT en el libro.
type ReconciliationUseCase struct {
	d   Deps
	pdf SessionPDFGenerator
}

// NewReconciliationUseCase construye el caso de uso. pdf puede ser nil si no se exponen reportes.
func NewReconciliationUseCase(d Deps, pdf SessionPDFGenerator) *ReconciliationUseCase {
	return &ReconciliationUseCase{d: d, pdf: pdf}
}

// OpenSession abre una sesión en la ubicación. Falla con ErrDuplicate si ya hay una OPEN.
func (uc *ReconciliationUseCase) OpenSession(ctx context.Context, userID, locationID string) (*dto.SessionResponse, error) {
	if _, err := uc.d.requireLocation(ctx, locationID); err != nil {
		return nil, err
	}
	if err := uc.d.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	session := &entity.InventorySession{
		ID:         uuid.New().String(),
		LocationID: locationID,
		StartedBy:  userID,
		StartTime:  time.Now().UTC(),
		Status:     entity.SessionOpen,
	}
	err := uc.d.Tx.Run(ctx, func(r Repos) error {
		open, err := r.Sessions.HasOpenForLocation(ctx, locationID)
		if err != nil {
			return err
		}
		if open {
			return fmt.Errorf("ya existe una sesión abierta en la ubicación %s: %w", locationID, domain.ErrDuplicate)
		}
		// El índice único parcial cubre la carrera entre dos aperturas simultáneas.
		return r.Sessions.Create(ctx, session)
	})
	if err != nil {
		return nil, err
	}
	if uc.d.Log != nil {
		uc.d.Log.Info().Str("session_id", session.ID).Str("location_id", locationID).Msg("sesión de inventario abierta")
	}
	out := toSessionResponse(session)
	return &out, nil
}

// AddLine agrega un producto a la sesión tomando como esperado la cantidad actual del libro.
func (uc *ReconciliationUseCase) AddLine(ctx context.Context, sessionID, productID string) (*dto.LineResponse, error) {
	if err := checkID("session_id", sessionID); err != nil {
		return nil, err
	}
	if _, err := uc.d.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	var line *entity.InventoryLine
	err := uc.d.Tx.Run(ctx, func(r Repos) error {
		session, err := lockOpenSession(ctx, r, sessionID)
		if err != nil {
			return err
		}
		exists, err := r.Lines.ExistsForProduct(ctx, sessionID, productID)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("el producto %s ya tiene línea en la sesión: %w", productID, domain.ErrDuplicate)
		}
		var expected int64
		stock, err := r.Stock.Get(ctx, productID, session.LocationID)
		if err != nil {
			return err
		}
		if stock != nil {
			expected = stock.Quantity
		}
		line = &entity.InventoryLine{
			ID:               uuid.New().String(),
			SessionID:        sessionID,
			ProductID:        productID,
			ExpectedQuantity: expected,
		}
		return r.Lines.Create(ctx, line)
	})
	if err != nil {
		return nil, err
	}
	out := toLineResponse(line)
	return &out, nil
}

// RecordCount registra (o reemplaza) el conteo físico de una línea mientras la sesión está OPEN.
func (uc *ReconciliationUseCase) RecordCount(ctx context.Context, lineID string, in dto.RecordCountRequest) (*dto.LineResponse, error) {
	if err := checkID("line_id", lineID); err != nil {
		return nil, err
	}
	if in.CountedQuantity == nil || *in.CountedQuantity < 0 {
		return nil, fmt.Errorf("counted_quantity debe ser >= 0: %w", domain.ErrInvalidInput)
	}
	var line *entity.InventoryLine
	err := uc.d.Tx.Run(ctx, func(r Repos) error {
		var err error
		line, err = r.Lines.GetByID(ctx, lineID)
		if err != nil {
			return err
		}
		if line == nil {
			return fmt.Errorf("línea %s: %w", lineID, domain.ErrNotFound)
		}
		if _, err := lockOpenSession(ctx, r, line.SessionID); err != nil {
			return err
		}
		counted := *in.CountedQuantity
		line.CountedQuantity = &counted
		line.Note = in.Note
		return r.Lines.UpdateCount(ctx, line)
	})
	if err != nil {
		return nil, err
	}
	out := toLineResponse(line)
	return &out, nil
}

// CloseSession aplica un INVENTORY_ADJUSTMENT (delta = diferencia, referencia = línea) por cada
// línea contada con discrepancia, marca la sesión CLOSED y sella end_time, todo en una tx.
// Las líneas sin contar no generan ajuste.
func (uc *ReconciliationUseCase) CloseSession(ctx context.Context, userID, sessionID string) (*dto.CloseSessionResponse, error) {
	if err := checkID("session_id", sessionID); err != nil {
		return nil, err
	}
	var (
		session *entity.InventorySession
		results []*AdjustResult
	)
	err := uc.d.Tx.Run(ctx, func(r Repos) error {
		results = results[:0]
		var err error
		session, err = lockOpenSession(ctx, r, sessionID)
		if err != nil {
			return err
		}
		lines, err := r.Lines.ListBySession(ctx, sessionID)
		if err != nil {
			return err
		}
		actor := userID
		if actor == "" {
			actor = session.StartedBy
		}
		for _, l := range lines {
			if !l.HasDiscrepancy() {
				continue
			}
			res, err := uc.d.Ledger.Adjust(ctx, r, Adjustment{
				ProductID:   l.ProductID,
				LocationID:  session.LocationID,
				Delta:       *l.Difference(),
				Type:        entity.MovementAdjustment,
				ReferenceID: l.ID,
				UserID:      actor,
			})
			if err != nil {
				return fmt.Errorf("ajuste de la línea %s: %w", l.ID, err)
			}
			results = append(results, res)
		}
		end := time.Now().UTC()
		if err := r.Sessions.Close(ctx, sessionID, end); err != nil {
			return err
		}
		session.Status = entity.SessionClosed
		session.EndTime = &end
		return nil
	})
	if err != nil {
		return nil, err
	}

	n := uc.d.notifier()
	n.adjusted(ctx, results)
	n.publish(ctx, EventSessionClosed, SessionClosedEvent{
		SessionID:   session.ID,
		LocationID:  session.LocationID,
		Adjustments: len(results),
		ClosedAt:    *session.EndTime,
	})
	if uc.d.Log != nil {
		uc.d.Log.Info().Str("session_id", sessionID).Int("adjustments", len(results)).Msg("sesión de inventario cerrada")
	}

	adjustments := make([]dto.MovementResponse, 0, len(results))
	for _, res := range results {
		adjustments = append(adjustments, toMovementResponse(res.Movement))
	}
	return &dto.CloseSessionResponse{Session: toSessionResponse(session), Adjustments: adjustments}, nil
}

// GetSession devuelve la sesión con sus líneas y totales.
func (uc *ReconciliationUseCase) GetSession(ctx context.Context, sessionID string) (*dto.SessionDetailResponse, error) {
	session, lines, err := uc.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LineResponse, 0, len(lines))
	for _, l := range lines {
		items = append(items, toLineResponse(l))
	}
	return &dto.SessionDetailResponse{
		SessionResponse: toSessionResponse(session),
		Lines:           items,
		Summary:         toSummaryResponse(entity.Summarize(lines)),
	}, nil
}

// ListSessions lista sesiones filtradas por ubicación y estado (ambos opcionales).
func (uc *ReconciliationUseCase) ListSessions(ctx context.Context, locationID, status string, page dto.PageRequest) (*dto.SessionListResponse, error) {
	st := entity.SessionStatus(status)
	if st != "" && st != entity.SessionOpen && st != entity.SessionClosed {
		return nil, fmt.Errorf("status %q: %w", status, domain.ErrInvalidInput)
	}
	if err := checkFilterIDs("location_id", locationID); err != nil {
		return nil, err
	}
	page.Normalize()
	list, err := uc.d.Sessions.List(ctx, locationID, st, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SessionResponse, 0, len(list))
	for _, s := range list {
		items = append(items, toSessionResponse(s))
	}
	return &dto.SessionListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// SessionReportPDF genera la planilla de conteo (o acta si está cerrada) en PDF.
func (uc *ReconciliationUseCase) SessionReportPDF(ctx context.Context, sessionID string) (pdf []byte, filename string, err error) {
	if uc.pdf == nil {
		return nil, "", fmt.Errorf("reporte PDF no configurado")
	}
	session, lines, err := uc.load(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}
	location, err := uc.d.Locations.GetByID(ctx, session.LocationID)
	if err != nil {
		return nil, "", err
	}
	report := SessionReport{
		Session:     session,
		Location:    location,
		Summary:     entity.Summarize(lines),
		GeneratedAt: time.Now(),
	}
	if session.StartedBy != "" {
		if u, err := uc.d.Users.GetByID(ctx, session.StartedBy); err == nil && u != nil {
			report.StartedByName = u.Username
		}
	}
	for _, l := range lines {
		rl := SessionReportLine{Line: l}
		p, err := uc.d.Products.GetByID(ctx, l.ProductID)
		if err != nil {
			return nil, "", err
		}
		if p != nil {
			rl.ProductName, rl.Barcode, rl.Unit = p.Name, p.Barcode, p.Unit
		}
		report.Lines = append(report.Lines, rl)
	}
	pdf, err = uc.pdf.GenerateSessionPDF(ctx, report)
	if err != nil {
		return nil, "", fmt.Errorf("generar pdf de sesión: %w", err)
	}
	return pdf, fmt.Sprintf("inventario-%s.pdf", session.ID[:8]), nil
}

func (uc *ReconciliationUseCase) load(ctx context.Context, sessionID string) (*entity.InventorySession, []*entity.InventoryLine, error) {
	if err := checkID("session_id", sessionID); err != nil {
		return nil, nil, err
	}
	session, err := uc.d.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		return nil, nil, fmt.Errorf("sesión %s: %w", sessionID, domain.ErrNotFound)
	}
	lines, err := uc.d.Lines.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	return session, lines, nil
}

// lockOpenSession bloquea la sesión y exige que siga OPEN.
func lockOpenSession(ctx context.Context, r Repos, sessionID string) (*entity.InventorySession, error) {
	session, err := r.Sessions.GetByIDForUpdate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("sesión %s: %w", sessionID, domain.ErrNotFound)
	}
	if !session.IsOpen() {
		return nil, fmt.Errorf("la sesión %s está cerrada: %w", sessionID, domain.ErrInvalidInput)
	}
	return session, nil
}

func toSessionResponse(s *entity.InventorySession) dto.SessionResponse {
	return dto.SessionResponse{
		ID:         s.ID,
		LocationID: s.LocationID,
		StartedBy:  s.StartedBy,
		StartTime:  s.StartTime,
		EndTime:    s.EndTime,
		Status:     string(s.Status),
	}
}

func toLineResponse(l *entity.InventoryLine) dto.LineResponse {
	return dto.LineResponse{
		ID:               l.ID,
		SessionID:        l.SessionID,
		ProductID:        l.ProductID,
		ExpectedQuantity: l.ExpectedQuantity,
		CountedQuantity:  l.CountedQuantity,
		Note:             l.Note,
		Difference:       l.Difference(),
		HasDiscrepancy:   l.HasDiscrepancy(),
		IsSurplus:        l.IsSurplus(),
		IsShortage:       l.IsShortage(),
	}
}

func toSummaryResponse(s entity.SessionSummary) dto.SessionSummaryResponse {
	return dto.SessionSummaryResponse{
		Lines:         s.Lines,
		Counted:       s.Counted,
		Uncounted:     s.Uncounted,
		Discrepancies: s.Discrepancies,
		Surpluses:     s.Surpluses,
		Shortages:     s.Shortages,
		TotalExpected: s.TotalExpected,
		TotalCounted:  s.TotalCounted,
		NetDifference: s.NetDifference,
	}
}
