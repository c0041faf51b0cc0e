package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Stock-api/internal/domain"
	"github.com/jhoicas/Stock-api/internal/domain/entity"
	"github.com/jhoicas/Stock-api/internal/domain/repository"
)

var (
	_ repository.InventorySessionRepository = (*InventorySessionRepo)(nil)
	_ repository.InventoryLineRepository    = (*InventoryLineRepo)(nil)
)

// InventorySessionRepo sesiones de conteo sobre PostgreSQL.
type InventorySessionRepo struct {
	q Querier
}

// NewInventorySessionRepository construye el adaptador de sesiones. Pasar pool o tx (Querier).
func NewInventorySessionRepository(q Querier) *InventorySessionRepo {
	return &InventorySessionRepo{q: q}
}

const sessionColumns = `id, location_id, started_by, start_time, end_time, status`

func scanSession(row pgx.Row) (*entity.InventorySession, error) {
	var (
		s         entity.InventorySession
		startedBy *string
		status    string
	)
	if err := row.Scan(&s.ID, &s.LocationID, &startedBy, &s.StartTime, &s.EndTime, &status); err != nil {
		return nil, err
	}
	s.StartedBy = str(startedBy)
	s.Status = entity.SessionStatus(status)
	return &s, nil
}

// Create inserta la sesión; el índice parcial uq_sessions_open_location rechaza una segunda OPEN.
func (r *InventorySessionRepo) Create(ctx context.Context, s *entity.InventorySession) error {
	_, err := r.q.Exec(ctx, `INSERT INTO inventory_sessions (`+sessionColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.LocationID, nullable(s.StartedBy), s.StartTime, s.EndTime, string(s.Status),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("ya hay una sesión abierta en la ubicación %s: %w", s.LocationID, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *InventorySessionRepo) GetByID(ctx context.Context, id string) (*entity.InventorySession, error) {
	return r.getOne(ctx, `SELECT `+sessionColumns+` FROM inventory_sessions WHERE id = $1`, id)
}

func (r *InventorySessionRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.InventorySession, error) {
	return r.getOne(ctx, `SELECT `+sessionColumns+` FROM inventory_sessions WHERE id = $1 FOR UPDATE`, id)
}

func (r *InventorySessionRepo) getOne(ctx context.Context, query, id string) (*entity.InventorySession, error) {
	s, err := scanSession(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return s, nil
}

func (r *InventorySessionRepo) HasOpenForLocation(ctx context.Context, locationID string) (bool, error) {
	var ok bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM inventory_sessions WHERE location_id = $1 AND status = 'OPEN')`, locationID,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("open session exists: %w", err)
	}
	return ok, nil
}

// Close pasa la sesión a CLOSED. Solo afecta sesiones OPEN.
func (r *InventorySessionRepo) Close(ctx context.Context, id string, endTime time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE inventory_sessions SET status = 'CLOSED', end_time = $2 WHERE id = $1 AND status = 'OPEN'`,
		id, endTime,
	)
	if err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("sesión %s no está abierta: %w", id, domain.ErrInvalidInput)
	}
	return nil
}

// List filtra por ubicación y estado (vacíos = todos); más recientes primero.
func (r *InventorySessionRepo) List(ctx context.Context, locationID string, status entity.SessionStatus, limit, offset int) ([]*entity.InventorySession, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+sessionColumns+` FROM inventory_sessions
		WHERE ($1::uuid IS NULL OR location_id = $1) AND ($2 = '' OR status = $2)
		ORDER BY start_time DESC LIMIT $3 OFFSET $4`,
		nullable(locationID), string(status), limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventorySession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *InventorySessionRepo) ExistsForLocation(ctx context.Context, locationID string) (bool, error) {
	var ok bool
	if err := r.q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM inventory_sessions WHERE location_id = $1)`, locationID,
	).Scan(&ok); err != nil {
		return false, fmt.Errorf("session exists: %w", err)
	}
	return ok, nil
}

// InventoryLineRepo líneas de conteo sobre PostgreSQL.
type InventoryLineRepo struct {
	q Querier
}

// NewInventoryLineRepository construye el adaptador de líneas. Pasar pool o tx (Querier).
func NewInventoryLineRepository(q Querier) *InventoryLineRepo {
	return &InventoryLineRepo{q: q}
}

const lineColumns = `id, session_id, product_id, expected_quantity, counted_quantity, note`

func scanLine(row pgx.Row) (*entity.InventoryLine, error) {
	var l entity.InventoryLine
	if err := row.Scan(&l.ID, &l.SessionID, &l.ProductID, &l.ExpectedQuantity, &l.CountedQuantity, &l.Note); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *InventoryLineRepo) Create(ctx context.Context, l *entity.InventoryLine) error {
	_, err := r.q.Exec(ctx, `INSERT INTO inventory_lines (`+lineColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		l.ID, l.SessionID, l.ProductID, l.ExpectedQuantity, l.CountedQuantity, l.Note,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("producto %s ya está en la sesión: %w", l.ProductID, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert line: %w", err)
	}
	return nil
}

func (r *InventoryLineRepo) GetByID(ctx context.Context, id string) (*entity.InventoryLine, error) {
	l, err := scanLine(r.q.QueryRow(ctx, `SELECT `+lineColumns+` FROM inventory_lines WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get line: %w", err)
	}
	return l, nil
}

func (r *InventoryLineRepo) ExistsForProduct(ctx context.Context, sessionID, productID string) (bool, error) {
	var ok bool
	if err := r.q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM inventory_lines WHERE session_id = $1 AND product_id = $2)`,
		sessionID, productID,
	).Scan(&ok); err != nil {
		return false, fmt.Errorf("line exists: %w", err)
	}
	return ok, nil
}

// ListBySession ordenadas por nombre de producto.
func (r *InventoryLineRepo) ListBySession(ctx context.Context, sessionID string) ([]*entity.InventoryLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT l.id, l.session_id, l.product_id, l.expected_quantity, l.counted_quantity, l.note
		FROM inventory_lines l JOIN products p ON p.id = l.product_id
		WHERE l.session_id = $1 ORDER BY p.name`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryLine
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan line: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// UpdateCount guarda conteo y nota; el último conteo reemplaza al anterior.
func (r *InventoryLineRepo) UpdateCount(ctx context.Context, l *entity.InventoryLine) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE inventory_lines SET counted_quantity = $2, note = $3 WHERE id = $1`,
		l.ID, l.CountedQuantity, l.Note,
	)
	if err != nil {
		return fmt.Errorf("update count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("línea %s: %w", l.ID, domain.ErrNotFound)
	}
	return nil
}
