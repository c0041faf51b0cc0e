package repository

import (
	"context"

	"github.com/jhoicas/Stock-api/internal/domain/entity"
)

// ActivityLogRepository puerto del registro de auditoría.
type ActivityLogRepository interface {
	Create(ctx context.Context, log *entity.ActivityLog) error
	List(ctx context.Context, userID string, limit, offset int) ([]*entity.ActivityLog, error)
}
