package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Stock-api/internal/application/dto"
	"github.com/jhoicas/Stock-api/internal/domain"
	"github.com/jhoicas/Stock-api/internal/domain/entity"
	"github.com/jhoicas/Stock-api/internal/domain/repository"
)

// UserUseCase consultas de usuarios y del registro de auditoría.
type UserUseCase struct {
	repo     repository.UserRepository
	activity repository.ActivityLogRepository
}

// NewUserUseCase construye el caso de uso con los puertos de persistencia.
func NewUserUseCase(repo repository.UserRepository, activity repository.ActivityLogRepository) *UserUseCase {
	return &UserUseCase{repo: repo, activity: activity}
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	if err := checkID("user_id", id); err != nil {
		return nil, err
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("usuario %s: %w", id, domain.ErrUserNotFound)
	}
	return entityToUserResponse(user), nil
}

// List lista usuarios.
func (uc *UserUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.UserListResponse, error) {
	page.Normalize()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *entityToUserResponse(u))
	}
	return &dto.UserListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total}}, nil
}

// RecordActivity guarda una entrada de auditoría. userID vacío = petición anónima.
func (uc *UserUseCase) RecordActivity(ctx context.Context, userID, action, ip, userAgent string) error {
	return uc.activity.Create(ctx, &entity.ActivityLog{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    action,
		IPAddress: ip,
		UserAgent: userAgent,
		CreatedAt: time.Now().UTC(),
	})
}

// ListActivity lista la auditoría, opcionalmente de un solo usuario, más reciente primero.
func (uc *UserUseCase) ListActivity(ctx context.Context, userID string, page dto.PageRequest) (*dto.ActivityLogListResponse, error) {
	if err := checkFilterIDs("user_id", userID); err != nil {
		return nil, err
	}
	page.Normalize()
	list, err := uc.activity.List(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ActivityLogResponse, 0, len(list))
	for _, a := range list {
		items = append(items, dto.ActivityLogResponse{
			ID:        a.ID,
			UserID:    a.UserID,
			Action:    a.Action,
			IPAddress: a.IPAddress,
			UserAgent: a.UserAgent,
			CreatedAt: a.CreatedAt,
		})
	}
	return &dto.ActivityLogListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

func entityToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLogin,
	}
}
