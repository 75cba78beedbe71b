package service

import (
	"context"

	"korecatalog/internal/dto"
	"korecatalog/internal/model"
	"korecatalog/internal/repository"

	"github.com/google/uuid"
)

// ProfileService manages per-user presentation settings.
type ProfileService interface {
	Get(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error)
	Update(ctx context.Context, userID uuid.UUID, req dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
	ToggleTheme(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error)
	SetViewMode(ctx context.Context, userID uuid.UUID, req dto.SetViewModeRequest) (*dto.ProfileResponse, error)
}

type profileService struct {
	users repository.UserRepository
}

func NewProfileService(users repository.UserRepository) ProfileService {
	return &profileService{users: users}
}

func (s *profileService) Get(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error) {
	p, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		return nil, orNotFound(err)
	}
	resp := profileToResponse(p)
	return &resp, nil
}

func (s *profileService) Update(ctx context.Context, userID uuid.UUID, req dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	p, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		return nil, orNotFound(err)
	}

	if req.Theme != nil {
		p.Theme = *req.Theme
	}
	if req.ProductViewMode != nil {
		p.ProductViewMode = *req.ProductViewMode
	}
	if req.CategoryViewMode != nil {
		p.CategoryViewMode = *req.CategoryViewMode
	}

	if err := s.users.UpdateProfile(ctx, p); err != nil {
		return nil, err
	}
	resp := profileToResponse(p)
	return &resp, nil
}

// ToggleTheme flips light/dark without the client needing to know the
// current value.
func (s *profileService) ToggleTheme(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error) {
	p, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		return nil, orNotFound(err)
	}

	if p.Theme == model.ThemeDark {
		p.Theme = model.ThemeLight
	} else {
		p.Theme = model.ThemeDark
	}

	if err := s.users.UpdateProfile(ctx, p); err != nil {
		return nil, err
	}
	resp := profileToResponse(p)
	return &resp, nil
}

func (s *profileService) SetViewMode(ctx context.Context, userID uuid.UUID, req dto.SetViewModeRequest) (*dto.ProfileResponse, error) {
	p, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		return nil, orNotFound(err)
	}

	switch req.View {
	case "products":
		p.ProductViewMode = req.Mode
	case "categories":
		p.CategoryViewMode = req.Mode
	}

	if err := s.users.UpdateProfile(ctx, p); err != nil {
		return nil, err
	}
	resp := profileToResponse(p)
	return &resp, nil
}

func profileToResponse(p *model.Profile) dto.ProfileResponse {
	return dto.ProfileResponse{
		Theme:            p.Theme,
		ProductViewMode:  p.ProductViewMode,
		CategoryViewMode: p.CategoryViewMode,
	}
}
