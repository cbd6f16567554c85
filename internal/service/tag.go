package service

import (
	"context"
	"fmt"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/pageza/foodgram/backend/internal/validation"
)

type TagService struct {
	tags repository.TagRepository
}

func NewTagService(tags repository.TagRepository) *TagService {
	return &TagService{tags: tags}
}

func (s *TagService) List(ctx context.Context) ([]models.Tag, error) {
	return s.tags.List(ctx)
}

func (s *TagService) Get(ctx context.Context, id uint) (*models.Tag, error) {
	tag, err := s.tags.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get tag %d: %w", id, err)
	}
	return tag, nil
}

func (s *TagService) Create(ctx context.Context, caller types.Caller, req types.TagRequest) (*models.Tag, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	tag := &models.Tag{Name: req.Name, Color: req.Color, Slug: req.Slug}
	if err := s.tags.Create(ctx, tag); err != nil {
		return nil, fmt.Errorf("create tag %q: %w", req.Slug, err)
	}
	return tag, nil
}

func (s *TagService) Update(ctx context.Context, caller types.Caller, id uint, req types.TagRequest) (*models.Tag, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	tag := &models.Tag{ID: id, Name: req.Name, Color: req.Color, Slug: req.Slug}
	if err := s.tags.Update(ctx, tag); err != nil {
		return nil, fmt.Errorf("update tag %d: %w", id, err)
	}
	return tag, nil
}

func (s *TagService) Delete(ctx context.Context, caller types.Caller, id uint) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	if err := s.tags.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete tag %d: %w", id, err)
	}
	return nil
}
