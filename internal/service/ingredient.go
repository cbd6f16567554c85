package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/pageza/foodgram/backend/internal/validation"
)

type IngredientService struct {
	ingredients repository.IngredientRepository
}

func NewIngredientService(ingredients repository.IngredientRepository) *IngredientService {
	return &IngredientService{ingredients: ingredients}
}

// List returns ingredients whose name starts with namePrefix.
func (s *IngredientService) List(ctx context.Context, namePrefix string) ([]models.Ingredient, error) {
	return s.ingredients.List(ctx, repository.IngredientFilter{NamePrefix: namePrefix})
}

func (s *IngredientService) Get(ctx context.Context, id uint) (*models.Ingredient, error) {
	ingredient, err := s.ingredients.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get ingredient %d: %w", id, err)
	}
	return ingredient, nil
}

func (s *IngredientService) Create(ctx context.Context, caller types.Caller, req types.IngredientRequest) (*models.Ingredient, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	ingredient := &models.Ingredient{Name: req.Name, MeasurementUnit: req.MeasurementUnit}
	if err := s.ingredients.Create(ctx, ingredient); err != nil {
		return nil, fmt.Errorf("create ingredient %q: %w", req.Name, err)
	}
	return ingredient, nil
}

func (s *IngredientService) Update(ctx context.Context, caller types.Caller, id uint, req types.IngredientRequest) (*models.Ingredient, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	ingredient := &models.Ingredient{ID: id, Name: req.Name, MeasurementUnit: req.MeasurementUnit}
	if err := s.ingredients.Update(ctx, ingredient); err != nil {
		return nil, fmt.Errorf("update ingredient %d: %w", id, err)
	}
	return ingredient, nil
}

// Delete fails with errs.ErrInUse while a recipe references the ingredient.
func (s *IngredientService) Delete(ctx context.Context, caller types.Caller, id uint) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	if err := s.ingredients.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete ingredient %d: %w", id, err)
	}
	return nil
}

// Import loads "name,measurement_unit" rows from r and returns how many
// ingredients were created. Rows are validated before anything is written.
func (s *IngredientService) Import(ctx context.Context, r io.Reader, skipHeader bool) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	var batch []models.Ingredient
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("%w: %v", errs.ErrValidation, err)
		}
		if skipHeader && line == 1 {
			continue
		}
		req := types.IngredientRequest{
			Name:            strings.TrimSpace(record[0]),
			MeasurementUnit: strings.TrimSpace(record[1]),
		}
		if err := validation.Struct(req); err != nil {
			return 0, fmt.Errorf("line %d: %w", line, err)
		}
		batch = append(batch, models.Ingredient{Name: req.Name, MeasurementUnit: req.MeasurementUnit})
	}
	if len(batch) == 0 {
		return 0, nil
	}

	n, err := s.ingredients.CreateBatch(ctx, batch)
	if err != nil {
		return 0, fmt.Errorf("import ingredients: %w", err)
	}
	logging.Ctx(ctx).Info().Int("count", n).Msg("ingredients imported")
	return n, nil
}
