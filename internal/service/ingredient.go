package service

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/platefeed/backend/internal/models"
)

var ErrIngredientNotFound = errors.New("ingredient not found")

// IngredientService handles read access to the ingredient catalog and
// the CSV bulk import used to load it.
type IngredientService struct {
	db *gorm.DB
}

func NewIngredientService(db *gorm.DB) *IngredientService {
	return &IngredientService{db: db}
}

// likeEscaper neutralizes LIKE metacharacters so a user-supplied
// prefix matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ListIngredients returns catalog entries whose name starts with
// prefix, by name. An empty prefix returns the whole catalog.
func (s *IngredientService) ListIngredients(ctx context.Context, prefix string) ([]models.Ingredient, error) {
	query := s.db.WithContext(ctx).Order("name")
	if prefix != "" {
		query = query.Where(`name LIKE ? ESCAPE '\'`, likeEscaper.Replace(prefix)+"%")
	}
	var ingredients []models.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

// GetIngredient retrieves a catalog entry by ID.
func (s *IngredientService) GetIngredient(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIngredientNotFound
		}
		return nil, err
	}
	return &ingredient, nil
}

// ImportCSV bulk-loads catalog entries from rows of
// (name, measurement_unit), skipping rows that conflict on an existing
// name. Returns the number of rows submitted for insertion.
func (s *IngredientService) ImportCSV(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2

	var rows []models.Ingredient
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
		name, unit := record[0], record[1]
		if name == "" {
			return 0, validationErrorf("ingredient name cannot be empty")
		}
		if !models.ValidMeasurementUnit(unit) {
			return 0, validationErrorf("unknown measurement unit %q for ingredient %q", unit, name)
		}
		rows = append(rows, models.Ingredient{Name: name, MeasurementUnit: unit})
	}
	if len(rows) == 0 {
		return 0, nil
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}
