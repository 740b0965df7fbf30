package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Measurement units accepted for ingredients.
const (
	UnitGram       = "g"
	UnitKilogram   = "kg"
	UnitMilliliter = "ml"
	UnitLiter      = "l"
	UnitTeaspoon   = "tsp"
	UnitTablespoon = "tbsp"
	UnitPiece      = "piece"
)

// MeasurementUnits lists every valid unit, in catalog order.
var MeasurementUnits = []string{
	UnitGram,
	UnitKilogram,
	UnitMilliliter,
	UnitLiter,
	UnitTeaspoon,
	UnitTablespoon,
	UnitPiece,
}

// ValidMeasurementUnit reports whether unit is one of the accepted units.
func ValidMeasurementUnit(unit string) bool {
	for _, u := range MeasurementUnits {
		if u == unit {
			return true
		}
	}
	return false
}

// Ingredient is a catalog entry. The catalog is read-only through the
// API and loaded out of band (see cmd/importingredients).
type Ingredient struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	MeasurementUnit string    `gorm:"size:50;not null" json:"measurement_unit"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
