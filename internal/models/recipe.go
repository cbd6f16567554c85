package models

import (
	"time"
)

type Tag struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:200;not null;uniqueIndex" json:"name"`
	Color string `gorm:"size:7;not null;uniqueIndex" json:"color"`
	Slug  string `gorm:"size:200;not null;uniqueIndex" json:"slug"`
}

type Ingredient struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Name            string `gorm:"size:200;not null;index" json:"name"`
	MeasurementUnit string `gorm:"size:200;not null" json:"measurement_unit"`
}

// Recipe is ordered newest first by pub_date. AuthorID is nulled when the
// author is deleted.
type Recipe struct {
	ID          uint               `gorm:"primaryKey"`
	AuthorID    *uint              `gorm:"index"`
	Author      *User              `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL"`
	Name        string             `gorm:"size:200;not null"`
	Text        string             `gorm:"type:text;not null"`
	Image       string             `gorm:"size:255"`
	CookingTime int                `gorm:"not null"`
	PubDate     time.Time          `gorm:"not null;index"`
	Tags        []Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
	Ingredients []RecipeIngredient `gorm:"constraint:OnDelete:CASCADE"`
}

// RecipeTag is a row of the recipe_tags join table.
type RecipeTag struct {
	RecipeID uint `gorm:"primaryKey"`
	TagID    uint `gorm:"primaryKey"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}

// RecipeIngredient carries the amount of one ingredient in a recipe.
// Ingredients referenced here cannot be deleted.
type RecipeIngredient struct {
	ID           uint        `gorm:"primaryKey"`
	RecipeID     uint        `gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	IngredientID uint        `gorm:"not null;uniqueIndex:idx_recipe_ingredient;index"`
	Ingredient   *Ingredient `gorm:"constraint:OnDelete:RESTRICT"`
	Amount       int         `gorm:"not null"`
}

// IsAuthoredBy reports whether userID wrote the recipe.
func (r *Recipe) IsAuthoredBy(userID uint) bool {
	return r.AuthorID != nil && *r.AuthorID == userID
}
