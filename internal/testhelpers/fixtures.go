package testhelpers

import (
	"fmt"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/models"
)

// TestPassword is the plain password of every user created by CreateUser.
const TestPassword = "s3cret-pass"

var passwordHash = func() string {
	h, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(h)
}()

// CreateUser inserts a regular user named username.
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		FirstName:    "First " + username,
		LastName:     "Last " + username,
		PasswordHash: passwordHash,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

// CreateStaff inserts a staff user.
func CreateStaff(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := CreateUser(t, db, username)
	if err := db.Model(u).Update("is_staff", true).Error; err != nil {
		t.Fatalf("promote %s: %v", username, err)
	}
	u.IsStaff = true
	return u
}

func CreateTag(t *testing.T, db *gorm.DB, name, slug, color string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name, Slug: slug, Color: color}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("create tag %s: %v", slug, err)
	}
	return tag
}

func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ing := &models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(ing).Error; err != nil {
		t.Fatalf("create ingredient %s: %v", name, err)
	}
	return ing
}

// Item pairs an ingredient with an amount for CreateRecipe.
type Item struct {
	Ingredient *models.Ingredient
	Amount     int
}

// CreateRecipe inserts a recipe with its tags and ingredients. Successive
// calls get increasing pub dates.
func CreateRecipe(t *testing.T, db *gorm.DB, author *models.User, name string, tags []*models.Tag, items ...Item) *models.Recipe {
	t.Helper()
	r := &models.Recipe{
		Name:        name,
		Text:        fmt.Sprintf("How to cook %s", name),
		CookingTime: 10,
		PubDate:     nextPubDate(),
	}
	if author != nil {
		r.AuthorID = &author.ID
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(r).Error; err != nil {
			return err
		}
		for _, tag := range tags {
			if err := tx.Create(&models.RecipeTag{RecipeID: r.ID, TagID: tag.ID}).Error; err != nil {
				return err
			}
		}
		for _, it := range items {
			row := models.RecipeIngredient{RecipeID: r.ID, IngredientID: it.Ingredient.ID, Amount: it.Amount}
			if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("create recipe %s: %v", name, err)
	}
	return r
}

var pubClock = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func nextPubDate() time.Time {
	pubClock = pubClock.Add(time.Minute)
	return pubClock
}
