package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/errs"
)

type tagInput struct {
	Name  string `json:"name" validate:"required,max=200"`
	Color string `json:"color" validate:"required,tagcolor"`
	Slug  string `json:"slug" validate:"required,max=200,slug"`
}

type item struct {
	ID     uint `json:"id" validate:"required"`
	Amount int  `json:"amount" validate:"gte=1"`
}

type listInput struct {
	Items []item `json:"items" validate:"required,min=1,dive"`
}

func TestTagColor(t *testing.T) {
	cases := map[string]bool{
		"#abc":    true,
		"#A1B2C3": true,
		"#12345":  false,
		"123456":  false,
		"#GGGGGG": false,
	}
	for color, ok := range cases {
		t.Run(color, func(t *testing.T) {
			err := Struct(tagInput{Name: "Lunch", Color: color, Slug: "lunch"})
			if ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			ve, isVE := errs.AsValidation(err)
			require.True(t, isVE)
			assert.Equal(t, "color", ve.Field)
		})
	}
}

func TestSlugRule(t *testing.T) {
	err := Struct(tagInput{Name: "Lunch", Color: "#fff", Slug: "bad slug"})
	ve, ok := errs.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "slug", ve.Field)
}

func TestNestedFieldPath(t *testing.T) {
	err := Struct(listInput{Items: []item{{ID: 1, Amount: 0}}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrValidation))

	ve, _ := errs.AsValidation(err)
	assert.Equal(t, "items[0].amount", ve.Field)
	assert.Equal(t, "must be greater than or equal to 1", ve.Message)
}

func TestEmptyList(t *testing.T) {
	err := Struct(listInput{Items: []item{}})
	ve, ok := errs.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "items", ve.Field)
}

func TestIsTagColor(t *testing.T) {
	assert.True(t, IsTagColor("#E26C2D"))
	assert.False(t, IsTagColor("E26C2D"))
}
