package service

import (
	"context"
	"io"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Login(ctx context.Context, req types.LoginRequest) (string, error)
	Logout(ctx context.Context, claims *types.TokenClaims) error
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
	SetPassword(ctx context.Context, caller types.Caller, req types.SetPasswordRequest) error
}

// IUserService defines the interface for user and subscription operations
type IUserService interface {
	Register(ctx context.Context, req types.RegisterRequest) (*types.UserResponse, error)
	Get(ctx context.Context, caller types.Caller, id uint) (*types.UserResponse, error)
	Me(ctx context.Context, caller types.Caller) (*types.UserResponse, error)
	List(ctx context.Context, caller types.Caller, page types.Page) ([]types.UserResponse, int64, error)
	Subscribe(ctx context.Context, caller types.Caller, targetID uint, recipesLimit int) (*types.SubscriptionResponse, error)
	Unsubscribe(ctx context.Context, caller types.Caller, targetID uint) error
	Subscriptions(ctx context.Context, caller types.Caller, page types.Page, recipesLimit int) ([]types.SubscriptionResponse, int64, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	List(ctx context.Context, caller types.Caller, query RecipeQuery, page types.Page) ([]types.RecipeResponse, int64, error)
	Get(ctx context.Context, caller types.Caller, id uint) (*types.RecipeResponse, error)
	Create(ctx context.Context, caller types.Caller, req types.RecipeWriteRequest) (*types.RecipeResponse, error)
	Update(ctx context.Context, caller types.Caller, id uint, req types.RecipeWriteRequest) (*types.RecipeResponse, error)
	Delete(ctx context.Context, caller types.Caller, id uint) error
	Favorites(ctx context.Context, caller types.Caller, page types.Page) ([]types.RecipeResponse, int64, error)
	AddFavorite(ctx context.Context, caller types.Caller, recipeID uint) (*types.RecipeShort, error)
	RemoveFavorite(ctx context.Context, caller types.Caller, recipeID uint) error
	AddToCart(ctx context.Context, caller types.Caller, recipeID uint) (*types.RecipeShort, error)
	RemoveFromCart(ctx context.Context, caller types.Caller, recipeID uint) error
	ShoppingList(ctx context.Context, caller types.Caller) ([]types.ShoppingListItem, error)
}

// ITagService defines the interface for tag operations
type ITagService interface {
	List(ctx context.Context) ([]models.Tag, error)
	Get(ctx context.Context, id uint) (*models.Tag, error)
	Create(ctx context.Context, caller types.Caller, req types.TagRequest) (*models.Tag, error)
	Update(ctx context.Context, caller types.Caller, id uint, req types.TagRequest) (*models.Tag, error)
	Delete(ctx context.Context, caller types.Caller, id uint) error
}

// IIngredientService defines the interface for ingredient operations
type IIngredientService interface {
	List(ctx context.Context, namePrefix string) ([]models.Ingredient, error)
	Get(ctx context.Context, id uint) (*models.Ingredient, error)
	Create(ctx context.Context, caller types.Caller, req types.IngredientRequest) (*models.Ingredient, error)
	Update(ctx context.Context, caller types.Caller, id uint, req types.IngredientRequest) (*models.Ingredient, error)
	Delete(ctx context.Context, caller types.Caller, id uint) error
	Import(ctx context.Context, r io.Reader, skipHeader bool) (int, error)
}

var (
	_ IAuthService       = (*AuthService)(nil)
	_ IUserService       = (*UserService)(nil)
	_ IRecipeService     = (*RecipeService)(nil)
	_ ITagService        = (*TagService)(nil)
	_ IIngredientService = (*IngredientService)(nil)
)
