package repository

import "gorm.io/gorm"

// Set bundles every repository over one database handle.
type Set struct {
	Users         UserRepository
	Subscriptions SubscriptionRepository
	Tags          TagRepository
	Ingredients   IngredientRepository
	Recipes       RecipeRepository
	Favorites     LinkRepository
	ShoppingCart  LinkRepository
}

func NewSet(db *gorm.DB) *Set {
	return &Set{
		Users:         NewUserRepository(db),
		Subscriptions: NewSubscriptionRepository(db),
		Tags:          NewTagRepository(db),
		Ingredients:   NewIngredientRepository(db),
		Recipes:       NewRecipeRepository(db),
		Favorites:     NewFavoriteRepository(db),
		ShoppingCart:  NewShoppingCartRepository(db),
	}
}
