package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/pageza/foodgram/backend/internal/validation"
)

// reservedUsernames collide with fixed routes under /users.
var reservedUsernames = map[string]bool{"me": true, "subscriptions": true, "set_password": true}

// UserService handles registration, profiles and subscriptions.
type UserService struct {
	users   repository.UserRepository
	subs    repository.SubscriptionRepository
	recipes repository.RecipeRepository
}

func NewUserService(repos *repository.Set) *UserService {
	return &UserService{
		users:   repos.Users,
		subs:    repos.Subscriptions,
		recipes: repos.Recipes,
	}
}

func (s *UserService) Register(ctx context.Context, req types.RegisterRequest) (*types.UserResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if reservedUsernames[strings.ToLower(req.Username)] {
		return nil, errs.Invalid("username", "username %q is reserved", req.Username)
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: a user with this username or email already exists", errs.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("register: %w", err)
	}
	resp := types.NewUserResponse(user, false)
	return &resp, nil
}

func (s *UserService) Get(ctx context.Context, caller types.Caller, id uint) (*types.UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	followed, err := s.subs.FollowedAmong(ctx, caller.UserID, []uint{user.ID})
	if err != nil {
		return nil, err
	}
	resp := types.NewUserResponse(user, followed[user.ID])
	return &resp, nil
}

func (s *UserService) Me(ctx context.Context, caller types.Caller) (*types.UserResponse, error) {
	if err := requireAuth(caller); err != nil {
		return nil, err
	}
	return s.Get(ctx, caller, caller.UserID)
}

func (s *UserService) List(ctx context.Context, caller types.Caller, page types.Page) ([]types.UserResponse, int64, error) {
	users, total, err := s.users.List(ctx, page)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	ids := make([]uint, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}
	followed, err := s.subs.FollowedAmong(ctx, caller.UserID, ids)
	if err != nil {
		return nil, 0, err
	}
	out := make([]types.UserResponse, len(users))
	for i := range users {
		out[i] = types.NewUserResponse(&users[i], followed[users[i].ID])
	}
	return out, total, nil
}

// Subscribe makes the caller follow targetID. Following yourself is a
// validation error and following twice is errs.ErrAlreadyExists.
func (s *UserService) Subscribe(ctx context.Context, caller types.Caller, targetID uint, recipesLimit int) (*types.SubscriptionResponse, error) {
	if err := requireAuth(caller); err != nil {
		return nil, err
	}
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("subscribe to %d: %w", targetID, err)
	}
	if target.ID == caller.UserID {
		return nil, errs.Invalid("following", "you cannot subscribe to yourself")
	}
	if err := s.subs.Create(ctx, caller.UserID, target.ID); err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: already subscribed to %s", errs.ErrAlreadyExists, target.Username)
		}
		return nil, fmt.Errorf("subscribe to %d: %w", targetID, err)
	}
	subs, err := s.subscriptionResponses(ctx, []models.User{*target}, map[uint]bool{target.ID: true}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &subs[0], nil
}

// Unsubscribe succeeds when no subscription exists.
func (s *UserService) Unsubscribe(ctx context.Context, caller types.Caller, targetID uint) error {
	if err := requireAuth(caller); err != nil {
		return err
	}
	if _, err := s.users.FindByID(ctx, targetID); err != nil {
		return fmt.Errorf("unsubscribe from %d: %w", targetID, err)
	}
	if err := s.subs.Delete(ctx, caller.UserID, targetID); err != nil {
		return fmt.Errorf("unsubscribe from %d: %w", targetID, err)
	}
	return nil
}

func (s *UserService) Subscriptions(ctx context.Context, caller types.Caller, page types.Page, recipesLimit int) ([]types.SubscriptionResponse, int64, error) {
	if err := requireAuth(caller); err != nil {
		return nil, 0, err
	}
	users, total, err := s.subs.ListFollowing(ctx, caller.UserID, page)
	if err != nil {
		return nil, 0, fmt.Errorf("list subscriptions: %w", err)
	}
	followed := make(map[uint]bool, len(users))
	for _, u := range users {
		followed[u.ID] = true
	}
	out, err := s.subscriptionResponses(ctx, users, followed, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *UserService) subscriptionResponses(ctx context.Context, users []models.User, followed map[uint]bool, recipesLimit int) ([]types.SubscriptionResponse, error) {
	ids := make([]uint, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}
	counts, err := s.recipes.CountByAuthors(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count recipes: %w", err)
	}

	out := make([]types.SubscriptionResponse, 0, len(users))
	for i := range users {
		recipes, err := s.recipes.ListByAuthor(ctx, users[i].ID, recipesLimit)
		if err != nil {
			return nil, fmt.Errorf("list recipes of %d: %w", users[i].ID, err)
		}
		short := make([]types.RecipeShort, len(recipes))
		for j := range recipes {
			short[j] = types.NewRecipeShort(&recipes[j])
		}
		out = append(out, types.SubscriptionResponse{
			UserResponse: types.NewUserResponse(&users[i], followed[users[i].ID]),
			Recipes:      short,
			RecipesCount: counts[users[i].ID],
		})
	}
	return out, nil
}
