package service

import (
	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

func requireAuth(caller types.Caller) error {
	if !caller.IsAuthenticated() {
		return errs.ErrUnauthorized
	}
	return nil
}

// requireAdmin allows staff and superusers.
func requireAdmin(caller types.Caller) error {
	if err := requireAuth(caller); err != nil {
		return err
	}
	if !caller.IsAdmin() {
		return errs.ErrForbidden
	}
	return nil
}

// canModify allows the recipe's author and admins. A recipe whose author was
// deleted can only be changed by admins.
func canModify(caller types.Caller, recipe *models.Recipe) error {
	if err := requireAuth(caller); err != nil {
		return err
	}
	if caller.IsAdmin() || recipe.IsAuthoredBy(caller.UserID) {
		return nil
	}
	return errs.ErrForbidden
}
