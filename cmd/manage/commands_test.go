package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/service"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	service.PasswordCost = bcrypt.MinCost
	dir := t.TempDir()
	t.Setenv("ENV", "test")
	t.Setenv("SECRETS_DIR", dir)
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(dir, "manage.db"))
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestManageCommands(t *testing.T) {
	dir := setupEnv(t)

	out, err := execute(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "schema up to date")

	csvPath := filepath.Join(dir, "ingredients.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("name,measurement_unit\nflour,g\negg,pcs\n"), 0o600))
	out, err = execute(t, "load-ingredients", "--skip-header", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 2 ingredients")

	out, err = execute(t, "create-superuser", "--username", "root", "--email", "root@example.com", "--password", "super-secret-pass")
	require.NoError(t, err)
	assert.Contains(t, out, "superuser root created")

	_, err = execute(t, "create-superuser", "--username", "root", "--email", "root@example.com", "--password", "super-secret-pass")
	assert.ErrorIs(t, err, errs.ErrAlreadyExists)

	out, err = execute(t, "create-tag", "--name", "Lunch", "--color", "#E26C2D", "--slug", "lunch")
	require.NoError(t, err)
	assert.Contains(t, out, "tag lunch created")

	_, err = execute(t, "create-tag", "--name", "Bad", "--color", "#12345", "--slug", "bad")
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestLoadIngredientsMissingFile(t *testing.T) {
	setupEnv(t)
	_, err := execute(t, "migrate")
	require.NoError(t, err)
	_, err = execute(t, "load-ingredients", "/nonexistent/file.csv")
	assert.Error(t, err)
}
