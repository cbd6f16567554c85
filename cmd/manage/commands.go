package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/pageza/foodgram/backend/internal/validation"
)

// app carries the database opened by the root command.
type app struct {
	db    *gorm.DB
	repos *repository.Set
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "manage",
		Short:         "Administrative commands for foodgram",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			logging.Init(logging.Config{Level: cfg.Log.Level, Format: "console", Output: cmd.ErrOrStderr()})
			db, err := database.New(cfg.Database)
			if err != nil {
				return err
			}
			a.db = db
			a.repos = repository.NewSet(db)
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.db == nil {
				return nil
			}
			sqlDB, err := a.db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
	root.AddCommand(
		a.migrateCmd(),
		a.loadIngredientsCmd(),
		a.createSuperuserCmd(),
		a.createTagCmd(),
	)
	return root
}

func (a *app) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema with gorm auto-migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := database.AutoMigrate(a.db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}

func (a *app) loadIngredientsCmd() *cobra.Command {
	var skipHeader bool
	cmd := &cobra.Command{
		Use:   "load-ingredients <file.csv>",
		Short: "Import ingredients from a name,measurement_unit CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			n, err := service.NewIngredientService(a.repos.Ingredients).Import(cmd.Context(), f, skipHeader)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d ingredients\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipHeader, "skip-header", false, "ignore the first line of the file")
	return cmd
}

func (a *app) createSuperuserCmd() *cobra.Command {
	var req types.RegisterRequest
	cmd := &cobra.Command{
		Use:   "create-superuser",
		Short: "Create a user with staff and superuser rights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req.Email = strings.TrimSpace(req.Email)
			if err := validation.Struct(req); err != nil {
				return err
			}
			hash, err := service.HashPassword(req.Password)
			if err != nil {
				return err
			}
			user := &models.User{
				Username:     req.Username,
				Email:        req.Email,
				FirstName:    req.FirstName,
				LastName:     req.LastName,
				PasswordHash: hash,
				IsStaff:      true,
				IsSuperuser:  true,
			}
			if err := a.repos.Users.Create(cmd.Context(), user); err != nil {
				return fmt.Errorf("create superuser %s: %w", req.Username, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "superuser %s created with id %d\n", user.Username, user.ID)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Username, "username", "", "username")
	f.StringVar(&req.Email, "email", "", "email address")
	f.StringVar(&req.FirstName, "first-name", "Admin", "first name")
	f.StringVar(&req.LastName, "last-name", "Admin", "last name")
	f.StringVar(&req.Password, "password", "", "password (at least 8 characters)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (a *app) createTagCmd() *cobra.Command {
	var req types.TagRequest
	cmd := &cobra.Command{
		Use:   "create-tag",
		Short: "Create a recipe tag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validation.Struct(req); err != nil {
				return err
			}
			tag := &models.Tag{Name: req.Name, Color: req.Color, Slug: req.Slug}
			if err := a.repos.Tags.Create(cmd.Context(), tag); err != nil {
				return fmt.Errorf("create tag %s: %w", req.Slug, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tag %s created with id %d\n", tag.Slug, tag.ID)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Name, "name", "", "display name")
	f.StringVar(&req.Color, "color", "", "hex color such as #49B64E")
	f.StringVar(&req.Slug, "slug", "", "url slug")
	for _, name := range []string{"name", "color", "slug"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
