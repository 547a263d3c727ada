package command

import (
	"context"
	"errors"
	"fmt"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var createSuperuserCmd = &cobra.Command{
	Use:   "createsuperuser",
	Short: "Create an administrator account",
	Long: `Create a user with the admin role and the superuser flag. The account
logs in like any other: run "auth signup" with the same username and email
to receive a confirmation code.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		email, _ := cmd.Flags().GetString("email")

		return withDB(func(ctx context.Context, db *gorm.DB) error {
			user, err := createSuperuser(ctx, repository.NewUserRepository(db), username, email)
			if err != nil {
				return err
			}
			color.Green("✓ Superuser %s created (id %s)", user.Username, user.ID)
			return nil
		})
	},
}

var setRoleCmd = &cobra.Command{
	Use:   "setrole [username] [role]",
	Short: "Change a user's role (user, moderator, admin)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(ctx context.Context, db *gorm.DB) error {
			user, err := setRole(ctx, repository.NewUserRepository(db), args[0], models.Role(args[1]))
			if err != nil {
				return err
			}
			color.Green("✓ %s is now %s", user.Username, user.Role)
			return nil
		})
	},
}

func init() {
	createSuperuserCmd.Flags().StringP("username", "u", "", "Username")
	createSuperuserCmd.Flags().StringP("email", "e", "", "Email address")
	createSuperuserCmd.MarkFlagRequired("username")
	createSuperuserCmd.MarkFlagRequired("email")
}

func createSuperuser(ctx context.Context, users repository.UserRepository, username, email string) (*models.User, error) {
	req := dto.CreateUserRequest{Username: username, Email: email, Role: models.RoleAdmin}
	if err := dto.Validator().Struct(req); err != nil {
		return nil, fmt.Errorf("invalid account details: %w", err)
	}

	user := &models.User{
		Username:    username,
		Email:       email,
		Role:        models.RoleAdmin,
		IsSuperuser: true,
	}
	if err := users.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, errors.New("a user with this username or email already exists")
		}
		return nil, err
	}
	return user, nil
}

func setRole(ctx context.Context, users repository.UserRepository, username string, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	user, err := users.FindByUsername(ctx, username)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("user %q not found", username)
		}
		return nil, err
	}
	user.Role = role
	if err := users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
