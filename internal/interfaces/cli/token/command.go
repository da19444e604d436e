// Package token implements the token command, which mints access tokens for
// scripts and local testing.
package token

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/orris-inc/helpdesk/internal/domain/user"
	"github.com/orris-inc/helpdesk/internal/infrastructure/auth"
	"github.com/orris-inc/helpdesk/internal/infrastructure/repository"
	"github.com/orris-inc/helpdesk/internal/interfaces/cli/cliutil"
	"github.com/orris-inc/helpdesk/internal/shared/authorization"
)

type UserFinder interface {
	GetByID(ctx context.Context, id uint) (*user.User, error)
}

type Signer interface {
	Generate(userID uint, role authorization.UserRole) (string, time.Time, error)
}

func NewCommand(flags *cliutil.GlobalFlags) *cobra.Command {
	var userID uint

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for a user",
		Long:  `Sign a bearer access token for an existing user with the configured JWT secret.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == 0 {
				return fmt.Errorf("--user-id is required")
			}

			env, err := cliutil.Bootstrap(flags, cliutil.Options{LogToStderr: true})
			if err != nil {
				return err
			}
			defer env.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			users := repository.NewUserRepository(env.DB, env.Log)
			signer := auth.NewJWTService(env.Cfg.Auth.JWT.Secret, env.Cfg.Auth.JWT.AccessExpMinutes)

			return issue(ctx, cmd.OutOrStdout(), users, signer, userID)
		},
	}

	cmd.Flags().UintVar(&userID, "user-id", 0, "ID of the user the token is issued for (required)")

	return cmd
}

func issue(ctx context.Context, out io.Writer, users UserFinder, signer Signer, userID uint) error {
	u, err := users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return fmt.Errorf("user %d not found", userID)
	}

	token, expiresAt, err := signer.Generate(u.ID(), u.Role())
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}

	return cliutil.PrintJSON(out, map[string]any{
		"token":      token,
		"token_type": "Bearer",
		"user_id":    u.ID(),
		"role":       u.Role(),
		"expires_at": expiresAt.UTC().Format(time.RFC3339),
	})
}
