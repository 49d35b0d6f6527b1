package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/mamadbah2/concreto/internal/auth"
)

// NewTokenCommand creates the token command.
func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		owner string
		ttl   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for an owner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if owner == "" {
				return errors.New("--owner is required")
			}

			cfg, err := rootOpts.loadConfig()
			if err != nil {
				return err
			}
			if ttl <= 0 {
				ttl = cfg.Auth.TokenTTL
			}

			token, err := auth.NewTokenService(cfg.Auth.JWTSecret, ttl).Issue(owner)
			if err != nil {
				return err
			}
			return rootOpts.emit(cmd.OutOrStdout(), token, map[string]string{"owner": owner, "token": token})
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "owner id carried as the token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to AUTH_TOKEN_TTL)")
	return cmd
}
