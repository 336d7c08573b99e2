package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/comanda/internal/authgate"
	"github.com/dropDatabas3/comanda/internal/config"
)

func tokenCmd(load loadFunc) *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Emite un token firmado para un usuario existente (desarrollo)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			st, err := openStore(cmd, cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			u, err := st.FindStaffUser(cmd.Context(), username)
			if err != nil {
				return fmt.Errorf("user %q: %w", username, err)
			}
			codec, err := authgate.NewCodec(cfg.JWT.Secret, cfg.JWT.Issuer, config.Duration(cfg.JWT.AccessTTL))
			if err != nil {
				return err
			}
			// Sin bump de generación: el token convive con el de la sesión actual.
			tok, exp, err := codec.Issue(*u)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", exp.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "user", "", "Username del staff")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
