package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/comanda/internal/config"
	"github.com/dropDatabas3/comanda/internal/domain/repository"
	dto "github.com/dropDatabas3/comanda/internal/http/dto/auth"
	authsvc "github.com/dropDatabas3/comanda/internal/http/services/auth"
	"github.com/dropDatabas3/comanda/internal/store"
	"github.com/dropDatabas3/comanda/internal/tenantctx"
)

func openStore(cmd *cobra.Command, cfg *config.Config) (repository.Store, error) {
	return store.Open(cmd.Context(), store.AdapterConfig{
		Name:         cfg.Storage.Driver,
		DSN:          cfg.Storage.DSN,
		MaxOpenConns: cfg.Storage.Postgres.MaxOpenConns,
		MaxIdleConns: cfg.Storage.Postgres.MaxIdleConns,
	})
}

func staffCmd(load loadFunc) *cobra.Command {
	staff := &cobra.Command{
		Use:   "staff",
		Short: "Gestión de usuarios del staff",
	}

	var tenant string
	var req dto.StaffRequest
	create := &cobra.Command{
		Use:   "create",
		Short: "Da de alta un usuario (el primer ADMIN de un tenant se crea acá)",
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

			out, err := authsvc.NewStaffService(st).Create(cmd.Context(), tenantctx.Normalize(tenant), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s) in tenant %s\n", out.Username, out.Role, out.Tenant)
			return nil
		},
	}
	create.Flags().StringVar(&tenant, "tenant", "", "Tenant del usuario (vacío = master)")
	create.Flags().StringVar(&req.Username, "username", "", "Username")
	create.Flags().StringVar(&req.Password, "password", "", "Password (mínimo 8 caracteres)")
	create.Flags().StringVar(&req.Role, "role", repository.RoleAdmin, "ADMIN | STAFF | WAITER | KITCHEN")
	_ = create.MarkFlagRequired("username")
	_ = create.MarkFlagRequired("password")

	staff.AddCommand(create)
	return staff
}
