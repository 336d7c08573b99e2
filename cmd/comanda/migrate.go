package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/comanda/internal/observability/logger"
	"github.com/dropDatabas3/comanda/internal/store"
	_ "github.com/dropDatabas3/comanda/internal/store/adapters/dal"
)

func migrateCmd(load loadFunc) *cobra.Command {
	var tenants []string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Crea el esquema master y el de cada tenant",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if len(tenants) == 0 {
				tenants = cfg.Storage.Tenants
			}

			st, err := openStore(cmd, cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			m, ok := st.(store.Migratable)
			if !ok {
				return fmt.Errorf("storage driver %q does not need migrations", cfg.Storage.Driver)
			}
			if err := m.Migrate(cmd.Context(), tenants); err != nil {
				return err
			}
			logger.L().Info("migrations applied", logger.Count(len(tenants)))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&tenants, "tenant", nil, "Tenants a migrar (default: storage.tenants)")
	return cmd
}
