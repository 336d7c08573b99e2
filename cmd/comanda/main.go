// Command comanda es el backend multi-tenant de restaurante.
//
//	comanda serve                    levanta la API HTTP
//	comanda migrate --tenant cafe    crea los esquemas en Postgres
//	comanda staff create ...         da de alta un usuario del staff
//	comanda token --user ana         emite un token de desarrollo
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/comanda/internal/config"
	"github.com/dropDatabas3/comanda/internal/observability/logger"
)

func main() {
	// .env es opcional: sin archivo se usan las variables del sistema.
	dotenvErr := godotenv.Load()

	var cfgPath string
	root := &cobra.Command{
		Use:           "comanda",
		Short:         "Backend multi-tenant de restaurante (órdenes, mesas y comandas)",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", os.Getenv("COMANDA_CONFIG"), "Ruta al config YAML (env COMANDA_CONFIG)")

	// Load ya valida: todos los subcomandos comparten la misma configuración.
	load := func() (*config.Config, error) {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, ServiceName: "comanda"})
		if dotenvErr != nil && !os.IsNotExist(dotenvErr) {
			logger.L().Warn(".env not loaded", logger.Err(dotenvErr))
		}
		return cfg, nil
	}

	root.AddCommand(
		serveCmd(load),
		migrateCmd(load),
		staffCmd(load),
		tokenCmd(load),
	)

	err := root.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type loadFunc func() (*config.Config, error)
