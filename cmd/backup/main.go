// backup exporta o importa el libro completo contra el almacenamiento configurado.
//
// Uso:
//
//	go run ./cmd/backup export [archivo.json]   (sin archivo escribe en stdout)
//	go run ./cmd/backup import archivo.json
//
// import reemplaza clientes, facturas y pagos por el contenido del archivo.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jhoicas/Cartera-api/internal/application/backup"
	"github.com/jhoicas/Cartera-api/internal/application/ledger"
	"github.com/jhoicas/Cartera-api/internal/domain/billing"
	"github.com/jhoicas/Cartera-api/internal/infrastructure/storage"
	"github.com/jhoicas/Cartera-api/pkg/config"
	"github.com/jhoicas/Cartera-api/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	cmd := os.Args[1]
	path := ""
	if len(os.Args) > 2 {
		path = os.Args[2]
	}
	if cmd == "import" && path == "" {
		usage()
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	// Los logs van a stderr para no mezclarse con el documento exportado.
	log := logger.NewWithWriter(logger.Config{App: cfg.App.Name, Env: cfg.App.Env, Level: cfg.Log.Level}, os.Stderr)

	ctx := context.Background()
	gw, closeStorage, err := storage.Open(ctx, cfg, log.Component("storage"))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer closeStorage()

	engine := ledger.NewEngine(gw, billing.NewBuilder(billing.OverpaymentClamp), ledger.WithLogger(log.Component("ledger")))
	svc := backup.NewService(engine)

	switch cmd {
	case "export":
		if err := engine.Load(ctx); err != nil {
			log.Fatal().Err(err).Msg("cargar libro")
		}
		if err := export(svc, path); err != nil {
			log.Fatal().Err(err).Msg("exportar")
		}
		log.Info().Str("file", path).Msg("respaldo exportado")
	case "import":
		f, err := os.Open(path)
		if err != nil {
			log.Fatal().Err(err).Msg("abrir respaldo")
		}
		defer f.Close()
		out, err := svc.ReadFrom(ctx, f)
		if err != nil {
			log.Fatal().Err(err).Msg("importar")
		}
		log.Info().
			Int("customers", out.Customers).
			Int("bills", out.Bills).
			Int("payments", out.Payments).
			Msg("respaldo importado")
	default:
		usage()
	}
}

func export(svc *backup.Service, path string) error {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return svc.WriteTo(w)
}

func usage() {
	fmt.Fprintln(os.Stderr, "uso: backup export [archivo.json] | backup import archivo.json")
	os.Exit(2)
}
