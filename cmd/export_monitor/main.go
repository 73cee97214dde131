// export_monitor recorre los pagos aprobados pendientes de confirmación,
// valida sus artefactos y dispara la entrega a Workday. Con -interval corre
// en bucle; sin él ejecuta un ciclo y termina.
//
// Uso: go run ./cmd/export_monitor [-interval 5m] [-workday-url URL] [-log-level info]
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tu-usuario/p2p-automation/internal/application/audit"
	"github.com/tu-usuario/p2p-automation/internal/application/exporting"
	"github.com/tu-usuario/p2p-automation/internal/infrastructure/postgres"
	"github.com/tu-usuario/p2p-automation/internal/infrastructure/storage"
	"github.com/tu-usuario/p2p-automation/internal/infrastructure/workday"
	"github.com/tu-usuario/p2p-automation/pkg/config"
	"github.com/tu-usuario/p2p-automation/pkg/logger"
)

func main() {
	interval := flag.Duration("interval", 0, "intervalo entre ciclos; 0 ejecuta un solo ciclo")
	workdayURL := flag.String("workday-url", "", "URL de callback de Workday (por defecto la de configuración)")
	logLevel := flag.String("log-level", "info", "nivel de log: debug, info, warn, error")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	if *workdayURL != "" {
		cfg.Workday.CallbackURL = *workdayURL
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: *logLevel})
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	blobs, err := storage.NewFilesystemStore(cfg.Blob.Root)
	if err != nil {
		log.Fatal().Err(err).Msg("blob store en disco")
	}

	paymentRepo := postgres.NewPaymentRepository(pool)
	auditor := audit.NewRecorder(postgres.NewAuditLogRepository(pool), log)
	delivery := workday.NewClient(cfg.Workday.CallbackURL, log)
	monitor := exporting.NewMonitor(paymentRepo, blobs, delivery, auditor, log)

	runOnce := func() bool {
		stats, err := monitor.RunCycle(ctx)
		if err != nil {
			log.Error().Err(err).Msg("ciclo del monitor abortado")
			return false
		}
		return stats.DeliveriesFailed == 0
	}

	if *interval <= 0 {
		if !runOnce() {
			os.Exit(1)
		}
		return
	}

	log.Info().Dur("interval", *interval).Msg("monitor de exportación en bucle")
	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	runOnce()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("monitor detenido")
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
