// Package jobs tareas periódicas sobre el libro de créditos.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Cartera-api/internal/application/ledger"
)

// Reconciler operación del motor que usa la tarea.
type Reconciler interface {
	ReconcileAll(ctx context.Context, repair bool) ([]ledger.Reconciliation, error)
}

// ReconcileResult resumen de una pasada de conciliación.
type ReconcileResult struct {
	Checked  int
	Drifted  int
	Repaired int
}

// ReconcileJob concilia el crédito de todos los clientes según una expresión cron.
type ReconcileJob struct {
	ledger  Reconciler
	spec    string
	repair  bool
	timeout time.Duration
	log     zerolog.Logger
	cron    *cron.Cron
}

// NewReconcileJob construye la tarea; spec es una expresión cron de 5 campos.
func NewReconcileJob(l Reconciler, spec string, repair bool, log zerolog.Logger) *ReconcileJob {
	return &ReconcileJob{
		ledger:  l,
		spec:    spec,
		repair:  repair,
		timeout: time.Minute,
		log:     log,
	}
}

// Run ejecuta una pasada: registra cada diferencia y, si repair está activo, la corrige.
func (j *ReconcileJob) Run(ctx context.Context) (ReconcileResult, error) {
	results, err := j.ledger.ReconcileAll(ctx, j.repair)
	var res ReconcileResult
	for _, r := range results {
		res.Checked++
		if r.Matches {
			continue
		}
		res.Drifted++
		if r.Repaired {
			res.Repaired++
		}
		j.log.Warn().
			Str("customer_id", r.CustomerID).
			Str("stored", r.Stored.String()).
			Str("computed", r.Computed.String()).
			Bool("repaired", r.Repaired).
			Msg("crédito no coincide con el historial")
	}
	if err != nil {
		j.log.Error().Err(err).Int("checked", res.Checked).Msg("conciliación interrumpida")
		return res, err
	}
	j.log.Info().
		Int("checked", res.Checked).
		Int("drifted", res.Drifted).
		Int("repaired", res.Repaired).
		Msg("conciliación completada")
	return res, nil
}

// Start programa la tarea y arranca el planificador.
func (j *ReconcileJob) Start() error {
	c := cron.New()
	if _, err := c.AddFunc(j.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		defer cancel()
		_, _ = j.Run(ctx)
	}); err != nil {
		return fmt.Errorf("programar conciliación %q: %w", j.spec, err)
	}
	c.Start()
	j.cron = c
	j.log.Info().Str("spec", j.spec).Bool("repair", j.repair).Msg("conciliación programada")
	return nil
}

// Stop detiene el planificador y espera la pasada en curso.
func (j *ReconcileJob) Stop() {
	if j.cron == nil {
		return
	}
	<-j.cron.Stop().Done()
}
