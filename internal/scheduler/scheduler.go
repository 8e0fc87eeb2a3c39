package scheduler

import (
	"context"
	"time"

	"github.com/jhoicas/ecommerce-stock/internal/application/allocation"
	"github.com/jhoicas/ecommerce-stock/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Scheduler tareas periódicas del servicio. Hoy solo el barrido de bajo stock, que
// re-emite señales para filas bajo umbral (cubre notificaciones best-effort perdidas).
type Scheduler struct {
	cron      *cron.Cron
	sweep     *allocation.LowStockSweep
	sweepSpec string
	log       *logger.Logger
}

// New construye el scheduler. sweepSpec es una expresión cron estándar de 5 campos;
// vacía deshabilita el barrido.
func New(sweep *allocation.LowStockSweep, sweepSpec string, log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		sweep:     sweep,
		sweepSpec: sweepSpec,
		log:       log,
	}
}

// Start programa las tareas y arranca el cron.
func (s *Scheduler) Start() {
	if s.sweepSpec == "" {
		s.log.Info().Msg("barrido de bajo stock deshabilitado")
		return
	}
	if _, err := s.cron.AddFunc(s.sweepSpec, s.runSweep); err != nil {
		s.log.Error().Err(err).Str("spec", s.sweepSpec).Msg("programar barrido de bajo stock")
		return
	}
	s.cron.Start()
	s.log.Info().Str("spec", s.sweepSpec).Msg("scheduler iniciado")
}

// Stop detiene el cron y espera a que terminen las tareas en curso.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if _, err := s.sweep.Run(ctx); err != nil {
		s.log.Error().Err(err).Msg("barrido de bajo stock fallido")
	}
}
