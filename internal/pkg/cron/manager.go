package cron

import (
	"Blips/internal/api/config"
	"Blips/internal/job"
	"fmt"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine              *cron.Cron
	cfg                 config.JobsConfig
	counterReconcileJob *job.CounterReconcileJob
	uploadCleanupJob    *job.UploadCleanupJob
}

func NewCronManager(cfg config.JobsConfig, counterReconcileJob *job.CounterReconcileJob, uploadCleanupJob *job.UploadCleanupJob) *Manager {
	return &Manager{
		engine:              cron.New(cron.WithSeconds()),
		cfg:                 cfg,
		counterReconcileJob: counterReconcileJob,
		uploadCleanupJob:    uploadCleanupJob,
	}
}

// RegisterJobs registers every job whose spec is non-empty
func (s *Manager) RegisterJobs() error {
	jobs := []struct {
		name string
		spec string
		job  cron.Job
	}{
		{"counter_reconcile", s.cfg.CounterReconcile, s.counterReconcileJob},
		{"upload_cleanup", s.cfg.UploadCleanup, s.uploadCleanupJob},
	}
	for _, j := range jobs {
		if j.spec == "" {
			log.Info("cron job disabled", "job", j.name)
			continue
		}
		if _, err := s.engine.AddJob(j.spec, j.job); err != nil {
			return fmt.Errorf("register %s (%q): %w", j.name, j.spec, err)
		}
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("cron engine started")
	s.engine.Start()
}

// Stop waits for running jobs
func (s *Manager) Stop() {
	ctx := s.engine.Stop()
	<-ctx.Done()
	log.Info("cron engine stopped")
}
