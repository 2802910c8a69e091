package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Eursukkul/train-reservation/internal/models"
	"github.com/go-co-op/gocron/v2"
)

type CatalogReloader interface {
	ReloadCatalog(ctx context.Context) (models.LoadReport, error)
}

// CatalogRefresher reloads the train catalog on a fixed interval.
type CatalogRefresher struct {
	scheduler gocron.Scheduler
	svc       CatalogReloader
	timeout   time.Duration
}

func NewCatalogRefresher(svc CatalogReloader, interval time.Duration) (*CatalogRefresher, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("catalog refresh interval must be positive, got %s", interval)
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	r := &CatalogRefresher{scheduler: s, svc: svc, timeout: interval}
	if _, err := s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(r.refresh),
		gocron.WithName("catalog-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	); err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("schedule catalog refresh: %w", err)
	}
	return r, nil
}

func (r *CatalogRefresher) Start() {
	r.scheduler.Start()
	log.Printf("[CatalogRefresher] started")
}

func (r *CatalogRefresher) Stop() error {
	return r.scheduler.Shutdown()
}

func (r *CatalogRefresher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	report, err := r.svc.ReloadCatalog(ctx)
	if err != nil {
		log.Printf("[CatalogRefresher] reload failed, keeping current catalog: %v", err)
		return
	}
	if report.Skipped > 0 {
		log.Printf("[CatalogRefresher] %d trains loaded, %d rows skipped (first at line %d)",
			report.Rows, report.Skipped, report.FirstSkippedLine)
		return
	}
	log.Printf("[CatalogRefresher] %d trains loaded", report.Rows)
}
