package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/Eursukkul/train-reservation/internal/models"
)

// DefaultCatalogFile is used when the caller supplies no catalog path.
const DefaultCatalogFile = "train.csv"

const trainFields = 8

var (
	ErrIOUnavailable = errors.New("file unavailable")
	ErrNotFound      = errors.New("record not found")
)

type TrainRepository interface {
	Load(ctx context.Context, path string) (models.LoadReport, error)
	FindAll() []models.Train
	FindByNumber(number string) (*models.Train, error)
	SearchByRoute(from, to string) []models.Train
	SearchByName(name string) []models.Train
}

type trainRepository struct {
	mu     sync.RWMutex
	trains []models.Train
}

func NewTrainRepository() TrainRepository {
	return &trainRepository{}
}

// Load replaces the catalog with the trains parsed from path. On failure the
// current catalog is kept as is.
func (r *trainRepository) Load(ctx context.Context, path string) (models.LoadReport, error) {
	if err := ctx.Err(); err != nil {
		return models.LoadReport{}, err
	}
	if path == "" {
		path = DefaultCatalogFile
	}

	f, err := os.Open(path)
	if err != nil {
		return models.LoadReport{}, fmt.Errorf("%w: open catalog: %v", ErrIOUnavailable, err)
	}
	defer f.Close()

	trains, report, err := parseTrains(f)
	if err != nil {
		return report, fmt.Errorf("%w: read catalog: %v", ErrIOUnavailable, err)
	}

	r.mu.Lock()
	r.trains = trains
	r.mu.Unlock()
	return report, nil
}

func (r *trainRepository) FindAll() []models.Train {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Train(nil), r.trains...)
}

// FindByNumber returns the first train with an exactly matching number.
func (r *trainRepository) FindByNumber(number string) (*models.Train, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.trains {
		if t.Number == number {
			found := t
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (r *trainRepository) SearchByRoute(from, to string) []models.Train {
	return r.filter(func(t models.Train) bool {
		return strings.EqualFold(t.From, from) && strings.EqualFold(t.To, to)
	})
}

func (r *trainRepository) SearchByName(name string) []models.Train {
	key := strings.ToLower(name)
	return r.filter(func(t models.Train) bool {
		return strings.Contains(strings.ToLower(t.Name), key)
	})
}

func (r *trainRepository) filter(match func(models.Train) bool) []models.Train {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := []models.Train{}
	for _, t := range r.trains {
		if match(t) {
			result = append(result, t)
		}
	}
	return result
}

// parseTrains reads a header row followed by train rows. Rows with fewer
// than eight fields are skipped and recorded in the report.
func parseTrains(src io.Reader) ([]models.Train, models.LoadReport, error) {
	var report models.LoadReport
	trains := []models.Train{}
	seen := make(map[string]struct{})

	isHeader := func([]string) bool { return true }
	err := readRows(src, isHeader, func(line int, raw string, record []string) error {
		if len(record) < trainFields {
			report.Skip(line, raw)
			return nil
		}
		t := models.Train{
			Number:    strings.TrimSpace(record[0]),
			Name:      strings.TrimSpace(record[1]),
			From:      strings.TrimSpace(record[2]),
			To:        strings.TrimSpace(record[3]),
			Arrival:   strings.TrimSpace(record[4]),
			Departure: strings.TrimSpace(record[5]),
			Stop:      strings.TrimSpace(record[6]),
			Classes:   models.NewClassSet(record[7]),
		}
		if _, dup := seen[t.Number]; dup {
			report.Duplicates++
		}
		seen[t.Number] = struct{}{}
		trains = append(trains, t)
		report.Rows++
		return nil
	})
	return trains, report, err
}
