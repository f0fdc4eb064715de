package incidents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/models"
)

const idAttempts = 5

// Service applies the incident log rules on top of a Store.
type Service struct {
	store Store
	now   func() time.Time

	seedMu sync.Mutex
	seeded bool
}

// NewService wraps store. A nil now uses time.Now.
func NewService(store Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, now: now}
}

// Samples returns the incidents an empty log is seeded with, dated relative
// to now and ordered as they are listed.
func Samples(now time.Time) []Incident {
	return []Incident{
		{
			ID:          "INC-124578",
			SensorKind:  models.KindSoil,
			Location:    "Zona C - Sector 5",
			Severity:    PriorityCritical,
			Description: "Desviación extrema del nivel de pH (lectura de 4.1). Requiere acción inmediata.",
			Status:      StatusOpen,
			Date:        now.Add(-24 * time.Hour),
		},
		{
			ID:          "INC-930112",
			SensorKind:  models.KindAir,
			Location:    "Estación de Monitoreo Norte",
			Severity:    PriorityHigh,
			Description: "Fallo de comunicación en el sensor de PM10. Se requiere revisión física.",
			Status:      StatusInProgress,
			Date:        now.Add(-time.Hour),
		},
		{
			ID:          "INC-008765",
			SensorKind:  models.KindWater,
			Location:    "Pozo de Recolección P2",
			Severity:    PriorityMedium,
			Description: "Lectura de metales pesados fuera del rango estándar durante las últimas 6 horas.",
			Status:      StatusOpen,
			Date:        now.Add(-3 * time.Hour),
		},
		{
			ID:          "INC-543210",
			SensorKind:  models.KindAir,
			Location:    "Patio de Lixiviación",
			Severity:    PriorityLow,
			Description: "Mantenimiento preventivo pendiente para el sensor de CO2. Tarea rutinaria.",
			Status:      StatusClosed,
			Date:        now.Add(-72 * time.Hour),
		},
	}
}

// ensureSeeded fills an empty store with Samples once per Service.
func (s *Service) ensureSeeded(ctx context.Context) error {
	s.seedMu.Lock()
	defer s.seedMu.Unlock()
	if s.seeded {
		return nil
	}

	existing, err := s.store.List(ctx)
	if err != nil {
		return fmt.Errorf("list incidents: %w", err)
	}
	if len(existing) == 0 {
		samples := Samples(s.now())
		// Inserts prepend, so walk backwards to keep the sample order.
		for i := len(samples) - 1; i >= 0; i-- {
			if err := s.store.Insert(ctx, samples[i]); err != nil && !errors.Is(err, ErrDuplicate) {
				return fmt.Errorf("seed incident %s: %w", samples[i].ID, err)
			}
		}
	}
	s.seeded = true
	return nil
}

// List returns incidents newest first. filter is a status label; "" and
// "Todos" match everything and unknown labels match nothing.
func (s *Service) List(ctx context.Context, filter string) ([]Incident, error) {
	if err := s.ensureSeeded(ctx); err != nil {
		return nil, err
	}
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	filter = strings.TrimSpace(filter)
	if filter == "" || strings.EqualFold(filter, AllStatuses) {
		return all, nil
	}
	out := make([]Incident, 0, len(all))
	want, ok := ParseStatus(filter)
	if !ok {
		return out, nil
	}
	for _, inc := range all {
		if inc.Status == want {
			out = append(out, inc)
		}
	}
	return out, nil
}

// Get returns one incident by id.
func (s *Service) Get(ctx context.Context, id string) (Incident, error) {
	if err := s.ensureSeeded(ctx); err != nil {
		return Incident{}, err
	}
	return s.store.Get(ctx, id)
}

// Create validates d and records it as a new open incident.
func (s *Service) Create(ctx context.Context, d Draft) (Incident, error) {
	inc, err := s.validate(d)
	if err != nil {
		return Incident{}, err
	}
	if err := s.ensureSeeded(ctx); err != nil {
		return Incident{}, err
	}

	ms := inc.Date.UnixMilli()
	for attempt := 0; attempt < idAttempts; attempt++ {
		inc.ID = NewID(ms + int64(attempt))
		err = s.store.Insert(ctx, inc)
		if !errors.Is(err, ErrDuplicate) {
			break
		}
	}
	if err != nil {
		return Incident{}, fmt.Errorf("insert incident: %w", err)
	}
	return inc, nil
}

// SetStatus moves an incident to status and stamps its date.
func (s *Service) SetStatus(ctx context.Context, id, status string) (Incident, error) {
	st, ok := ParseStatus(status)
	if !ok {
		return Incident{}, fmt.Errorf("%w: unknown status %q", ErrInvalid, status)
	}
	if err := s.ensureSeeded(ctx); err != nil {
		return Incident{}, err
	}
	return s.store.UpdateStatus(ctx, id, st, s.now())
}

// Delete removes an incident.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.ensureSeeded(ctx); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

func (s *Service) validate(d Draft) (Incident, error) {
	kind, ok := models.ParseKind(d.SensorKind)
	if !ok {
		return Incident{}, fmt.Errorf("%w: unknown sensor type %q", ErrInvalid, d.SensorKind)
	}
	severity, ok := ParsePriority(d.Severity)
	if !ok {
		return Incident{}, fmt.Errorf("%w: unknown severity %q", ErrInvalid, d.Severity)
	}
	location := strings.TrimSpace(d.Location)
	if location == "" {
		return Incident{}, fmt.Errorf("%w: location is required", ErrInvalid)
	}
	description := strings.TrimSpace(d.Description)
	if description == "" {
		return Incident{}, fmt.Errorf("%w: description is required", ErrInvalid)
	}
	return Incident{
		SensorKind:  kind,
		Location:    location,
		Severity:    severity,
		Description: description,
		Status:      StatusOpen,
		Date:        s.now(),
	}, nil
}

// NewID builds "INC-" followed by the last six digits of ms.
func NewID(ms int64) string {
	if ms < 0 {
		ms = -ms
	}
	return fmt.Sprintf("INC-%06d", ms%1_000_000)
}
