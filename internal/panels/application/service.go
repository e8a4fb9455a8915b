package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	panels "solarfarm/internal/panels/domain"
	"solarfarm/internal/observability/metrics"
)

// MaxRowColumn is the largest row or column number in any section.
const MaxRowColumn = 250

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// PanelService validates panel commands and delegates persistence.
type PanelService struct {
	repo   panels.PanelRepository
	clock  Clock
	logger *zap.Logger
}

// ServiceOption configures the service.
type ServiceOption func(*PanelService)

// WithClock overrides the clock used to bound installation years.
func WithClock(clock Clock) ServiceOption {
	return func(s *PanelService) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *PanelService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewPanelService constructs a panel service.
func NewPanelService(repo panels.PanelRepository, opts ...ServiceOption) (*PanelService, error) {
	if repo == nil {
		return nil, errors.New("panel service: nil repository")
	}
	s := &PanelService{repo: repo, clock: systemClock{}, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// MaxInstallationYear is the latest year a panel can have been installed.
func (s *PanelService) MaxInstallationYear() int {
	return s.clock.Now().Year()
}

// FindBySection lists the panels in a section.
func (s *PanelService) FindBySection(ctx context.Context, section string) ([]panels.SolarPanel, error) {
	start := time.Now()
	list, err := s.repo.FindBySection(ctx, section)
	s.observe("find_by_section", start, metrics.ResultSuccess, err)
	return list, err
}

// FindByKey returns the panel occupying key, or nil.
func (s *PanelService) FindByKey(ctx context.Context, key panels.Key) (*panels.SolarPanel, error) {
	start := time.Now()
	panel, err := s.repo.FindByKey(ctx, key)
	result := metrics.ResultSuccess
	if panel == nil {
		result = metrics.ResultNotFound
	}
	s.observe("find_by_key", start, result, err)
	return panel, err
}

// Create validates and stores a new panel.
func (s *PanelService) Create(ctx context.Context, panel *panels.SolarPanel) (Result, error) {
	start := time.Now()
	result, err := s.create(ctx, panel)
	s.observe("create", start, resultLabel(result), err)
	return result, err
}

func (s *PanelService) create(ctx context.Context, panel *panels.SolarPanel) (Result, error) {
	if panel == nil {
		return invalid("solar panel cannot be null"), nil
	}

	result := s.validate(panel)
	if panel.ID != 0 {
		result.addMessage(StatusInvalid, "cannot create an existing solar panel: id must not be set")
	}
	if len(result.Messages) > 0 {
		return result, nil
	}

	existing, err := s.repo.FindByKey(ctx, panel.Key())
	if err != nil {
		return Result{}, err
	}
	if existing != nil {
		return invalid("duplicate solar panel: %s is already occupied", panel.Key()), nil
	}

	created, err := s.repo.Create(ctx, panel)
	if err != nil {
		return Result{}, err
	}
	if created == nil {
		return invalid("solar panel %s was not created", panel.Key()), nil
	}
	s.logger.Debug("solar panel created", zap.Int("id", created.ID), zap.Stringer("key", created.Key()))
	return success(created), nil
}

// Update validates and fully replaces the panel with the same id.
func (s *PanelService) Update(ctx context.Context, panel *panels.SolarPanel) (Result, error) {
	start := time.Now()
	result, err := s.update(ctx, panel)
	s.observe("update", start, resultLabel(result), err)
	return result, err
}

func (s *PanelService) update(ctx context.Context, panel *panels.SolarPanel) (Result, error) {
	if panel == nil {
		return invalid("solar panel cannot be null"), nil
	}

	result := s.validate(panel)
	if panel.ID <= 0 {
		result.addMessage(StatusInvalid, "solar panel id is required for an update")
	}
	if len(result.Messages) > 0 {
		return result, nil
	}

	existing, err := s.repo.FindByKey(ctx, panel.Key())
	if err != nil {
		return Result{}, err
	}
	if existing != nil && existing.ID != panel.ID {
		return invalid("duplicate solar panel: %s is already occupied", panel.Key()), nil
	}

	ok, err := s.repo.Update(ctx, panel)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return notFound("solar panel id %d not found", panel.ID), nil
	}
	s.logger.Debug("solar panel updated", zap.Int("id", panel.ID), zap.Stringer("key", panel.Key()))
	return success(panel), nil
}

// DeleteByKey removes the panel occupying key.
func (s *PanelService) DeleteByKey(ctx context.Context, key panels.Key) (Result, error) {
	start := time.Now()
	ok, err := s.repo.DeleteByKey(ctx, key)
	var result Result
	switch {
	case err != nil:
	case ok:
		result = success(nil)
		s.logger.Debug("solar panel deleted", zap.Stringer("key", key))
	default:
		result = notFound("solar panel %s not found", key)
	}
	s.observe("delete", start, resultLabel(result), err)
	return result, err
}

func (s *PanelService) validate(panel *panels.SolarPanel) Result {
	var result Result
	if strings.TrimSpace(panel.Section) == "" {
		result.addMessage(StatusInvalid, "section is required")
	}
	if panel.Row < 1 || panel.Row > MaxRowColumn {
		result.addMessage(StatusInvalid, "row must be between 1 and %d", MaxRowColumn)
	}
	if panel.Column < 1 || panel.Column > MaxRowColumn {
		result.addMessage(StatusInvalid, "column must be between 1 and %d", MaxRowColumn)
	}
	maxYear := s.MaxInstallationYear()
	if panel.YearInstalled <= 0 {
		result.addMessage(StatusInvalid, "year installed is required")
	} else if panel.YearInstalled > maxYear {
		result.addMessage(StatusInvalid, "year installed must be %d or earlier", maxYear)
	}
	if !panel.Material.IsValid() {
		result.addMessage(StatusInvalid, "material is required")
	}
	return result
}

func (s *PanelService) observe(operation string, start time.Time, result string, err error) {
	if err != nil {
		result = metrics.ResultError
		s.logger.Error("panel operation failed", zap.String("operation", operation), zap.Error(err))
	}
	metrics.ObservePanelOperation(operation, result, time.Since(start))
}

func resultLabel(result Result) string {
	switch result.Status {
	case StatusInvalid:
		return metrics.ResultInvalid
	case StatusNotFound:
		return metrics.ResultNotFound
	default:
		return metrics.ResultSuccess
	}
}
