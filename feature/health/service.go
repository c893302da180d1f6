package health

import (
	"context"

	"shoplist/core/storage"
	"shoplist/feature/health/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Status values of a check.
const (
	StatusOK       = "ok"
	StatusError    = "error"
	StatusMissing  = "missing"
	StatusDisabled = "disabled"
)

// Check is the outcome of one probe.
type Check struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Report is the combined health of the service.
type Report struct {
	Healthy bool                 `json:"healthy"`
	Storage Check                `json:"storage"`
	Catalog Check                `json:"catalog"`
	Schema  *checks.SchemaReport `json:"schema,omitempty"`
	// SchemaStatus summarizes Schema, or says why it is absent.
	SchemaStatus Check `json:"schema_status"`
}

// Service runs health checks.
type Service struct {
	client        storage.Client
	bucket        string
	catalogObject string
	db            *gorm.DB
	models        []any
	logger        *zap.Logger
}

// NewService creates a new health service. client and db may be nil when the
// corresponding backend is not configured. models are the gorm models whose
// tables the schema check verifies.
func NewService(client storage.Client, bucket, catalogObject string, db *gorm.DB, logger *zap.Logger, models ...any) *Service {
	return &Service{
		client:        client,
		bucket:        bucket,
		catalogObject: catalogObject,
		db:            db,
		models:        models,
		logger:        logger,
	}
}

// CheckStorage verifies the bucket is reachable.
func (s *Service) CheckStorage(ctx context.Context) Check {
	if s.client == nil {
		return Check{Status: StatusDisabled}
	}
	if err := checks.CheckBucket(ctx, s.client, s.bucket); err != nil {
		return Check{Status: StatusError, Error: err.Error()}
	}
	return Check{Status: StatusOK}
}

// CheckCatalog verifies the catalog override object. A missing object is fine:
// the embedded catalog is used instead.
func (s *Service) CheckCatalog(ctx context.Context) Check {
	if s.client == nil || s.catalogObject == "" {
		return Check{Status: StatusDisabled}
	}
	found, err := checks.CheckObject(ctx, s.client, s.bucket, s.catalogObject)
	if err != nil {
		return Check{Status: StatusError, Error: err.Error()}
	}
	if !found {
		return Check{Status: StatusMissing}
	}
	return Check{Status: StatusOK}
}

// CheckSchema compares the list and item tables with their models.
func (s *Service) CheckSchema() (*checks.SchemaReport, Check) {
	if s.db == nil {
		return nil, Check{Status: StatusDisabled}
	}
	report, err := checks.CheckSchema(s.db, s.models...)
	if err != nil {
		return nil, Check{Status: StatusError, Error: err.Error()}
	}
	if !report.Matched {
		return report, Check{Status: StatusError}
	}
	return report, Check{Status: StatusOK}
}

// Run executes every check.
func (s *Service) Run(ctx context.Context) Report {
	report := Report{
		Storage: s.CheckStorage(ctx),
		Catalog: s.CheckCatalog(ctx),
	}
	report.Schema, report.SchemaStatus = s.CheckSchema()

	report.Healthy = report.Storage.Status != StatusError &&
		report.Catalog.Status != StatusError &&
		report.SchemaStatus.Status != StatusError
	return report
}
