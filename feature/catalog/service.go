package catalog

import (
	"context"
	"fmt"

	"shoplist/core/storage"

	"go.uber.org/zap"
)

// Service owns the active matcher.
type Service struct {
	matcher *Matcher
	table   *Table
	origin  Origin
	logger  *zap.Logger
}

// NewService loads the catalog (storage override or embedded) and builds the matcher.
func NewService(ctx context.Context, cfg Config, client storage.Client, bucket string, logger *zap.Logger) (*Service, error) {
	table, origin, err := LoadTable(ctx, client, bucket, cfg.Object, logger)
	if err != nil {
		return nil, err
	}

	matcher, err := NewMatcher(table, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build matcher: %w", err)
	}

	logger.Info("Catalog ready",
		zap.String("origin", string(origin)),
		zap.Int("names", matcher.Size()),
		zap.Float64("threshold", matcher.Threshold()),
	)

	return &Service{matcher: matcher, table: table, origin: origin, logger: logger}, nil
}

// NewServiceFromMatcher wraps an existing matcher.
func NewServiceFromMatcher(m *Matcher, logger *zap.Logger) *Service {
	return &Service{matcher: m, origin: OriginEmbedded, logger: logger}
}

// Matcher returns the active matcher.
func (s *Service) Matcher() *Matcher {
	return s.matcher
}

// Origin reports where the active table came from.
func (s *Service) Origin() Origin {
	return s.origin
}

// Detect categorizes input, falling back to Other.
func (s *Service) Detect(input string) DetectResponse {
	match, ok := s.matcher.Detect(input)
	if !ok {
		return DetectResponse{Match: s.matcher.Categorize(input), Matched: false}
	}
	return DetectResponse{Match: match, Matched: true}
}

// DetectResponse is the payload of the detect endpoint.
type DetectResponse struct {
	Match
	// Matched is false when the Other fallback was used.
	Matched bool `json:"matched"`
}
