// Package service implements the business operations behind the role
// dashboards (admin, operator, customer, driver). Every mutation runs
// inside repository.Document.Update so the shared document is only
// ever changed under the single-writer boundary.
package service

import (
	"github.com/pkg/errors"

	"example.com/millops/internal/metrics"
	"example.com/millops/internal/repository"
	"example.com/millops/internal/search"
	"example.com/millops/internal/tracing"
)

// Sentinel errors surfaced to the API layer
var (
	// ErrNotFound indicates the referenced entity does not exist
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates a rejected request; nothing was mutated
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials indicates a failed login
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Service bundles the business operations over the shared document
type Service struct {
	repo    *repository.Document
	metrics *metrics.Metrics
	elastic *search.ElasticClient
	tracer  tracing.Tracer
}

// NewService creates a new service
func NewService(
	repo *repository.Document,
	collector *metrics.Metrics,
	elastic *search.ElasticClient,
	tracer tracing.Tracer,
) *Service {
	return &Service{
		repo:    repo,
		metrics: collector,
		elastic: elastic,
		tracer:  tracer,
	}
}

// Repo exposes the underlying repository for read-only consumers such
// as exports
func (s *Service) Repo() *repository.Document {
	return s.repo
}
