// Package analytics exposes the five aggregate read operations to the
// transport layer. The service is a pass-through: all grouping and
// filtering happens in the store, and every call recomputes from the
// full stored record set.
package analytics

import (
	"context"

	"github.com/shemigam1/dream-devs-assesment/internal/models"
)

// Store is the aggregation capability the service consumes.
type Store interface {
	TopMerchant(ctx context.Context) (*models.TopMerchant, error)
	MonthlyActiveMerchants(ctx context.Context) (models.OrderedCounts, error)
	ProductAdoption(ctx context.Context) (models.OrderedCounts, error)
	KycFunnel(ctx context.Context) (models.KycFunnel, error)
	FailureRates(ctx context.Context) ([]models.ProductFailureRate, error)
}

// Service decouples the HTTP layer from direct storage access.
type Service struct {
	store Store
}

// New returns a Service backed by st.
func New(st Store) *Service {
	return &Service{store: st}
}

// TopMerchant returns the merchant with the highest total successful
// volume, or nil when the store holds no SUCCESS records.
func (s *Service) TopMerchant(ctx context.Context) (*models.TopMerchant, error) {
	return s.store.TopMerchant(ctx)
}

// MonthlyActiveMerchants returns distinct active merchants per YYYY-MM
// month, ascending.
func (s *Service) MonthlyActiveMerchants(ctx context.Context) (models.OrderedCounts, error) {
	return s.store.MonthlyActiveMerchants(ctx)
}

// ProductAdoption returns distinct merchants per product, highest first.
func (s *Service) ProductAdoption(ctx context.Context) (models.OrderedCounts, error) {
	return s.store.ProductAdoption(ctx)
}

// KycFunnel returns distinct merchants at each KYC verification stage.
func (s *Service) KycFunnel(ctx context.Context) (models.KycFunnel, error) {
	return s.store.KycFunnel(ctx)
}

// FailureRates returns per-product failure percentages, highest first.
func (s *Service) FailureRates(ctx context.Context) ([]models.ProductFailureRate, error) {
	return s.store.FailureRates(ctx)
}
