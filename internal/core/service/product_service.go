package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/madezdev/ecommerce-api/internal/core/domain"
	"github.com/madezdev/ecommerce-api/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

type productService struct {
	products ports.ProductRepository
	log      zerolog.Logger
}

// NewProductService returns a ProductService implementation.
func NewProductService(products ports.ProductRepository, log zerolog.Logger) ports.ProductService {
	return &productService{products: products, log: log}
}

func (s *productService) List(ctx context.Context, f domain.ProductFilter) ([]*domain.Product, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = defaultPageLimit
	}
	if f.Limit > maxPageLimit {
		f.Limit = maxPageLimit
	}
	items, total, err := s.products.List(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return items, total, nil
}

func (s *productService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *productService) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	normalizeProduct(p)
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now

	created, err := s.products.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("product_id", created.ID).Str("slug", created.Slug).Msg("product created")
	return created, nil
}

func (s *productService) Update(ctx context.Context, id string, p *domain.Product) (*domain.Product, error) {
	current, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	normalizeProduct(p)
	p.ID = current.ID
	p.CreatedAt = current.CreatedAt
	p.UpdatedAt = time.Now().UTC()

	updated, err := s.products.Update(ctx, p)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("product_id", id).Msg("product updated")
	return updated, nil
}

func (s *productService) Delete(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("product_id", id).Msg("product deleted")
	return nil
}

func normalizeProduct(p *domain.Product) {
	p.Title = strings.TrimSpace(p.Title)
	if p.Slug == "" {
		p.Slug = p.Title
	}
	p.Slug = Slugify(p.Slug)
	if p.Category == "" {
		p.Category = domain.CategoryOther
	}
	if p.SubCategory == "" {
		p.SubCategory = "otros"
	}
}

// Slugify lowercases s and collapses every non-alphanumeric run into a dash.
func Slugify(s string) string {
	s = slugInvalid.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-")
	return strings.Trim(s, "-")
}
