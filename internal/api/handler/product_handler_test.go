package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/madezdev/ecommerce-api/internal/core/domain"
	"github.com/madezdev/ecommerce-api/internal/core/ports"
)

type stubProductService struct {
	ports.ProductService
	filter  domain.ProductFilter
	created *domain.Product
}

func (s *stubProductService) List(_ context.Context, f domain.ProductFilter) ([]*domain.Product, int64, error) {
	s.filter = f
	return []*domain.Product{{ID: "p1"}}, 45, nil
}

func (s *stubProductService) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	s.created = p
	p.ID = "p1"
	return p, nil
}

func TestProductHandler_List_InactiveOnlyForAdmins(t *testing.T) {
	cases := []struct {
		name      string
		principal *domain.Principal
		want      bool
	}{
		{"anonymous", nil, false},
		{"user", &domain.Principal{ID: "u1", Role: domain.RoleUser}, false},
		{"admin", &domain.Principal{ID: "a1", Role: domain.RoleAdmin}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newEcho()
			stub := &stubProductService{}
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet,
				"/api/products?includeInactive=true&category=bombas&offer=true&page=2&limit=20", nil), rec)
			if tc.principal != nil {
				c.Set("principal", tc.principal)
			}

			if err := NewProductHandler(stub).List(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if stub.filter.IncludeInactive != tc.want {
				t.Fatalf("expected includeInactive=%v, got %v", tc.want, stub.filter.IncludeInactive)
			}
			if stub.filter.Category != domain.CategoryPumps || !stub.filter.OnlyOffers || stub.filter.Page != 2 {
				t.Fatalf("filters not forwarded: %+v", stub.filter)
			}
			resp := decode(t, rec)
			if resp["totalPages"] != float64(3) {
				t.Fatalf("expected 3 pages, got %v", resp["totalPages"])
			}
		})
	}
}

func TestProductHandler_List_BadQuery(t *testing.T) {
	e := newEcho()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/products?page=abc", nil), httptest.NewRecorder())
	if err := NewProductHandler(&stubProductService{}).List(c); err == nil {
		t.Fatalf("expected error for non-numeric page")
	}
}

func TestProductHandler_Create_Defaults(t *testing.T) {
	e := newEcho()
	stub := &stubProductService{}
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/products",
		`{"title":"Bomba solar","price":{"price":100},"stock":4}`), rec)

	if err := NewProductHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if !stub.created.Active || stub.created.Price.IVA != domain.DefaultIVA {
		t.Fatalf("expected active product with default IVA, got %+v", stub.created)
	}
}
