package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juanDango/amaris-prueba-backend/internal/core/domain"
)

type fakeFundStore struct {
	funds []domain.Fund
}

func (f *fakeFundStore) Fund(ctx context.Context, id int64) (*domain.Fund, error) {
	for i := range f.funds {
		if f.funds[i].ID == id {
			return &f.funds[i], nil
		}
	}
	return nil, domain.ErrFundNotFound
}

func (f *fakeFundStore) Funds(ctx context.Context) ([]domain.Fund, error) {
	return f.funds, nil
}

func (f *fakeFundStore) FundsByCategory(ctx context.Context, category domain.FundCategory) ([]domain.Fund, error) {
	var out []domain.Fund
	for _, fund := range f.funds {
		if fund.Category == category {
			out = append(out, fund)
		}
	}
	return out, nil
}

func catalog() *fakeFundStore {
	return &fakeFundStore{funds: []domain.Fund{
		{ID: 1, Name: "FPV_BTG_PACTUAL_RECAUDADORA", MinAmount: 75000, Category: domain.CategoryFPV},
		{ID: 3, Name: "DEUDAPRIVADA", MinAmount: 50000, Category: domain.CategoryFIC},
	}}
}

func fundApp() *fiber.App {
	h := &FundHandler{Repo: catalog()}
	app := fiber.New()
	app.Get("/funds", h.ListFunds)
	app.Get("/funds/category/:category", h.ListFundsByCategory)
	app.Get("/funds/:fund_id", h.GetFund)
	return app
}

func decode(t *testing.T, resp *http.Response, into any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(into))
	resp.Body.Close()
}

func TestListFunds(t *testing.T) {
	app := fundApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/funds", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var funds []domain.Fund
	decode(t, resp, &funds)
	require.Len(t, funds, 2)
	assert.Equal(t, "FPV_BTG_PACTUAL_RECAUDADORA", funds[0].Name)
}

func TestGetFund(t *testing.T) {
	app := fundApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/funds/3", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var fund domain.Fund
	decode(t, resp, &fund)
	assert.Equal(t, int64(3), fund.ID)
	assert.Equal(t, int64(50000), fund.MinAmount)
}

func TestGetFundNotFound(t *testing.T) {
	app := fundApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/funds/99", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body map[string]string
	decode(t, resp, &body)
	assert.Contains(t, body["detail"], "fund not found")
}

func TestGetFundNonNumericID(t *testing.T) {
	app := fundApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/funds/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListFundsByCategory(t *testing.T) {
	app := fundApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/funds/category/FIC", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var funds []domain.Fund
	decode(t, resp, &funds)
	require.Len(t, funds, 1)
	assert.Equal(t, "DEUDAPRIVADA", funds[0].Name)
}

func TestListFundsByCategoryInvalid(t *testing.T) {
	app := fundApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/funds/category/BONDS", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}
