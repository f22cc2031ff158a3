package catalog

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// servidor fake que pagina um catálogo de n produtos
func fakeCatalogServer(t *testing.T, totalItems int, pagesServed *int) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token-teste" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		var page, limit int
		fmt.Sscan(r.URL.Query().Get("page"), &page)
		fmt.Sscan(r.URL.Query().Get("limit"), &limit)

		if pagesServed != nil {
			*pagesServed++
		}

		start := (page - 1) * limit
		end := start + limit
		if end > totalItems {
			end = totalItems
		}

		items := make([]Product, 0)
		for i := start; i < end; i++ {
			items = append(items, Product{
				ID:       fmt.Sprintf("%d", i+1),
				Name:     fmt.Sprintf("Produto %d", i+1),
				Sku:      fmt.Sprintf("SKU-%04d", i+1),
				Price:    10,
				Quantity: 5,
			})
		}

		json.NewEncoder(w).Encode(map[string]any{
			"items": items,
			"total": totalItems,
		})
	}))
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient("not-a-url", "tok")
	assert.Error(t, err)

	_, err = NewClient("ftp://example.com", "tok")
	assert.Error(t, err)

	_, err = NewClient("", "tok")
	assert.Error(t, err)

	_, err = NewClient("https://api.example.com", "")
	assert.Error(t, err)

	c, err := NewClient("https://api.example.com/", "tok")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", c.baseURL)
}

func TestFetchAllProductsTwoPages(t *testing.T) {
	var pages int
	srv := fakeCatalogServer(t, 120, &pages)
	defer srv.Close()

	c, err := NewClient(srv.URL, "token-teste")
	require.NoError(t, err)

	items, err := c.FetchAllProducts()
	require.NoError(t, err)

	// 120 itens = página cheia de 100 + página curta de 20, exatamente 2 requisições
	assert.Len(t, items, 120)
	assert.Equal(t, 2, pages)
}

func TestFetchAllProductsStopsOnReportedTotal(t *testing.T) {
	var pages int
	// total é múltiplo exato do tamanho da página: a parada vem do total
	// informado, sem buscar uma terceira página vazia
	srv := fakeCatalogServer(t, 200, &pages)
	defer srv.Close()

	c, err := NewClient(srv.URL, "token-teste")
	require.NoError(t, err)

	items, err := c.FetchAllProducts()
	require.NoError(t, err)

	assert.Len(t, items, 200)
	assert.Equal(t, 2, pages)
}

func TestFetchAllProductsPageCap(t *testing.T) {
	var pages int
	// upstream mal comportado: sempre devolve página cheia e um total enorme
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages++
		items := make([]Product, PageSize)
		for i := range items {
			items[i] = Product{ID: fmt.Sprintf("%d", i), Quantity: 1}
		}
		json.NewEncoder(w).Encode(map[string]any{
			"items": items,
			"total": 1000000,
		})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "token-teste")
	require.NoError(t, err)

	items, err := c.FetchAllProducts()
	require.NoError(t, err)

	assert.Equal(t, MaxPages, pages)
	assert.Len(t, items, MaxPages*PageSize)
}

func TestFetchAllProductsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "token-teste")
	require.NoError(t, err)

	_, err = c.FetchAllProducts()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestFetchAllProductsInvalidBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("isso não é json"))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "token-teste")
	require.NoError(t, err)

	_, err = c.FetchAllProducts()
	assert.Error(t, err)
}
