package catalog

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// PageSize: tamanho de página pedido à API do catálogo
	PageSize = 100
	// MaxPages: teto de páginas por execução, protege contra uma API
	// que nunca para de retornar itens
	MaxPages = 50
)

// Product - item do catálogo externo
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Sku      string  `json:"sku"`
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"` // quantidade disponível em estoque
}

type productsPage struct {
	Items []Product `json:"items"`
	Total int       `json:"total"`
}

// Client - cliente da API externa de catálogo (paginada, bearer token)
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("URL da API não informada")
	}

	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("URL da API inválida: %q", baseURL)
	}

	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("token da API não informado")
	}

	return &Client{
		baseURL: baseURL,
		token:   token,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// FetchAllProducts busca o catálogo inteiro, página a página, até a página
// vir incompleta, o total informado pela API ser atingido ou MaxPages.
// Qualquer erro aborta a busca inteira; não há retry.
func (c *Client) FetchAllProducts() ([]Product, error) {
	var all []Product
	reportedTotal := -1

	for page := 1; page <= MaxPages; page++ {
		pg, err := c.fetchPage(page)
		if err != nil {
			return nil, err
		}

		all = append(all, pg.Items...)
		reportedTotal = pg.Total

		// página incompleta = última página
		if len(pg.Items) < PageSize {
			break
		}
		// total informado atingido
		if reportedTotal >= 0 && len(all) >= reportedTotal {
			break
		}
	}

	return all, nil
}

func (c *Client) fetchPage(page int) (*productsPage, error) {
	reqURL := fmt.Sprintf("%s/products?page=%d&limit=%d", c.baseURL, page, PageSize)

	req, err := http.NewRequest(http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("não foi possível montar a requisição: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("falha ao consultar a API do catálogo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("API do catálogo respondeu com status %d na página %d", resp.StatusCode, page)
	}

	var pg productsPage
	if err := json.NewDecoder(resp.Body).Decode(&pg); err != nil {
		return nil, fmt.Errorf("resposta da API do catálogo inválida: %w", err)
	}

	return &pg, nil
}
