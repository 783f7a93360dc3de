package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fieldline/backend/internal/domain/catalog"
	"github.com/fieldline/backend/internal/infrastructure/config"
)

const maxResponseBytes = 16 << 20 // 16 MiB cap on remote payloads

// Client talks to the remote document store that holds the shared product,
// client, salesman and order collections. It implements catalog.Fetcher for
// bulk reads and catalog.Mirror for order write-through.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a remote store client
func NewClient(cfg *config.RemoteConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		logger: logger,
	}
}

type productDoc struct {
	ID          string `json:"_id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	LotSize     int64  `json:"lot_size"`
	UnitPrice   string `json:"unit_price"`
	Stock       int64  `json:"stock"`
}

type clientDoc struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	ContactName  string `json:"contact_name"`
	ContactPhone string `json:"contact_phone"`
	ManagerID    string `json:"manager_id"`
}

type salesmanDoc struct {
	UID       string `json:"uid"`
	FullName  string `json:"full_name"`
	ManagerID string `json:"manager_id"`
	Email     string `json:"email"`
}

type orderDoc struct {
	ID         string           `json:"_id"`
	ClientID   string           `json:"client_id"`
	SalesmanID string           `json:"salesman_id"`
	Lines      map[string]int64 `json:"lines"`
	Total      string           `json:"total"`
	CreatedAt  time.Time        `json:"created_at"`
}

// FetchProducts retrieves the full product collection
func (c *Client) FetchProducts(ctx context.Context) ([]catalog.Product, error) {
	var docs []productDoc
	if err := c.get(ctx, "/collections/products", nil, &docs); err != nil {
		return nil, err
	}

	products := make([]catalog.Product, 0, len(docs))
	for _, doc := range docs {
		price, err := decimal.NewFromString(doc.UnitPrice)
		if err != nil {
			c.logger.Warn("skipping product with malformed price",
				zap.String("product_id", doc.ID),
				zap.String("unit_price", doc.UnitPrice))
			continue
		}
		products = append(products, catalog.Product{
			ID:          doc.ID,
			Code:        doc.Code,
			Name:        doc.Name,
			Description: doc.Description,
			LotSize:     doc.LotSize,
			UnitPrice:   price,
			Stock:       doc.Stock,
		})
	}
	return products, nil
}

// FetchSalesmen retrieves the salesmen reporting to the given manager
func (c *Client) FetchSalesmen(ctx context.Context, managerID string) ([]catalog.Salesman, error) {
	var docs []salesmanDoc
	query := url.Values{"manager_id": {managerID}}
	if err := c.get(ctx, "/collections/users", query, &docs); err != nil {
		return nil, err
	}

	salesmen := make([]catalog.Salesman, 0, len(docs))
	for _, doc := range docs {
		salesmen = append(salesmen, catalog.Salesman{
			UID:       doc.UID,
			FullName:  doc.FullName,
			ManagerID: doc.ManagerID,
			Email:     doc.Email,
		})
	}
	return salesmen, nil
}

// FetchClients retrieves the clients assigned to the given manager's team
func (c *Client) FetchClients(ctx context.Context, managerID string) ([]catalog.Client, error) {
	var docs []clientDoc
	query := url.Values{"manager_id": {managerID}}
	if err := c.get(ctx, "/collections/clients", query, &docs); err != nil {
		return nil, err
	}

	clients := make([]catalog.Client, 0, len(docs))
	for _, doc := range docs {
		clients = append(clients, catalog.Client{
			ID:           doc.ID,
			Name:         doc.Name,
			Address:      doc.Address,
			ContactName:  doc.ContactName,
			ContactPhone: doc.ContactPhone,
			ManagerID:    doc.ManagerID,
		})
	}
	return clients, nil
}

// FetchOrders retrieves the remote orders committed by any of the given
// salesmen.
func (c *Client) FetchOrders(ctx context.Context, salesmanIDs []string) ([]catalog.Order, error) {
	payload := map[string]any{"salesman_ids": salesmanIDs}
	var docs []orderDoc
	if err := c.post(ctx, "/collections/orders/query", payload, &docs); err != nil {
		return nil, err
	}

	orders := make([]catalog.Order, 0, len(docs))
	for _, doc := range docs {
		total, err := decimal.NewFromString(doc.Total)
		if err != nil {
			c.logger.Warn("skipping order with malformed total",
				zap.String("order_id", doc.ID),
				zap.String("total", doc.Total))
			continue
		}
		orders = append(orders, catalog.Order{
			ID:         doc.ID,
			ClientID:   doc.ClientID,
			SalesmanID: doc.SalesmanID,
			Lines:      doc.Lines,
			Total:      total,
			CreatedAt:  doc.CreatedAt,
		})
	}
	return orders, nil
}

// AddOrder mirrors a locally committed order into the remote store
func (c *Client) AddOrder(ctx context.Context, order catalog.Order) error {
	doc := orderDoc{
		ID:         order.ID,
		ClientID:   order.ClientID,
		SalesmanID: order.SalesmanID,
		Lines:      order.Lines,
		Total:      order.Total.String(),
		CreatedAt:  order.CreatedAt,
	}
	return c.post(ctx, "/collections/orders", doc, nil)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("remote store request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read remote response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("remote store returned status %d: %s", resp.StatusCode, truncate(data, 256))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode remote response: %w", err)
	}
	return nil
}

func truncate(data []byte, limit int) string {
	if len(data) <= limit {
		return string(data)
	}
	return string(data[:limit]) + "..."
}
