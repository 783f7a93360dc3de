package catalog

import "context"

// Fetcher bulk-loads reference collections from the remote store. Each call
// is one request/response returning a snapshot consistent at call time; calls
// are idempotent and safely retryable. Callers keep their previous data when
// a call fails.
type Fetcher interface {
	FetchProducts(ctx context.Context) ([]Product, error)
	FetchSalesmen(ctx context.Context, managerID string) ([]Salesman, error)
	FetchClients(ctx context.Context, managerID string) ([]Client, error)
	FetchOrders(ctx context.Context, salesmanIDs []string) ([]Order, error)
}

// Mirror writes committed orders back to the remote store. A thin
// pass-through: failures are logged by callers, never block a local commit.
type Mirror interface {
	AddOrder(ctx context.Context, order Order) error
}
