package ports

import "context"

// Fetcher defines the interface for downloading artifacts.
//
//go:generate go run go.uber.org/mock/mockgen -source=fetcher.go -destination=mocks/mock_fetcher.go -package=mocks
type Fetcher interface {
	// Fetch downloads url to dest. dest either ends up complete or absent.
	Fetch(ctx context.Context, url, dest string) error
}
