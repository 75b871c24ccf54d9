package mock

import (
	"context"

	"github.com/jvasek/prodcrawl"
)

var _ prodcrawl.ProductExtractor = (*ProductExtractor)(nil)

// ProductExtractor is a mock implementation of prodcrawl.ProductExtractor.
type ProductExtractor struct {
	ExtractFn func(ctx context.Context, html string, sourceURL string) (*prodcrawl.ProductRecord, error)
}

func (e *ProductExtractor) Extract(ctx context.Context, html string, sourceURL string) (*prodcrawl.ProductRecord, error) {
	return e.ExtractFn(ctx, html, sourceURL)
}
