package goquery_test

import (
	"testing"

	"github.com/jvasek/prodcrawl"
	"github.com/jvasek/prodcrawl/goquery"
	"github.com/jvasek/prodcrawl/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClassifier(t *testing.T) *prodcrawl.Classifier {
	t.Helper()
	target, err := prodcrawl.NewCrawlTarget("https://example.com")
	require.NoError(t, err)
	return prodcrawl.NewClassifier(target)
}

func TestRegistry_GetForHTML_returns_registered_selector(t *testing.T) {
	t.Parallel()

	classifier := newTestClassifier(t)
	fallback := goquery.NewGenericSelector(classifier)
	registry := goquery.NewRegistry(goquery.NewDetector(), fallback)
	registry.Register(prodcrawl.PlatformShoptet, goquery.NewShoptetSelector(classifier))

	html := `<html><head><meta name="generator" content="Shoptet"></head><body></body></html>`

	selector := registry.GetForHTML(html)
	assert.Equal(t, "shoptet", selector.Name())
}

func TestRegistry_GetForHTML_falls_back_for_unknown_platform(t *testing.T) {
	t.Parallel()

	classifier := newTestClassifier(t)
	fallback := goquery.NewGenericSelector(classifier)
	registry := goquery.NewRegistry(goquery.NewDetector(), fallback)

	selector := registry.GetForHTML(`<html><body></body></html>`)
	assert.Equal(t, "generic", selector.Name())
}

func TestRegistry_GetForHTML_falls_back_when_platform_not_registered(t *testing.T) {
	t.Parallel()

	classifier := newTestClassifier(t)
	fallback := goquery.NewGenericSelector(classifier)
	detector := &mock.PlatformDetector{
		DetectFn: func(html string) prodcrawl.Platform { return prodcrawl.PlatformShopify },
	}
	registry := goquery.NewRegistry(detector, fallback)

	selector := registry.GetForHTML(`<html></html>`)
	assert.Equal(t, "generic", selector.Name())
}

func TestRegistry_Get_returns_nil_for_unregistered(t *testing.T) {
	t.Parallel()

	classifier := newTestClassifier(t)
	registry := goquery.NewRegistry(goquery.NewDetector(), goquery.NewGenericSelector(classifier))

	assert.Nil(t, registry.Get(prodcrawl.PlatformWooCommerce))
}

func TestRegistry_List_returns_registered_platforms(t *testing.T) {
	t.Parallel()

	classifier := newTestClassifier(t)
	registry := goquery.NewRegistry(goquery.NewDetector(), goquery.NewGenericSelector(classifier))
	registry.Register(prodcrawl.PlatformShoptet, goquery.NewShoptetSelector(classifier))
	registry.Register(prodcrawl.PlatformShopify, goquery.NewShopifySelector(classifier))

	platforms := registry.List()
	assert.ElementsMatch(t, []prodcrawl.Platform{prodcrawl.PlatformShoptet, prodcrawl.PlatformShopify}, platforms)
}
