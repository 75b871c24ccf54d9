package crawl_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jvasek/prodcrawl"
	"github.com/jvasek/prodcrawl/crawl"
	"github.com/jvasek/prodcrawl/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBase = "https://shop.example.com"

// testSite wires a Crawler against an in-memory site description:
// pageLinks maps a page URL to the links its selector yields, and
// products maps a product URL to the record extraction produces.
type testSite struct {
	pageLinks map[string][]prodcrawl.DiscoveredLink
	products  map[string]*prodcrawl.ProductRecord

	fetches atomic.Int64
}

func (s *testSite) crawler() *crawl.Crawler {
	selector := &mock.LinkSelector{
		ExtractLinksFn: func(html, baseURL string) ([]prodcrawl.DiscoveredLink, error) {
			return s.pageLinks[baseURL], nil
		},
	}
	return &crawl.Crawler{
		Fetcher: &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				s.fetches.Add(1)
				return "<html>" + url + "</html>", nil
			},
		},
		Extractor: &mock.ProductExtractor{
			ExtractFn: func(ctx context.Context, html, sourceURL string) (*prodcrawl.ProductRecord, error) {
				record, ok := s.products[sourceURL]
				if !ok {
					return nil, prodcrawl.Errorf(prodcrawl.ENOTFOUND, "no product name found at %s", sourceURL)
				}
				return record, nil
			},
		},
		LinkSelectors: &mock.LinkSelectorRegistry{
			GetForHTMLFn: func(html string) prodcrawl.LinkSelector { return selector },
		},
		RateLimiter: crawl.NewDomainLimiter(time.Microsecond, time.Microsecond),
		Concurrency: 2,
	}
}

func productLink(url string) prodcrawl.DiscoveredLink {
	return prodcrawl.DiscoveredLink{URL: url, Kind: prodcrawl.LinkProduct, Source: "product-grid"}
}

func paginationLink(url string) prodcrawl.DiscoveredLink {
	return prodcrawl.DiscoveredLink{URL: url, Kind: prodcrawl.LinkPagination, Source: "pagination"}
}

func categoryLink(url string) prodcrawl.DiscoveredLink {
	return prodcrawl.DiscoveredLink{URL: url, Kind: prodcrawl.LinkCategory, Source: "sidebar"}
}

func TestCrawler_Crawl_discovers_and_extracts(t *testing.T) {
	t.Parallel()

	site := &testSite{
		pageLinks: map[string][]prodcrawl.DiscoveredLink{
			testBase: {
				productLink(testBase + "/whey-protein"),
				productLink(testBase + "/kreatin"),
				productLink(testBase + "/bcaa"),
				paginationLink(testBase + "/proteiny?page=2"),
			},
			testBase + "/proteiny?page=2": {
				productLink(testBase + "/gainer"),
				// Repeats from page 1 must not be double-counted.
				productLink(testBase + "/whey-protein"),
			},
		},
		products: map[string]*prodcrawl.ProductRecord{
			testBase + "/whey-protein": {Name: "Whey Protein", Code: "8594001234567", Price: "899", SourceURL: testBase + "/whey-protein"},
			testBase + "/kreatin":      {Name: "Kreatin", Price: "399", SourceURL: testBase + "/kreatin"},
			testBase + "/bcaa":         {Name: "BCAA", SourceURL: testBase + "/bcaa"},
			testBase + "/gainer":       {Name: "Gainer", SourceURL: testBase + "/gainer"},
		},
	}

	target, err := prodcrawl.NewCrawlTarget(testBase)
	require.NoError(t, err)
	session := prodcrawl.NewCrawlSession(target, 100, 1000)

	result, err := site.crawler().Crawl(context.Background(), session, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, result.PagesVisited)
	assert.Equal(t, 4, result.ProductURLs)
	assert.Equal(t, 4, result.Extracted)
	assert.Equal(t, 0, result.Failed)
	assert.Len(t, session.Records, 4)
	// 2 discovery fetches + 4 extraction fetches.
	assert.Equal(t, int64(6), site.fetches.Load())
}

func TestCrawler_Crawl_url_can_be_both_category_page_and_product(t *testing.T) {
	t.Parallel()

	// Shoptet category pages often carry product detail markup too, so
	// the same URL can arrive through a category selector group and the
	// product classifier. Queueing it as a page must not block it from
	// the product set, and vice versa.
	both := testBase + "/gainer-sada"
	site := &testSite{
		pageLinks: map[string][]prodcrawl.DiscoveredLink{
			testBase: {
				categoryLink(both),
				productLink(both),
			},
		},
		products: map[string]*prodcrawl.ProductRecord{
			both: {Name: "Gainer sada", Price: "1299", SourceURL: both},
		},
	}

	target, err := prodcrawl.NewCrawlTarget(testBase)
	require.NoError(t, err)
	session := prodcrawl.NewCrawlSession(target, 100, 1000)

	result, err := site.crawler().Crawl(context.Background(), session, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, result.PagesVisited, "both URLs crawled as pages")
	assert.Equal(t, 1, result.ProductURLs)
	assert.Equal(t, 1, result.Extracted)
	assert.Contains(t, session.VisitedPages, both)
	assert.Contains(t, session.ProcessedURLs, both)
	require.Len(t, session.Records, 1)
	assert.Equal(t, "Gainer sada", session.Records[0].Name)
}

func TestCrawler_Crawl_second_run_does_no_work(t *testing.T) {
	t.Parallel()

	site := &testSite{
		pageLinks: map[string][]prodcrawl.DiscoveredLink{
			testBase: {productLink(testBase + "/whey-protein")},
		},
		products: map[string]*prodcrawl.ProductRecord{
			testBase + "/whey-protein": {Name: "Whey Protein", SourceURL: testBase + "/whey-protein"},
		},
	}

	target, err := prodcrawl.NewCrawlTarget(testBase)
	require.NoError(t, err)
	session := prodcrawl.NewCrawlSession(target, 100, 1000)

	crawler := site.crawler()
	_, err = crawler.Crawl(context.Background(), session, nil)
	require.NoError(t, err)
	require.Len(t, session.Records, 1)

	site.fetches.Store(0)
	result, err := crawler.Crawl(context.Background(), session, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(0), site.fetches.Load(), "a completed session must not fetch anything")
	assert.Equal(t, 0, result.Extracted)
	assert.Len(t, session.Records, 1)
}

func TestCrawler_Crawl_resumed_session_skips_straight_to_extraction(t *testing.T) {
	t.Parallel()

	site := &testSite{
		pageLinks: map[string][]prodcrawl.DiscoveredLink{},
		products: map[string]*prodcrawl.ProductRecord{
			testBase + "/whey-protein": {Name: "Whey Protein", SourceURL: testBase + "/whey-protein"},
		},
	}

	target, err := prodcrawl.NewCrawlTarget(testBase)
	require.NoError(t, err)
	session := prodcrawl.NewCrawlSession(target, 100, 1000)
	session.AddProductURL(testBase + "/whey-protein")

	result, err := site.crawler().Crawl(context.Background(), session, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, result.PagesVisited, "known product URLs mean no discovery")
	assert.Equal(t, 1, result.Extracted)
	assert.Equal(t, int64(1), site.fetches.Load())
}

func TestCrawler_Crawl_does_not_duplicate_checkpointed_records(t *testing.T) {
	t.Parallel()

	site := &testSite{
		pageLinks: map[string][]prodcrawl.DiscoveredLink{},
		products: map[string]*prodcrawl.ProductRecord{
			testBase + "/whey-protein": {Name: "Whey Protein", SourceURL: testBase + "/whey-protein"},
		},
	}

	target, err := prodcrawl.NewCrawlTarget(testBase)
	require.NoError(t, err)
	session := prodcrawl.NewCrawlSession(target, 100, 1000)
	// A crash between record append and processed-mark leaves this state.
	session.AddProductURL(testBase + "/whey-protein")
	session.AddRecord(&prodcrawl.ProductRecord{Name: "Whey Protein", SourceURL: testBase + "/whey-protein"})

	result, err := site.crawler().Crawl(context.Background(), session, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Extracted)
	assert.Equal(t, 1, result.Skipped)
	assert.Len(t, session.Records, 1)
}

func TestCrawler_Crawl_counts_non_product_pages_as_skipped(t *testing.T) {
	t.Parallel()

	site := &testSite{
		pageLinks: map[string][]prodcrawl.DiscoveredLink{
			testBase: {productLink(testBase + "/jak-vybrat-protein")},
		},
		products: map[string]*prodcrawl.ProductRecord{},
	}

	target, err := prodcrawl.NewCrawlTarget(testBase)
	require.NoError(t, err)
	session := prodcrawl.NewCrawlSession(target, 100, 1000)

	result, err := site.crawler().Crawl(context.Background(), session, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Extracted)
	assert.Equal(t, 1, result.Skipped)
	assert.Contains(t, session.ProcessedURLs, testBase+"/jak-vybrat-protein",
		"non-product pages are marked processed so they are never re-tried")
}

func TestCrawler_Crawl_seeds_from_sitemap(t *testing.T) {
	t.Parallel()

	site := &testSite{
		pageLinks: map[string][]prodcrawl.DiscoveredLink{},
		products: map[string]*prodcrawl.ProductRecord{
			testBase + "/whey-protein-1kg": {Name: "Whey Protein", SourceURL: testBase + "/whey-protein-1kg"},
		},
	}

	crawler := site.crawler()
	crawler.Sitemaps = &mock.SitemapService{
		DiscoverURLsFn: func(ctx context.Context, baseURL string) ([]string, error) {
			return []string{testBase + "/whey-protein-1kg", testBase + "/kosik"}, nil
		},
	}

	target, err := prodcrawl.NewCrawlTarget(testBase)
	require.NoError(t, err)
	session := prodcrawl.NewCrawlSession(target, 100, 1000)

	result, err := crawler.Crawl(context.Background(), session, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Extracted, "sitemap product URL extracted, cart URL filtered out")
	assert.Contains(t, session.ProductURLs, testBase+"/whey-protein-1kg")
}

func TestCrawler_Crawl_checkpoints_through_session_store(t *testing.T) {
	t.Parallel()

	site := &testSite{
		pageLinks: map[string][]prodcrawl.DiscoveredLink{
			testBase: {productLink(testBase + "/whey-protein")},
		},
		products: map[string]*prodcrawl.ProductRecord{
			testBase + "/whey-protein": {Name: "Whey Protein", SourceURL: testBase + "/whey-protein"},
		},
	}

	var saves atomic.Int64
	crawler := site.crawler()
	crawler.CheckpointInterval = 1
	crawler.Sessions = &mock.SessionStore{
		SaveSessionFn: func(ctx context.Context, session *prodcrawl.CrawlSession) error {
			saves.Add(1)
			return nil
		},
	}

	target, err := prodcrawl.NewCrawlTarget(testBase)
	require.NoError(t, err)
	session := prodcrawl.NewCrawlSession(target, 100, 1000)

	_, err = crawler.Crawl(context.Background(), session, nil)
	require.NoError(t, err)

	// One per visited page, one per extraction, one final.
	assert.GreaterOrEqual(t, saves.Load(), int64(3))
}

func TestCrawler_Crawl_checkpoints_on_cancellation(t *testing.T) {
	t.Parallel()

	site := &testSite{
		pageLinks: map[string][]prodcrawl.DiscoveredLink{},
		products:  map[string]*prodcrawl.ProductRecord{},
	}

	var saves atomic.Int64
	crawler := site.crawler()
	crawler.Sessions = &mock.SessionStore{
		SaveSessionFn: func(ctx context.Context, session *prodcrawl.CrawlSession) error {
			saves.Add(1)
			return nil
		},
	}

	target, err := prodcrawl.NewCrawlTarget(testBase)
	require.NoError(t, err)
	session := prodcrawl.NewCrawlSession(target, 100, 1000)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = crawler.Crawl(ctx, session, nil)
	require.Error(t, err)
	assert.Equal(t, int64(1), saves.Load(), "canceled crawls still save their state")
}

func TestCrawler_Crawl_reports_progress(t *testing.T) {
	t.Parallel()

	site := &testSite{
		pageLinks: map[string][]prodcrawl.DiscoveredLink{
			testBase: {productLink(testBase + "/whey-protein")},
		},
		products: map[string]*prodcrawl.ProductRecord{
			testBase + "/whey-protein": {Name: "Whey Protein", SourceURL: testBase + "/whey-protein"},
		},
	}

	var eventsMu sync.Mutex
	var events []crawl.ProgressEvent
	progress := func(event crawl.ProgressEvent) {
		eventsMu.Lock()
		events = append(events, event)
		eventsMu.Unlock()
	}

	target, err := prodcrawl.NewCrawlTarget(testBase)
	require.NoError(t, err)
	session := prodcrawl.NewCrawlSession(target, 100, 1000)

	_, err = site.crawler().Crawl(context.Background(), session, progress)
	require.NoError(t, err)

	var started, finished int
	for _, e := range events {
		switch e.Type {
		case crawl.ProgressStarted:
			started++
		case crawl.ProgressFinished:
			finished++
		}
	}
	assert.Equal(t, 2, started, "one start per phase")
	assert.Equal(t, 2, finished, "one finish per phase")
}
