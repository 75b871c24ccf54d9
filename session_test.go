package prodcrawl_test

import (
	"testing"

	"github.com/jvasek/prodcrawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, maxPages, maxProducts int) *prodcrawl.CrawlSession {
	t.Helper()
	target, err := prodcrawl.NewCrawlTarget("https://example.com")
	require.NoError(t, err)
	return prodcrawl.NewCrawlSession(target, maxPages, maxProducts)
}

func TestNewCrawlSession_seeds_queue_with_base_URL(t *testing.T) {
	t.Parallel()

	s := newTestSession(t, 10, 10)

	url, ok := s.PopPage()
	assert.True(t, ok)
	assert.Equal(t, "https://example.com", url)

	_, ok = s.PopPage()
	assert.False(t, ok)
}

func TestCrawlSession_PushPage_rejects_visited_and_queued(t *testing.T) {
	t.Parallel()

	s := newTestSession(t, 10, 10)

	assert.True(t, s.PushPage("https://example.com/a"))
	assert.False(t, s.PushPage("https://example.com/a"), "queued URL should be rejected")

	s.MarkVisited("https://example.com/b")
	assert.False(t, s.PushPage("https://example.com/b"), "visited URL should be rejected")
}

func TestCrawlSession_PushPage_honors_page_budget(t *testing.T) {
	t.Parallel()

	s := newTestSession(t, 2, 10)

	s.MarkVisited("https://example.com/1")
	s.MarkVisited("https://example.com/2")

	assert.False(t, s.PushPage("https://example.com/3"))
	assert.True(t, s.DiscoveryExhausted())
}

func TestCrawlSession_PopPage_skips_URLs_visited_after_queueing(t *testing.T) {
	t.Parallel()

	s := newTestSession(t, 10, 10)
	_, _ = s.PopPage() // drain seed

	s.PushPage("https://example.com/a")
	s.PushPage("https://example.com/b")
	s.MarkVisited("https://example.com/b")

	url, ok := s.PopPage()
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/a", url)

	_, ok = s.PopPage()
	assert.False(t, ok)
}

func TestCrawlSession_AddProductURL_is_monotonic_and_bounded(t *testing.T) {
	t.Parallel()

	s := newTestSession(t, 10, 2)

	assert.True(t, s.AddProductURL("https://example.com/p1"))
	assert.False(t, s.AddProductURL("https://example.com/p1"), "duplicate should be rejected")
	assert.True(t, s.AddProductURL("https://example.com/p2"))
	assert.False(t, s.AddProductURL("https://example.com/p3"), "product budget should be enforced")
}

func TestCrawlSession_PendingProducts_excludes_processed(t *testing.T) {
	t.Parallel()

	s := newTestSession(t, 10, 10)

	s.AddProductURL("https://example.com/p1")
	s.AddProductURL("https://example.com/p2")
	s.MarkProcessed("https://example.com/p1")

	pending := s.PendingProducts()
	assert.Equal(t, []string{"https://example.com/p2"}, pending)

	s.MarkProcessed("https://example.com/p2")
	assert.Empty(t, s.PendingProducts())
}

func TestCrawlSession_NeedsDiscovery_false_after_resume_with_products(t *testing.T) {
	t.Parallel()

	s := newTestSession(t, 10, 10)
	assert.True(t, s.NeedsDiscovery())

	s.AddProductURL("https://example.com/p1")
	assert.False(t, s.NeedsDiscovery())
}

func TestCrawlSession_RestoreQueue_keeps_disjoint_from_visited(t *testing.T) {
	t.Parallel()

	s := newTestSession(t, 10, 10)
	_, _ = s.PopPage() // drain seed

	s.MarkVisited("https://example.com/seen")
	s.RestoreQueue([]string{"https://example.com/seen", "https://example.com/new"})

	assert.Equal(t, 1, s.QueueLen())
	url, ok := s.PopPage()
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/new", url)
}

func TestCrawlSession_Stats_counts_record_fields(t *testing.T) {
	t.Parallel()

	s := newTestSession(t, 10, 10)
	s.AddProductURL("https://example.com/p1")
	s.AddProductURL("https://example.com/p2")
	s.MarkProcessed("https://example.com/p1")

	s.AddRecord(&prodcrawl.ProductRecord{
		Name:          "Whey",
		Code:          "1234567890123",
		Price:         "80",
		OriginalPrice: "100",
		Discount:      "20%",
		SourceURL:     "https://example.com/p1",
	})
	s.AddRecord(&prodcrawl.ProductRecord{
		Name:      "Creatine",
		SourceURL: "https://example.com/p2",
	})

	st := s.Stats()
	assert.Equal(t, 2, st.ProductURLs)
	assert.Equal(t, 1, st.Processed)
	assert.Equal(t, 1, st.Pending)
	assert.Equal(t, 2, st.Records)
	assert.Equal(t, 1, st.WithCode)
	assert.Equal(t, 1, st.WithPrice)
	assert.Equal(t, 1, st.Discounted)
}

func TestTruncateAvailability_caps_length_and_strips_controls(t *testing.T) {
	t.Parallel()

	long := ""
	for i := 0; i < 30; i++ {
		long += "skladem "
	}
	assert.Len(t, prodcrawl.TruncateAvailability(long), 100)

	assert.Equal(t, "Skladem", prodcrawl.TruncateAvailability("\x00Skladem\x1f"))
}

func TestProductRecord_Validate_errorCodes(t *testing.T) {
	t.Parallel()

	r := &prodcrawl.ProductRecord{Name: "Whey", SourceURL: "https://example.com/p"}
	assert.NoError(t, r.Validate())

	r = &prodcrawl.ProductRecord{SourceURL: "https://example.com/p"}
	assert.Equal(t, prodcrawl.EINVALID, prodcrawl.ErrorCode(r.Validate()))

	r = &prodcrawl.ProductRecord{Name: "Whey"}
	assert.Equal(t, prodcrawl.EINVALID, prodcrawl.ErrorCode(r.Validate()))
}
