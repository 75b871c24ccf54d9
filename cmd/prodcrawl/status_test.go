package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/jvasek/prodcrawl"
	main "github.com/jvasek/prodcrawl/cmd/prodcrawl"
	"github.com/jvasek/prodcrawl/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("shows progress counters", func(t *testing.T) {
		t.Parallel()

		session := prodcrawl.NewCrawlSession(testTarget(t), 10, 100)
		session.ID = "sess-1"
		session.MarkVisited("https://shop.example.com")
		session.MarkVisited("https://shop.example.com/proteiny")
		session.AddProductURL("https://shop.example.com/whey-protein")
		session.AddProductURL("https://shop.example.com/bcaa")
		session.MarkProcessed("https://shop.example.com/whey-protein")
		session.AddRecord(&prodcrawl.ProductRecord{
			Name:      "Whey Protein",
			Code:      "8594001234567",
			Price:     "899.00",
			Discount:  "10%",
			SourceURL: "https://shop.example.com/whey-protein",
		})

		sessions := &mock.SessionStore{
			FindSessionByTargetFn: func(_ context.Context, baseURL string) (*prodcrawl.CrawlSession, error) {
				return session, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   stdout,
			Stderr:   &bytes.Buffer{},
			Sessions: sessions,
		}

		cmd := &main.StatusCmd{URL: "https://shop.example.com"}
		err := cmd.Run(deps)

		require.NoError(t, err)
		output := stdout.String()
		assert.Contains(t, output, "Session sess-1 (https://shop.example.com)")
		assert.Contains(t, output, "Pages visited:   2")
		assert.Contains(t, output, "Product URLs:    2 (1 pending)")
		assert.Contains(t, output, "Records:         1")
		assert.Contains(t, output, "With EAN code:   1")
		assert.Contains(t, output, "Discounted:      1")
	})

	t.Run("fails when no session exists", func(t *testing.T) {
		t.Parallel()

		sessions := &mock.SessionStore{
			FindSessionByTargetFn: func(_ context.Context, baseURL string) (*prodcrawl.CrawlSession, error) {
				return nil, prodcrawl.Errorf(prodcrawl.ENOTFOUND, "session not found")
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   &bytes.Buffer{},
			Stderr:   stderr,
			Sessions: sessions,
		}

		cmd := &main.StatusCmd{URL: "https://shop.example.com"}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "no session")
	})
}
