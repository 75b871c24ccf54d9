package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/jvasek/prodcrawl"
	"github.com/jvasek/prodcrawl/crawl"
	"github.com/jvasek/prodcrawl/excelize"
	"github.com/jvasek/prodcrawl/goquery"
	prodhttp "github.com/jvasek/prodcrawl/http"
	prodslog "github.com/jvasek/prodcrawl/slog"
	"github.com/jvasek/prodcrawl/sqlite"
)

func main() {
	// An interrupt cancels the crawl; the crawler checkpoints the session
	// before returning, so accumulated progress survives Ctrl-C.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	SessionStore prodcrawl.SessionStore
	ReportWriter prodcrawl.ReportWriter
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("prodcrawl"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'prodcrawl --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set PRODCRAWL_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.SessionStore = sqlite.NewSessionStore(m.DB)
	m.ReportWriter = excelize.NewReportWriter()
	deps.DB = m.DB
	deps.Sessions = m.SessionStore
	deps.Reports = m.ReportWriter

	if cmd == "crawl" {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		if cli.Crawl.Verbose {
			logger = slog.New(slog.NewTextHandler(stderr, nil))
		}

		fetcher := prodhttp.NewFetcher()
		defer fetcher.Close()

		// The link selectors classify URLs relative to the target, which
		// is only known once the URL argument is parsed.
		registry, err := buildRegistry(cli.Crawl.URL)
		if err != nil {
			return err
		}

		detector := goquery.NewDetector()
		deps.Crawler = &crawl.Crawler{
			Fetcher:            prodslog.NewLoggingFetcher(fetcher, logger),
			Extractor:          goquery.NewExtractor(detector),
			LinkSelectors:      prodslog.NewLoggingRegistry(registry, detector, logger),
			RateLimiter:        crawl.NewDomainLimiter(cli.Crawl.DelayMin, cli.Crawl.DelayMax),
			Sessions:           m.SessionStore,
			Sitemaps:           prodslog.NewLoggingSitemapService(prodhttp.NewSitemapService(nil), logger),
			Concurrency:        cli.Crawl.Concurrency,
			CheckpointInterval: cli.Crawl.Checkpoint,
		}
	}

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	if path := os.Getenv("PRODCRAWL_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "prodcrawl.db"
	}
	dir := filepath.Join(home, ".prodcrawl")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "prodcrawl.db")
}

// buildRegistry creates the link selector registry for a target URL,
// with every platform-specific selector registered and the generic
// selector as fallback.
func buildRegistry(rawURL string) (*goquery.Registry, error) {
	target, err := prodcrawl.NewCrawlTarget(rawURL)
	if err != nil {
		return nil, err
	}
	classifier := prodcrawl.NewClassifier(target)
	registry := goquery.NewRegistry(goquery.NewDetector(), goquery.NewGenericSelector(classifier))
	registerPlatformSelectors(registry, classifier)
	return registry, nil
}

// registerPlatformSelectors registers all platform-specific link selectors with the registry.
func registerPlatformSelectors(registry prodcrawl.LinkSelectorRegistry, classifier *prodcrawl.Classifier) {
	registry.Register(prodcrawl.PlatformShoptet, goquery.NewShoptetSelector(classifier))
	registry.Register(prodcrawl.PlatformWooCommerce, goquery.NewWooCommerceSelector(classifier))
	registry.Register(prodcrawl.PlatformPrestaShop, goquery.NewPrestaShopSelector(classifier))
	registry.Register(prodcrawl.PlatformShopify, goquery.NewShopifySelector(classifier))
}
