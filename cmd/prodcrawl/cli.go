package main

import (
	"context"
	"io"
	"time"

	"github.com/jvasek/prodcrawl"
	"github.com/jvasek/prodcrawl/crawl"
	"github.com/jvasek/prodcrawl/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	DB       *sqlite.DB
	Sessions prodcrawl.SessionStore
	Reports  prodcrawl.ReportWriter
	Crawler  *crawl.Crawler
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Crawl  CrawlCmd  `cmd:"" help:"Crawl an e-commerce site and extract product records"`
	Export ExportCmd `cmd:"" help:"Export a crawled session's records to an XLSX report"`
	Status StatusCmd `cmd:"" help:"Show progress and record counts for a session"`
	Reset  ResetCmd  `cmd:"" help:"Delete a session and its records"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URL         string        `arg:"" help:"Base URL of the site to crawl"`
	Output      string        `short:"o" help:"Write an XLSX report to this path after the crawl"`
	Fresh       bool          `help:"Discard any existing session for this URL and start over"`
	MaxPages    int           `default:"1000" help:"Maximum category pages to visit"`
	MaxProducts int           `default:"100000" help:"Maximum product URLs to collect"`
	Concurrency int           `short:"c" default:"4" help:"Concurrent extraction limit"`
	DelayMin    time.Duration `default:"500ms" help:"Minimum delay between requests to a domain"`
	DelayMax    time.Duration `default:"1500ms" help:"Maximum delay between requests to a domain"`
	Checkpoint  int           `default:"50" help:"Pages between session checkpoints"`
	Verbose     bool          `short:"v" help:"Log fetches and platform detection to stderr"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	URL    string `arg:"" help:"Base URL of the crawled site"`
	Output string `arg:"" help:"Path of the XLSX report to write"`
}

// StatusCmd is the "status" subcommand.
type StatusCmd struct {
	URL string `arg:"" help:"Base URL of the crawled site"`
}

// ResetCmd is the "reset" subcommand.
type ResetCmd struct {
	URL   string `arg:"" help:"Base URL of the crawled site"`
	Force bool   `help:"Confirm deletion"`
}
