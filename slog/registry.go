// Package slog provides logging decorators for prodcrawl services.
package slog

import (
	"log/slog"
	"time"

	"github.com/jvasek/prodcrawl"
)

// Ensure LoggingRegistry implements prodcrawl.LinkSelectorRegistry.
var _ prodcrawl.LinkSelectorRegistry = (*LoggingRegistry)(nil)

// LoggingRegistry wraps a LinkSelectorRegistry with logging for platform detection.
type LoggingRegistry struct {
	next     prodcrawl.LinkSelectorRegistry
	detector prodcrawl.PlatformDetector
	logger   *slog.Logger
}

// NewLoggingRegistry creates a new LoggingRegistry.
func NewLoggingRegistry(next prodcrawl.LinkSelectorRegistry, detector prodcrawl.PlatformDetector, logger *slog.Logger) *LoggingRegistry {
	return &LoggingRegistry{next: next, detector: detector, logger: logger}
}

// Get delegates to the wrapped registry.
func (r *LoggingRegistry) Get(platform prodcrawl.Platform) prodcrawl.LinkSelector {
	return r.next.Get(platform)
}

// GetForHTML detects the platform, logs it, and returns the appropriate selector.
func (r *LoggingRegistry) GetForHTML(html string) prodcrawl.LinkSelector {
	begin := time.Now()
	platform := r.detector.Detect(html)
	platformName := string(platform)
	if platform == prodcrawl.PlatformUnknown {
		platformName = "(unknown)"
	}
	r.logger.Info("platform detection",
		"platform", platformName,
		"duration", time.Since(begin),
	)
	return r.next.GetForHTML(html)
}

// Register delegates to the wrapped registry.
func (r *LoggingRegistry) Register(platform prodcrawl.Platform, selector prodcrawl.LinkSelector) {
	r.next.Register(platform, selector)
}

// List delegates to the wrapped registry.
func (r *LoggingRegistry) List() []prodcrawl.Platform {
	return r.next.List()
}
