package mock

import (
	"github.com/jvasek/prodcrawl"
)

var _ prodcrawl.ReportWriter = (*ReportWriter)(nil)

// ReportWriter is a mock implementation of prodcrawl.ReportWriter.
type ReportWriter struct {
	WriteReportFn func(path string, records []*prodcrawl.ProductRecord) error
}

func (w *ReportWriter) WriteReport(path string, records []*prodcrawl.ProductRecord) error {
	return w.WriteReportFn(path, records)
}
