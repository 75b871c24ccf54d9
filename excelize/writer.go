// Package excelize implements prodcrawl.ReportWriter on top of XLSX
// spreadsheets, the format the downstream pricing workflows consume.
package excelize

import (
	"sort"

	"github.com/jvasek/prodcrawl"
	"github.com/xuri/excelize/v2"
)

// sheetName is the single sheet a report is written to.
const sheetName = "Produkty"

// reportHeaders are the column headers, in output order. Kept in Czech
// for the people reading the reports.
var reportHeaders = []string{
	"Název produktu", "EAN", "Cena", "Původní cena", "Sleva", "Dostupnost", "URL",
}

// Compile-time interface verification.
var _ prodcrawl.ReportWriter = (*ReportWriter)(nil)

// ReportWriter writes product records to an XLSX file.
type ReportWriter struct{}

// NewReportWriter creates a new ReportWriter.
func NewReportWriter() *ReportWriter {
	return &ReportWriter{}
}

// WriteReport writes all records to path, dropping duplicates on
// (Name, SourceURL) and sorting by name. Text fields are cleaned so a
// stray control character cannot corrupt a cell.
func (w *ReportWriter) WriteReport(path string, records []*prodcrawl.ProductRecord) error {
	rows := dedupe(records)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	for i, h := range reportHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return err
		}
	}

	for rowIdx, record := range rows {
		values := []string{
			prodcrawl.CleanText(record.Name),
			record.Code,
			record.Price,
			record.OriginalPrice,
			record.Discount,
			prodcrawl.CleanText(record.Availability),
			record.SourceURL,
		}
		for colIdx, v := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return prodcrawl.Errorf(prodcrawl.EINTERNAL, "failed to write report %s: %v", path, err)
	}
	return nil
}

// dedupe drops records sharing a (Name, SourceURL) identity, keeping
// the first occurrence.
func dedupe(records []*prodcrawl.ProductRecord) []*prodcrawl.ProductRecord {
	type key struct {
		name, url string
	}
	seen := make(map[key]struct{}, len(records))
	out := make([]*prodcrawl.ProductRecord, 0, len(records))
	for _, r := range records {
		k := key{r.Name, r.SourceURL}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}
