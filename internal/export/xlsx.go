package export

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/recordstack/chronology/internal/chronology"
	"github.com/recordstack/chronology/internal/dedupe"
)

// BuildResultXLSX renders an in-memory chronology plus duplicate groups as
// an XLSX workbook with Timeline, Pages, and Duplicates sheets.
func BuildResultXLSX(res *chronology.ChronologyResult, dupes *dedupe.DuplicateResult) ([]byte, error) {
	f := excelize.NewFile()

	if err := writeTimelineSheet(f, res); err != nil {
		return nil, err
	}
	if err := writePagesSheet(f, res); err != nil {
		return nil, err
	}
	if dupes != nil {
		if err := writeDuplicatesSheet(f, dupes); err != nil {
			return nil, err
		}
	}
	// drop the default sheet excelize creates
	_ = f.DeleteSheet("Sheet1")
	if idx, _ := f.GetSheetIndex("Timeline"); idx >= 0 {
		f.SetActiveSheet(idx)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func writeTimelineSheet(f *excelize.File, res *chronology.ChronologyResult) error {
	const sheet = "Timeline"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	writeHeader(f, sheet, []string{"Date of Service", "Cluster", "Primary Page", "Pages", "Document Type"})

	row := 2
	for _, c := range res.Clusters {
		write := cellWriter(f, sheet, row)
		write(1, c.DateOfService.Format("2006-01-02"))
		write(2, c.ID)
		write(3, c.PrimaryPage)
		write(4, joinPages(c.Pages))
		write(5, c.DocumentType)
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 14)
	_ = f.SetColWidth(sheet, "B", "B", 18)
	_ = f.SetColWidth(sheet, "D", "D", 24)
	_ = f.SetColWidth(sheet, "E", "E", 22)
	return nil
}

func writePagesSheet(f *excelize.File, res *chronology.ChronologyResult) error {
	const sheet = "Pages"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	writeHeader(f, sheet, []string{"Page", "Date of Service", "Source", "Inherited From", "Document Type"})

	row := 2
	for _, p := range res.Pages {
		write := cellWriter(f, sheet, row)
		write(1, p.PageNumber)
		if p.DateOfService != nil {
			write(2, p.DateOfService.Format("2006-01-02"))
		} else {
			write(2, "")
		}
		write(3, string(p.DateSource))
		if p.InheritedFrom > 0 {
			write(4, p.InheritedFrom)
		} else {
			write(4, "")
		}
		write(5, p.DocumentType)
		row++
	}

	_ = f.SetColWidth(sheet, "B", "B", 14)
	_ = f.SetColWidth(sheet, "E", "E", 22)
	return nil
}

func writeDuplicatesSheet(f *excelize.File, dupes *dedupe.DuplicateResult) error {
	const sheet = "Duplicates"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	writeHeader(f, sheet, []string{"Group", "Kind", "Primary Page", "Page", "Similarity"})

	row := 2
	groupNo := 0
	emit := func(groups []dedupe.DuplicateGroup, kind string) {
		for _, g := range groups {
			groupNo++
			for _, m := range g.Members {
				write := cellWriter(f, sheet, row)
				write(1, groupNo)
				write(2, kind)
				write(3, g.PrimaryPage)
				write(4, m.PageNumber)
				write(5, strconv.FormatFloat(m.Similarity, 'f', 3, 64))
				row++
			}
		}
	}
	emit(dupes.ExactGroups, "exact")
	emit(dupes.NearGroups, "near")
	return nil
}

func writeHeader(f *excelize.File, sheet string, headers []string) {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
}

func cellWriter(f *excelize.File, sheet string, row int) func(col int, v any) {
	return func(col int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}
