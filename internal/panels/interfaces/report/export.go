package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	panels "solarfarm/internal/panels/domain"
)

const (
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

// ContentType returns the media type of an export format.
func ContentType(format string) string {
	switch format {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// Build renders a section inventory in the given format.
func Build(format, section string, list []panels.SolarPanel, generatedAt time.Time) ([]byte, error) {
	switch format {
	case FormatXLSX:
		return BuildSectionXLSX(section, list, generatedAt)
	case FormatPDF:
		return BuildSectionPDF(section, list, generatedAt)
	default:
		return nil, fmt.Errorf("report: unsupported format %q", format)
	}
}

// BuildSectionPDF renders a minimal PDF listing the panels of a section.
func BuildSectionPDF(section string, list []panels.SolarPanel, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Solar Farm Section Inventory")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Section: %s", section))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Panels: %d", len(list)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", generatedAt.UTC().Format(time.RFC3339)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(20, 6, "Row", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 6, "Column", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Installed", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Material", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Tracking", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, p := range list {
		pdf.CellFormat(20, 6, fmt.Sprintf("%d", p.Row), "1", 0, "R", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%d", p.Column), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%d", p.YearInstalled), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, p.Material.DisplayText(), "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, yesNo(p.Tracking), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildSectionXLSX renders a workbook with a summary sheet and one row per panel.
func BuildSectionXLSX(section string, list []panels.SolarPanel, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	summarySheet := "summary"
	panelSheet := "panels"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(panelSheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(summarySheet, "A1", "Solar Farm Section Inventory")
	_ = f.SetCellValue(summarySheet, "A3", "Section")
	_ = f.SetCellValue(summarySheet, "B3", section)
	_ = f.SetCellValue(summarySheet, "A4", "Panels")
	_ = f.SetCellValue(summarySheet, "B4", len(list))
	_ = f.SetCellValue(summarySheet, "A5", "Generated")
	_ = f.SetCellValue(summarySheet, "B5", generatedAt.UTC().Format(time.RFC3339))
	_ = f.SetCellValue(summarySheet, "A6", "Tracking")
	_ = f.SetCellValue(summarySheet, "B6", countTracking(list))
	_ = f.SetCellValue(summarySheet, "A8", "Material")
	_ = f.SetCellValue(summarySheet, "B8", "Panels")
	byMaterial := countByMaterial(list)
	for i, m := range panels.Materials() {
		row := i + 9
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), m.DisplayText())
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), byMaterial[m])
	}

	_ = f.SetCellValue(panelSheet, "A1", "Id")
	_ = f.SetCellValue(panelSheet, "B1", "Row")
	_ = f.SetCellValue(panelSheet, "C1", "Column")
	_ = f.SetCellValue(panelSheet, "D1", "Year Installed")
	_ = f.SetCellValue(panelSheet, "E1", "Material")
	_ = f.SetCellValue(panelSheet, "F1", "Tracking")
	for i, p := range list {
		row := i + 2
		_ = f.SetCellValue(panelSheet, fmt.Sprintf("A%d", row), p.ID)
		_ = f.SetCellValue(panelSheet, fmt.Sprintf("B%d", row), p.Row)
		_ = f.SetCellValue(panelSheet, fmt.Sprintf("C%d", row), p.Column)
		_ = f.SetCellValue(panelSheet, fmt.Sprintf("D%d", row), p.YearInstalled)
		_ = f.SetCellValue(panelSheet, fmt.Sprintf("E%d", row), p.Material.DisplayText())
		_ = f.SetCellValue(panelSheet, fmt.Sprintf("F%d", row), yesNo(p.Tracking))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func countTracking(list []panels.SolarPanel) int {
	n := 0
	for _, p := range list {
		if p.Tracking {
			n++
		}
	}
	return n
}

func countByMaterial(list []panels.SolarPanel) map[panels.Material]int {
	counts := make(map[panels.Material]int)
	for _, p := range list {
		counts[p.Material]++
	}
	return counts
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
