package report

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Названия листов
const (
	SheetSummary     = "Summary"
	SheetProfile     = "Profile"
	SheetGasLift     = "Gas Lift"
	SheetComparison  = "Comparison"
	SheetSensitivity = "Sensitivity"
)

// ExcelGenerator генератор Excel отчётов
type ExcelGenerator struct {
	BaseGenerator
}

// NewExcelGenerator создаёт новый генератор
func NewExcelGenerator() *ExcelGenerator {
	return &ExcelGenerator{}
}

// Format возвращает формат генератора
func (g *ExcelGenerator) Format() Format {
	return FormatExcel
}

// Generate генерирует Excel отчёт
func (g *ExcelGenerator) Generate(ctx context.Context, doc *Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("excel style: %w", err)
	}
	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	if err != nil {
		return nil, fmt.Errorf("excel style: %w", err)
	}

	w := &sheetWriter{f: f, header: headerStyle, titleID: titleStyle}

	if r := doc.Profile(); r != nil {
		w.sheet(SheetSummary)
		w.title(g.GetTitle(doc))
		if doc.Company != "" {
			w.line(doc.Company)
		}
		w.line("Generated: " + g.FormatTimestamp(g.GetTimestamp(doc)))
		w.skip()
		w.table(summaryTable(r))
		if len(r.FlowPatterns) > 0 {
			w.skip()
			w.row([]any{"Flow Patterns"}, w.header)
			w.row([]any{"Depth (ft)", "Pattern", "Holdup", "Vm (ft/s)", "Vsl (ft/s)", "Vsg (ft/s)"}, w.header)
			for _, s := range r.FlowPatterns {
				w.row([]any{s.Depth, s.Pattern.String(), s.Holdup, s.MixtureVelocity, s.Vsl, s.Vsg}, 0)
			}
		}
		w.width("A", "B", 28)

		w.sheet(SheetProfile)
		w.table(profileTable(r))
		w.freezeHeader()
		w.width("A", ColName(14), 16)
	}

	if doc.GasLift != nil {
		w.sheet(SheetGasLift)
		w.table(gasLiftTable(doc.GasLift))
		if len(doc.GasLift.RateSweep) > 0 {
			w.skip()
			w.table(rateSweepTable(doc.GasLift))
		}
		if len(doc.GasLift.Valves) > 0 {
			w.skip()
			w.table(valvesTable(doc.GasLift))
		}
		w.width("A", "E", 24)
	}

	if doc.Comparison != nil {
		w.sheet(SheetComparison)
		w.table(comparisonTable(doc.Comparison))
		w.skip()
		w.table(statisticsTable(doc.Comparison.Statistics))
		w.width("A", "H", 18)
	}

	if doc.Sweep != nil {
		w.sheet(SheetSensitivity)
		w.row([]any{fmt.Sprintf("%s sweep, %s", doc.Sweep.Kind, doc.Sweep.Method)}, w.titleID)
		w.table(sweepTable(doc.Sweep))
		w.width("A", "K", 16)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if w.err != nil {
		return nil, fmt.Errorf("excel write: %w", w.err)
	}

	// Дефолтный лист удаляем после создания остальных, иначе книга остаётся без листов
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("excel delete default sheet: %w", err)
	}
	if idx, err := f.GetSheetIndex(w.first); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}

	// Записываем в буфер
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// sheetWriter построчная запись с запоминанием первой ошибки
type sheetWriter struct {
	f       *excelize.File
	name    string
	first   string
	cur     int
	header  int
	titleID int
	err     error
}

func (w *sheetWriter) sheet(name string) {
	if w.err != nil {
		return
	}
	if _, err := w.f.NewSheet(name); err != nil {
		w.err = err
		return
	}
	if w.first == "" {
		w.first = name
	}
	w.name = name
	w.cur = 1
}

func (w *sheetWriter) title(s string) {
	w.row([]any{s}, w.titleID)
}

func (w *sheetWriter) line(s string) {
	w.row([]any{s}, 0)
}

func (w *sheetWriter) skip() {
	w.cur++
}

// row пишет строку с текущей позиции; style 0 - без стиля
func (w *sheetWriter) row(values []any, style int) {
	if w.err != nil {
		return
	}
	start := Cell("A", w.cur)
	if err := w.f.SetSheetRow(w.name, start, &values); err != nil {
		w.err = err
		return
	}
	if style != 0 && len(values) > 0 {
		if err := w.f.SetCellStyle(w.name, start, CellByIndex(len(values)-1, w.cur), style); err != nil {
			w.err = err
			return
		}
	}
	w.cur++
}

func (w *sheetWriter) table(t table) {
	headers := make([]any, len(t.Headers))
	for i, h := range t.Headers {
		headers[i] = h
	}
	w.row(headers, w.header)
	for _, r := range t.Rows {
		w.row(r, 0)
	}
}

func (w *sheetWriter) freezeHeader() {
	if w.err != nil {
		return
	}
	w.err = w.f.SetPanes(w.name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func (w *sheetWriter) width(startCol, endCol string, width float64) {
	if w.err != nil {
		return
	}
	w.err = w.f.SetColWidth(w.name, startCol, endCol, width)
}
