package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wellflow/pkg/apperror"
	"wellflow/services/hydraulics-svc/internal/hydraulics"
)

// Format формат выгрузки
type Format string

const (
	FormatExcel Format = "xlsx"
	FormatPDF   Format = "pdf"
	FormatCSV   Format = "csv"
)

// Extension расширение файла с точкой
func (f Format) Extension() string {
	return "." + string(f)
}

// ParseFormat разбирает формат без учёта регистра; "excel" синоним xlsx
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "xlsx", "excel":
		return FormatExcel, nil
	case "pdf":
		return FormatPDF, nil
	case "csv":
		return FormatCSV, nil
	}
	return "", apperror.Newf(apperror.CodeInvalidInput, "unsupported report format %q", s).WithField("format")
}

// DefaultMaxPoints строк профиля в PDF
const DefaultMaxPoints = 40

// Document данные отчёта; заполняется хотя бы один из разделов
type Document struct {
	Title     string
	Company   string
	Generated time.Time
	MaxPoints int

	Input      *hydraulics.Input
	Result     *hydraulics.Result
	Comparison *hydraulics.Comparison
	Sweep      *hydraulics.Sweep
	GasLift    *hydraulics.GasLiftResult
}

// Empty нет ни одного раздела
func (d *Document) Empty() bool {
	return d.Result == nil && d.Comparison == nil && d.Sweep == nil && d.GasLift == nil
}

// Profile профиль давления: прямой расчёт или расчёт газлифта
func (d *Document) Profile() *hydraulics.Result {
	if d.Result != nil {
		return d.Result
	}
	if d.GasLift != nil {
		return d.GasLift.Result
	}
	return nil
}

// Generator интерфейс генератора отчётов
type Generator interface {
	Generate(ctx context.Context, doc *Document) ([]byte, error)
	Format() Format
}

// New генератор по формату
func New(format Format) (Generator, error) {
	switch format {
	case FormatExcel:
		return NewExcelGenerator(), nil
	case FormatPDF:
		return NewPDFGenerator(), nil
	case FormatCSV:
		return NewCSVGenerator(), nil
	}
	return nil, apperror.Newf(apperror.CodeInvalidInput, "unsupported report format %q", format).WithField("format")
}

// Render проверяет документ и вызывает генератор
func Render(ctx context.Context, g Generator, doc *Document) ([]byte, error) {
	if doc == nil || doc.Empty() {
		return nil, apperror.New(apperror.CodeInvalidInput, "report document has no sections")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return g.Generate(ctx, doc)
}

// BaseGenerator общие утилиты генераторов
type BaseGenerator struct{}

// GetTitle заголовок отчёта
func (b *BaseGenerator) GetTitle(doc *Document) string {
	if doc.Title != "" {
		return doc.Title
	}
	switch {
	case doc.GasLift != nil:
		return "Gas Lift Design Report"
	case doc.Comparison != nil:
		return "Correlation Comparison Report"
	case doc.Sweep != nil:
		return "Sensitivity Report"
	default:
		return "Pressure Traverse Report"
	}
}

// GetTimestamp время формирования; нулевое - сейчас
func (b *BaseGenerator) GetTimestamp(doc *Document) time.Time {
	if doc.Generated.IsZero() {
		return time.Now()
	}
	return doc.Generated
}

// GetMaxPoints лимит строк профиля
func (b *BaseGenerator) GetMaxPoints(doc *Document) int {
	if doc.MaxPoints > 0 {
		return doc.MaxPoints
	}
	return DefaultMaxPoints
}

// FormatFloat форматирует число с заданной точностью
func (b *BaseGenerator) FormatFloat(v float64, precision int) string {
	return fmt.Sprintf("%.*f", precision, v)
}

// FormatPercent форматирует процент (значение уже в процентах)
func (b *BaseGenerator) FormatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// FormatTimestamp форматирует время
func (b *BaseGenerator) FormatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

// samplePoints равномерно прореживает профиль до limit точек, сохраняя первую и последнюю
func samplePoints(points []hydraulics.Point, limit int) []hydraulics.Point {
	if limit <= 0 || len(points) <= limit {
		return points
	}
	if limit == 1 {
		return points[:1]
	}
	out := make([]hydraulics.Point, 0, limit)
	last := len(points) - 1
	for i := 0; i < limit; i++ {
		out = append(out, points[i*last/(limit-1)])
	}
	return out
}

// ColName преобразует индекс колонки в буквенное обозначение (0 -> A, 25 -> Z, 26 -> AA)
func ColName(index int) string {
	result := ""
	for {
		result = string(rune('A'+index%26)) + result
		index = index/26 - 1
		if index < 0 {
			break
		}
	}
	return result
}

// Cell адрес ячейки
func Cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// CellByIndex адрес ячейки по индексам
func CellByIndex(colIndex, rowIndex int) string {
	return fmt.Sprintf("%s%d", ColName(colIndex), rowIndex)
}
