package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
)

// CSVGenerator генератор CSV отчётов: разделы подряд, между ними пустая строка
type CSVGenerator struct {
	BaseGenerator
}

// NewCSVGenerator создаёт новый генератор
func NewCSVGenerator() *CSVGenerator {
	return &CSVGenerator{}
}

// Format возвращает формат генератора
func (g *CSVGenerator) Format() Format {
	return FormatCSV
}

// csvWriter обёртка для отслеживания ошибок
type csvWriter struct {
	w   *csv.Writer
	err error
}

func (cw *csvWriter) Write(record []string) {
	if cw.err != nil {
		return
	}
	cw.err = cw.w.Write(record)
}

func (cw *csvWriter) Flush() {
	if cw.err != nil {
		return
	}
	cw.w.Flush()
	cw.err = cw.w.Error()
}

func (cw *csvWriter) Error() error {
	return cw.err
}

// Generate генерирует CSV отчёт
func (g *CSVGenerator) Generate(ctx context.Context, doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	cw := &csvWriter{w: csv.NewWriter(&buf)}

	cw.Write([]string{"# " + g.GetTitle(doc)})
	if doc.Company != "" {
		cw.Write([]string{"# " + doc.Company})
	}
	cw.Write([]string{"# Generated: " + g.FormatTimestamp(g.GetTimestamp(doc))})

	for _, t := range tables(doc) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cw.Write([]string{})
		cw.Write([]string{"# " + t.Name})
		cw.Write(t.Headers)
		for _, row := range t.Rows {
			record := make([]string, len(row))
			for i, v := range row {
				record[i] = cellString(v)
			}
			cw.Write(record)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, fmt.Errorf("csv write error: %w", err)
	}

	return buf.Bytes(), nil
}
