package report

import (
	"context"
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"wellflow/services/hydraulics-svc/internal/hydraulics"
)

// PDFGenerator генератор PDF отчётов
type PDFGenerator struct {
	BaseGenerator
}

// NewPDFGenerator создаёт новый генератор
func NewPDFGenerator() *PDFGenerator {
	return &PDFGenerator{}
}

// Format возвращает формат генератора
func (g *PDFGenerator) Format() Format {
	return FormatPDF
}

// Стили
var (
	primaryColor   = &props.Color{Red: 52, Green: 152, Blue: 219}  // #3498db
	headerBgColor  = &props.Color{Red: 44, Green: 62, Blue: 80}    // #2c3e50
	dangerColor    = &props.Color{Red: 231, Green: 76, Blue: 60}   // #e74c3c
	lightGrayColor = &props.Color{Red: 236, Green: 240, Blue: 241} // #ecf0f1
	darkGrayColor  = &props.Color{Red: 127, Green: 140, Blue: 141} // #7f8c8d

	titleStyle = props.Text{
		Size:  20,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: headerBgColor,
	}

	h2Style = props.Text{
		Size:  14,
		Style: fontstyle.Bold,
		Color: headerBgColor,
		Top:   4,
	}

	normalStyle = props.Text{
		Size: 10,
	}

	boldStyle = props.Text{
		Size:  10,
		Style: fontstyle.Bold,
	}

	smallStyle = props.Text{
		Size:  8,
		Color: darkGrayColor,
	}

	metricValueStyle = props.Text{
		Size:  16,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: primaryColor,
	}

	metricLabelStyle = props.Text{
		Size:  8,
		Align: align.Center,
		Color: darkGrayColor,
		Top:   9,
	}

	tableHeaderStyle = &props.Cell{
		BackgroundColor: primaryColor,
	}

	tableHeaderTextStyle = props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
		Align: align.Center,
	}

	tableCellStyle = &props.Cell{
		BorderType:  border.Bottom,
		BorderColor: lightGrayColor,
	}

	tableCellTextStyle = props.Text{
		Size:  8,
		Align: align.Center,
	}
)

// Generate генерирует PDF отчёт
func (g *PDFGenerator) Generate(ctx context.Context, doc *Document) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber().
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build()

	m := maroto.New(cfg)

	g.addHeader(m, doc)

	if r := doc.Profile(); r != nil {
		g.addResult(m, r, g.GetMaxPoints(doc))
	}
	if doc.GasLift != nil {
		g.addGasLift(m, doc.GasLift)
	}
	if doc.Comparison != nil {
		g.addComparison(m, doc.Comparison)
	}
	if doc.Sweep != nil {
		g.addSweep(m, doc.Sweep)
	}

	g.addFooter(m, doc)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return out.GetBytes(), nil
}

func (g *PDFGenerator) addHeader(m core.Maroto, doc *Document) {
	m.AddRow(12,
		text.NewCol(12, g.GetTitle(doc), titleStyle),
	)
	m.AddRow(4,
		line.NewCol(12),
	)

	company := doc.Company
	if company == "" {
		company = "wellflow"
	}
	m.AddRow(6,
		text.NewCol(6, company, smallStyle),
		text.NewCol(6, fmt.Sprintf("Generated: %s", g.FormatTimestamp(g.GetTimestamp(doc))),
			props.Text{Size: 8, Color: darkGrayColor, Align: align.Right}),
	)

	if in := doc.Input; in != nil {
		m.AddRow(5,
			text.NewCol(12, fmt.Sprintf(
				"Oil %.0f STB/d, water %.0f STB/d, gas %.0f Mscf/d, depth %.0f ft, WHP %.0f psia",
				in.Fluid.OilRate, in.Fluid.WaterRate, in.Fluid.GasRate,
				in.Geometry.TotalDepth(), in.SurfacePressure,
			), smallStyle),
		)
	}

	m.AddRow(6)
}

func (g *PDFGenerator) addResult(m core.Maroto, r *hydraulics.Result, maxPoints int) {
	g.addSection(m, fmt.Sprintf("Pressure Traverse: %s", r.Method))

	g.addMetricCards(m, []metricCard{
		{Label: "Bottomhole Pressure, psia", Value: g.FormatFloat(r.BottomholePressure, 1), Highlight: true},
		{Label: "Pressure Drop, psi", Value: g.FormatFloat(r.PressureDrop, 1)},
		{Label: "Surface Pressure, psia", Value: g.FormatFloat(r.SurfacePressure, 1)},
	})
	m.AddRow(4)
	g.addMetricCards(m, []metricCard{
		{Label: "Elevation", Value: g.FormatPercent(r.ElevationPercent)},
		{Label: "Friction", Value: g.FormatPercent(r.FrictionPercent)},
		{Label: "Acceleration", Value: g.FormatPercent(r.AccelerationPercent)},
	})

	if r.TargetBHP != nil {
		m.AddRow(6,
			text.NewCol(6, "Target BHP, psia", boldStyle),
			text.NewCol(6, g.FormatFloat(*r.TargetBHP, 1), normalStyle),
		)
	}

	if len(r.FlowPatterns) > 0 {
		g.addSection(m, "Flow Patterns")
		rows := make([][]string, 0, len(r.FlowPatterns))
		for _, s := range r.FlowPatterns {
			rows = append(rows, []string{
				g.FormatFloat(s.Depth, 0),
				s.Pattern.String(),
				g.FormatFloat(s.Holdup, 3),
				g.FormatFloat(s.MixtureVelocity, 2),
			})
		}
		g.addTable(m, []string{"Depth, ft", "Pattern", "Holdup", "Vm, ft/s"}, rows)
	}

	g.addSection(m, "Profile")
	points := samplePoints(r.Points, maxPoints)
	rows := make([][]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, []string{
			g.FormatFloat(p.Depth, 0),
			g.FormatFloat(p.Pressure, 1),
			g.FormatFloat(p.Temperature, 1),
			p.FlowPattern.String(),
			g.FormatFloat(p.Holdup, 3),
			g.FormatFloat(p.MixtureDensity, 2),
		})
	}
	g.addTable(m, []string{"Depth, ft", "P, psia", "T, F", "Pattern", "Holdup", "Rho, lbm/ft3"}, rows)
}

func (g *PDFGenerator) addGasLift(m core.Maroto, gl *hydraulics.GasLiftResult) {
	g.addSection(m, "Gas Lift Design")

	verdict := "Natural flow"
	if gl.GasLiftNeeded {
		verdict = "Gas lift required"
	}
	g.addMetricCards(m, []metricCard{
		{Label: "Natural BHP, psia", Value: g.FormatFloat(gl.NaturalBHP, 1)},
		{Label: "Formation Pressure, psia", Value: g.FormatFloat(gl.FormationPressure, 1)},
		{Label: "Verdict", Value: verdict, Highlight: true},
	})

	if !gl.GasLiftNeeded {
		return
	}

	m.AddRow(4)
	g.addKeyValueTable(m, []keyValue{
		{"Injection Rate, Mscf/d", g.FormatFloat(gl.InjectionRate, 0)},
		{"Design BHP, psia", g.FormatFloat(gl.DesignBHP, 1)},
	})

	if len(gl.Valves) > 0 {
		m.AddRow(4)
		rows := make([][]string, 0, len(gl.Valves))
		for _, v := range gl.Valves {
			rows = append(rows, []string{
				g.FormatFloat(v.Depth, 0),
				fmt.Sprintf("%.0f/64", v.PortSize*64),
				g.FormatFloat(v.TubingPressure, 1),
				g.FormatFloat(v.CasingPressure, 1),
				g.FormatFloat(v.Differential, 1),
			})
		}
		g.addTable(m, []string{"Depth, ft", "Port, in", "Tubing, psia", "Casing, psia", "dP, psi"}, rows)
	}
}

func (g *PDFGenerator) addComparison(m core.Maroto, c *hydraulics.Comparison) {
	g.addSection(m, "Correlation Comparison")

	s := c.Statistics
	g.addMetricCards(m, []metricCard{
		{Label: "Average BHP, psia", Value: g.FormatFloat(s.Average, 1), Highlight: true},
		{Label: "Range, psi", Value: g.FormatFloat(s.Range, 1)},
		{Label: "Std Dev, psi", Value: g.FormatFloat(s.StdDev, 1)},
		{Label: "Methods OK", Value: fmt.Sprintf("%d/%d", s.Successful, s.Successful+s.Failed)},
	})
	m.AddRow(4)

	rows := make([][]string, 0, len(c.Order))
	for _, method := range c.Order {
		o := c.Results[method]
		if o == nil {
			continue
		}
		if !o.OK() {
			rows = append(rows, []string{method.String(), "failed", "-", "-", "-"})
			continue
		}
		rows = append(rows, []string{
			method.String(),
			g.FormatFloat(o.Result.BottomholePressure, 1),
			g.FormatFloat(o.Result.PressureDrop, 1),
			g.FormatPercent(o.Result.ElevationPercent),
			g.FormatPercent(o.Result.FrictionPercent),
		})
	}
	g.addTable(m, []string{"Method", "BHP, psia", "Drop, psi", "Elevation", "Friction"}, rows)

	// Ошибки методов отдельным списком
	for _, method := range c.Order {
		if o := c.Results[method]; o != nil && !o.OK() && o.Error != "" {
			m.AddRow(5,
				text.NewCol(12, fmt.Sprintf("%s: %s", method, o.Error), props.Text{Size: 8, Color: dangerColor}),
			)
		}
	}
}

func (g *PDFGenerator) addSweep(m core.Maroto, s *hydraulics.Sweep) {
	title := "Flow Rate Sensitivity"
	valueHeader := "Oil, STB/d"
	if s.Kind == hydraulics.SweepTubing {
		title = "Tubing Size Sensitivity"
		valueHeader = "ID, in"
	}
	g.addSection(m, fmt.Sprintf("%s: %s", title, s.Method))

	if len(s.Points) == 0 {
		m.AddRow(6, text.NewCol(12, "No successful points", smallStyle))
		return
	}

	rows := make([][]string, 0, len(s.Points))
	for _, p := range s.Points {
		rows = append(rows, []string{
			g.FormatFloat(p.Value, 3),
			g.FormatFloat(p.TotalLiquid, 0),
			g.FormatFloat(p.BHP, 1),
			g.FormatFloat(p.PressureDrop, 1),
			g.FormatPercent(p.ElevationPercent),
			g.FormatPercent(p.FrictionPercent),
		})
	}
	g.addTable(m, []string{valueHeader, "Liquid, STB/d", "BHP, psia", "Drop, psi", "Elevation", "Friction"}, rows)
}

type metricCard struct {
	Label     string
	Value     string
	Highlight bool
}

func (g *PDFGenerator) addMetricCards(m core.Maroto, cards []metricCard) {
	if len(cards) == 0 {
		return
	}

	colSize := 12 / len(cards)
	if colSize < 2 {
		colSize = 2
	}

	var cols []core.Col
	for _, card := range cards {
		valueStyle := metricValueStyle
		if !card.Highlight {
			valueStyle.Size = 12
		}

		cols = append(cols,
			col.New(colSize).Add(
				text.New(card.Value, valueStyle),
				text.New(card.Label, metricLabelStyle),
			),
		)
	}

	m.AddRow(16, cols...)
}

type keyValue struct {
	Key   string
	Value string
}

func (g *PDFGenerator) addKeyValueTable(m core.Maroto, items []keyValue) {
	for _, item := range items {
		m.AddRow(6,
			text.NewCol(6, item.Key, boldStyle),
			text.NewCol(6, item.Value, normalStyle),
		)
	}
}

// addTable таблица с равными колонками; до 12 колонок
func (g *PDFGenerator) addTable(m core.Maroto, headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}
	size := 12 / len(headers)
	if size < 1 {
		size = 1
	}

	header := make([]core.Col, 0, len(headers))
	for _, h := range headers {
		header = append(header, text.NewCol(size, h, tableHeaderTextStyle).WithStyle(tableHeaderStyle))
	}
	m.AddRow(7, header...)

	for _, r := range rows {
		cols := make([]core.Col, 0, len(r))
		for _, v := range r {
			cols = append(cols, text.NewCol(size, v, tableCellTextStyle).WithStyle(tableCellStyle))
		}
		m.AddRow(6, cols...)
	}
}

func (g *PDFGenerator) addSection(m core.Maroto, title string) {
	m.AddRow(9,
		text.NewCol(12, title, h2Style),
	)
	m.AddRow(2,
		line.NewCol(12, props.Line{Color: primaryColor}),
	)
	m.AddRow(3)
}

func (g *PDFGenerator) addFooter(m core.Maroto, doc *Document) {
	m.AddRow(8)
	m.AddRow(2,
		line.NewCol(12, props.Line{Color: lightGrayColor}),
	)
	m.AddRow(6,
		text.NewCol(12,
			fmt.Sprintf("Generated by wellflow | %s", g.FormatTimestamp(g.GetTimestamp(doc))),
			props.Text{Size: 8, Color: darkGrayColor, Align: align.Center},
		),
	)
}
