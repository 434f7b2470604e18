package report

import (
	"strconv"

	"wellflow/services/hydraulics-svc/internal/hydraulics"
)

// table табличное представление раздела, общее для xlsx и csv
type table struct {
	Name    string
	Headers []string
	Rows    [][]any
}

func profileTable(r *hydraulics.Result) table {
	t := table{
		Name: "Profile",
		Headers: []string{
			"Depth (ft)", "Pressure (psia)", "Temperature (F)", "Flow Pattern", "Holdup",
			"Mixture Density (lbm/ft3)", "Mixture Velocity (ft/s)", "Vsl (ft/s)", "Vsg (ft/s)",
			"Reynolds", "Friction Factor", "dP/dz Elevation", "dP/dz Friction",
			"dP/dz Acceleration", "dP/dz Total",
		},
	}
	for _, p := range r.Points {
		t.Rows = append(t.Rows, []any{
			p.Depth, p.Pressure, p.Temperature, p.FlowPattern.String(), p.Holdup,
			p.MixtureDensity, p.MixtureVelocity, p.Vsl, p.Vsg,
			p.Reynolds, p.FrictionFactor, p.DpdzElevation, p.DpdzFriction,
			p.DpdzAcceleration, p.DpdzTotal,
		})
	}
	return t
}

func summaryTable(r *hydraulics.Result) table {
	t := table{
		Name:    "Summary",
		Headers: []string{"Parameter", "Value"},
		Rows: [][]any{
			{"Method", r.Method.String()},
			{"Surface Pressure (psia)", r.SurfacePressure},
			{"Bottomhole Pressure (psia)", r.BottomholePressure},
			{"Pressure Drop (psi)", r.PressureDrop},
			{"Elevation (%)", r.ElevationPercent},
			{"Friction (%)", r.FrictionPercent},
			{"Acceleration (%)", r.AccelerationPercent},
			{"Depth Steps", len(r.Points) - 1},
		},
	}
	if r.TargetBHP != nil {
		t.Rows = append(t.Rows, []any{"Target BHP (psia)", *r.TargetBHP})
	}
	return t
}

func comparisonTable(c *hydraulics.Comparison) table {
	t := table{
		Name: "Comparison",
		Headers: []string{
			"Method", "Status", "BHP (psia)", "Pressure Drop (psi)",
			"Elevation (%)", "Friction (%)", "Acceleration (%)", "Error",
		},
	}
	for _, m := range c.Order {
		o := c.Results[m]
		if o == nil {
			continue
		}
		if !o.OK() {
			t.Rows = append(t.Rows, []any{m.String(), "failed", "", "", "", "", "", o.Error})
			continue
		}
		r := o.Result
		t.Rows = append(t.Rows, []any{
			m.String(), "ok", r.BottomholePressure, r.PressureDrop,
			r.ElevationPercent, r.FrictionPercent, r.AccelerationPercent, "",
		})
	}
	return t
}

func statisticsTable(s hydraulics.Statistics) table {
	return table{
		Name:    "Statistics",
		Headers: []string{"Statistic", "Value"},
		Rows: [][]any{
			{"Average BHP (psia)", s.Average},
			{"Min BHP (psia)", s.Min},
			{"Max BHP (psia)", s.Max},
			{"Std Dev (psi)", s.StdDev},
			{"Range (psi)", s.Range},
			{"Range (%)", s.PercentRange},
			{"Successful", s.Successful},
			{"Failed", s.Failed},
		},
	}
}

func sweepTable(s *hydraulics.Sweep) table {
	t := table{
		Name: "Sensitivity",
		Headers: []string{
			"Value", "Oil Rate (STB/d)", "Water Rate (STB/d)", "Gas Rate (Mscf/d)",
			"Total Liquid (STB/d)", "Tubing ID (in)", "Flow Area (ft2)",
			"BHP (psia)", "Pressure Drop (psi)", "Elevation (%)", "Friction (%)",
		},
	}
	for _, p := range s.Points {
		t.Rows = append(t.Rows, []any{
			p.Value, p.OilRate, p.WaterRate, p.GasRate,
			p.TotalLiquid, p.TubingID, p.FlowArea,
			p.BHP, p.PressureDrop, p.ElevationPercent, p.FrictionPercent,
		})
	}
	return t
}

func gasLiftTable(g *hydraulics.GasLiftResult) table {
	return table{
		Name:    "Gas Lift",
		Headers: []string{"Parameter", "Value"},
		Rows: [][]any{
			{"Natural BHP (psia)", g.NaturalBHP},
			{"Formation Pressure (psia)", g.FormationPressure},
			{"Gas Lift Needed", g.GasLiftNeeded},
			{"Injection Rate (Mscf/d)", g.InjectionRate},
			{"Design BHP (psia)", g.DesignBHP},
		},
	}
}

func rateSweepTable(g *hydraulics.GasLiftResult) table {
	t := table{Name: "Injection Rates", Headers: []string{"Rate (Mscf/d)", "BHP (psia)"}}
	for _, p := range g.RateSweep {
		t.Rows = append(t.Rows, []any{p.Rate, p.BHP})
	}
	return t
}

func valvesTable(g *hydraulics.GasLiftResult) table {
	t := table{
		Name: "Valves",
		Headers: []string{
			"Depth (ft)", "Port (in)", "Tubing Pressure (psia)",
			"Casing Pressure (psia)", "Differential (psi)",
		},
	}
	for _, v := range g.Valves {
		t.Rows = append(t.Rows, []any{v.Depth, v.PortSize, v.TubingPressure, v.CasingPressure, v.Differential})
	}
	return t
}

// tables разделы документа в порядке вывода
func tables(doc *Document) []table {
	var out []table
	if r := doc.Profile(); r != nil {
		out = append(out, summaryTable(r), profileTable(r))
	}
	if doc.GasLift != nil {
		out = append(out, gasLiftTable(doc.GasLift))
		if len(doc.GasLift.RateSweep) > 0 {
			out = append(out, rateSweepTable(doc.GasLift))
		}
		if len(doc.GasLift.Valves) > 0 {
			out = append(out, valvesTable(doc.GasLift))
		}
	}
	if doc.Comparison != nil {
		out = append(out, comparisonTable(doc.Comparison), statisticsTable(doc.Comparison.Statistics))
	}
	if doc.Sweep != nil {
		out = append(out, sweepTable(doc.Sweep))
	}
	return out
}

// cellString значение ячейки для текстовых форматов
func cellString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', 4, 64)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}
