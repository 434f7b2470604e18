package hydraulics

import (
	"context"

	"wellflow/pkg/apperror"
	"wellflow/pkg/domain"
	"wellflow/pkg/logger"
)

// MethodOutcome результат одного метода в сравнении
type MethodOutcome struct {
	Method Method  `json:"method"`
	Result *Result `json:"result,omitempty"`
	Err    error   `json:"-"`
	Error  string  `json:"error,omitempty"`
}

// OK метод отработал без ошибки
func (o *MethodOutcome) OK() bool {
	return o != nil && o.Err == nil && o.Result != nil
}

// Statistics статистика забойного давления по успешным методам
type Statistics struct {
	Average      float64 `json:"average"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	StdDev       float64 `json:"std_dev"` // генеральная
	Range        float64 `json:"range"`
	PercentRange float64 `json:"percent_range"`
	Successful   int     `json:"successful"`
	Failed       int     `json:"failed"`
}

// Comparison результаты нескольких методов на одном входе
type Comparison struct {
	Order      []Method                  `json:"order"`
	Results    map[Method]*MethodOutcome `json:"results"`
	Statistics Statistics                `json:"statistics"`
}

// Successful исходы без ошибок в порядке Order
func (c *Comparison) Successful() []*MethodOutcome {
	out := make([]*MethodOutcome, 0, len(c.Order))
	for _, m := range c.Order {
		if o := c.Results[m]; o.OK() {
			out = append(out, o)
		}
	}
	return out
}

// Compare считает вход всеми методами из списка (пустой список - все десять).
// Ошибка одного метода записывается в его исход, остальные продолжают.
// Ошибка возвращается только при невалидном входе или если не отработал ни один метод.
func Compare(ctx context.Context, in *Input, methods []Method, opts ...Option) (*Comparison, error) {
	return NewPool(1, opts...).Compare(ctx, in, methods)
}

// Compare см. пакетную Compare; методы считаются параллельно в пределах пула
func (p *Pool) Compare(ctx context.Context, in *Input, methods []Method) (*Comparison, error) {
	if in == nil {
		return nil, apperror.ErrNilInput.Clone()
	}
	if len(methods) == 0 {
		methods = AllMethods()
	}

	base := normalize(*in)
	base.Method = methods[0]
	if err := Validate(&base); err != nil {
		return nil, err
	}
	for _, m := range methods {
		if _, ok := Lookup(m); !ok {
			return nil, apperror.ErrUnknownMethod.Clone().WithDetails("method", m).WithField("methods")
		}
	}

	order := dedupe(methods)
	tasks := make([]BatchTask, len(order))
	for i, m := range order {
		mi := base.Clone()
		mi.Method = m
		tasks[i] = BatchTask{TaskID: string(m), Input: &mi}
	}

	cmp := &Comparison{
		Order:   order,
		Results: make(map[Method]*MethodOutcome, len(order)),
	}
	var bhp []float64
	for i, r := range p.Batch(ctx, tasks) {
		m := order[i]
		outcome := &MethodOutcome{Method: m, Result: r.Result, Err: r.Err}
		if r.Err != nil {
			outcome.Error = r.Err.Error()
			cmp.Statistics.Failed++
			logger.Log.Warn("method failed in comparison", "method", m, "error", r.Err)
		} else {
			bhp = append(bhp, r.Result.BottomholePressure)
		}
		cmp.Results[m] = outcome
	}

	if len(bhp) == 0 {
		if err := ctx.Err(); err != nil {
			return cmp, ContextError(err)
		}
		return cmp, apperror.ErrNoSuccessful.Clone().WithDetails("methods", order)
	}

	s := domain.Summarize(bhp)
	cmp.Statistics.Successful = s.Count
	cmp.Statistics.Average = s.Mean
	cmp.Statistics.Min = s.Min
	cmp.Statistics.Max = s.Max
	cmp.Statistics.StdDev = s.StdDev
	cmp.Statistics.Range = s.Range()
	cmp.Statistics.PercentRange = s.RangePercent()

	return cmp, nil
}

func dedupe(methods []Method) []Method {
	seen := make(map[Method]struct{}, len(methods))
	out := make([]Method, 0, len(methods))
	for _, m := range methods {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}
