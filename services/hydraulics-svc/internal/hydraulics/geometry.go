package hydraulics

import "sort"

// geometryResolver отвечает на вопросы "какой диаметр" и "какой угол"
// для глубины. Сегменты и инклинометрия уже отсортированы валидацией.
type geometryResolver struct {
	segments  []PipeSegment
	starts    []float64
	survey    []SurveyPoint
	surveyMDs []float64
	deviation float64
}

func newGeometryResolver(g WellboreGeometry, survey []SurveyPoint) *geometryResolver {
	r := &geometryResolver{
		segments:  g.Segments,
		starts:    make([]float64, len(g.Segments)),
		survey:    survey,
		surveyMDs: make([]float64, len(survey)),
		deviation: g.Deviation,
	}
	for i, s := range g.Segments {
		r.starts[i] = s.StartDepth
	}
	for i, sp := range survey {
		r.surveyMDs[i] = sp.MD
	}
	return r
}

// lastAtOrAbove индекс последнего значения <= depth, либо 0 если depth выше всех
func lastAtOrAbove(sorted []float64, depth float64) int {
	i := sort.Search(len(sorted), func(i int) bool { return sorted[i] > depth })
	return max(i-1, 0)
}

// segment активный сегмент; глубже последнего сегмента остаётся последний
func (r *geometryResolver) segment(depth float64) PipeSegment {
	return r.segments[lastAtOrAbove(r.starts, depth)]
}

// inclination угол от вертикали, градусы
func (r *geometryResolver) inclination(depth float64) float64 {
	if len(r.survey) == 0 {
		return r.deviation
	}
	return r.survey[lastAtOrAbove(r.surveyMDs, depth)].Inclination
}
