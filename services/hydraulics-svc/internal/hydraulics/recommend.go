package hydraulics

// пороги выбора метода
const (
	recommendDeviation   = 45.0   // градусы
	recommendHighGLRDev  = 5000.0 // scf/STB, наклонные скважины
	recommendGrayGLR     = 10000.0
	recommendDunsRossGLR = 2000.0
	recommendLargeTubing = 3.5    // in
	recommendHighLiquid  = 5000.0 // STB/d
)

// Recommend выбирает метод по отклонению ствола, GLR, диаметру НКТ и дебиту жидкости.
//
// # Recommendation Logic
//
//   - deviation > 45°: mukherjee-brill при GLR > 5000, иначе beggs-brill
//   - GLR > 10000: gray
//   - GLR > 2000: duns-ross
//   - НКТ > 3.5 in: orkiszewski
//   - жидкость > 5000 STB/d: ansari
//   - иначе hagedorn-brown
//
// Отклонение берётся как максимум из Geometry.Deviation и углов инклинометрии.
func Recommend(in *Input) Method {
	if in == nil {
		return MethodHagedornBrown
	}

	glr := in.Fluid.GLR()

	if in.MaxDeviation() > recommendDeviation {
		if glr > recommendHighGLRDev {
			return MethodMukherjeeBrill
		}
		return MethodBeggsBrill
	}

	switch {
	case glr > recommendGrayGLR:
		return MethodGray
	case glr > recommendDunsRossGLR:
		return MethodDunsRoss
	case in.Geometry.MaxDiameter() > recommendLargeTubing:
		return MethodOrkiszewski
	case in.Fluid.LiquidRate() > recommendHighLiquid:
		return MethodAnsari
	default:
		return MethodHagedornBrown
	}
}
