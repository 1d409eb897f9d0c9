package scene

// Placement: положение и размер содержимого внутри рамки.
type Placement struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// FitContain вписывает содержимое w×h в рамку boxW×boxH с сохранением
// пропорций; короткая ось центрируется.
func FitContain(w, h, boxW, boxH float64) Placement {
	if w <= 0 || h <= 0 || boxW <= 0 || boxH <= 0 {
		return Placement{Width: boxW, Height: boxH}
	}

	aspect := w / h
	boxAspect := boxW / boxH

	if aspect > boxAspect {
		fitH := boxW / aspect
		return Placement{X: 0, Y: (boxH - fitH) / 2, Width: boxW, Height: fitH}
	}

	fitW := boxH * aspect
	return Placement{X: (boxW - fitW) / 2, Y: 0, Width: fitW, Height: boxH}
}
