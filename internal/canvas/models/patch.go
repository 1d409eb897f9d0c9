package models

// ============================================================
// Patch
// ============================================================

// Patch: поля, которые панели свойств меняют у объекта. nil означает
// "не трогать"; слияние поверхностное, id и type не меняются.
type Patch struct {
	Name      *string  `json:"name,omitempty"`
	X         *float64 `json:"x,omitempty"`
	Y         *float64 `json:"y,omitempty"`
	Rotation  *float64 `json:"rotation,omitempty"`
	ScaleX    *float64 `json:"scaleX,omitempty"`
	ScaleY    *float64 `json:"scaleY,omitempty"`
	Opacity   *float64 `json:"opacity,omitempty"`
	Draggable *bool    `json:"draggable,omitempty"`
	Visible   *bool    `json:"visible,omitempty"`
	ZIndex    *int     `json:"zIndex,omitempty"`

	Width  *float64  `json:"width,omitempty"`
	Height *float64  `json:"height,omitempty"`
	Radius *float64  `json:"radius,omitempty"`
	Points []float64 `json:"points,omitempty"`

	Text       *string  `json:"text,omitempty"`
	FontSize   *float64 `json:"fontSize,omitempty"`
	FontFamily *string  `json:"fontFamily,omitempty"`

	Src        *string  `json:"src,omitempty"`
	CropX      *float64 `json:"cropX,omitempty"`
	CropY      *float64 `json:"cropY,omitempty"`
	CropWidth  *float64 `json:"cropWidth,omitempty"`
	CropHeight *float64 `json:"cropHeight,omitempty"`

	Fill        *string  `json:"fill,omitempty"`
	Stroke      *string  `json:"stroke,omitempty"`
	StrokeWidth *float64 `json:"strokeWidth,omitempty"`
}

// Apply возвращает копию obj с применённым патчем.
func (p Patch) Apply(obj CanvasObject) CanvasObject {
	out := obj.Clone()

	setString(&out.Name, p.Name)
	setFloat(&out.X, p.X)
	setFloat(&out.Y, p.Y)
	setFloat(&out.Rotation, p.Rotation)
	if p.ScaleX != nil {
		out.ScaleX = Float(*p.ScaleX)
	}
	if p.ScaleY != nil {
		out.ScaleY = Float(*p.ScaleY)
	}
	if p.Opacity != nil {
		out.Opacity = Float(*p.Opacity)
	}
	if p.Draggable != nil {
		out.Draggable = Bool(*p.Draggable)
	}
	if p.Visible != nil {
		out.Visible = Bool(*p.Visible)
	}
	if p.ZIndex != nil {
		out.ZIndex = Int(*p.ZIndex)
	}

	setFloat(&out.Width, p.Width)
	setFloat(&out.Height, p.Height)
	setFloat(&out.Radius, p.Radius)
	if p.Points != nil {
		out.Points = append([]float64(nil), p.Points...)
	}

	setString(&out.Text, p.Text)
	setFloat(&out.FontSize, p.FontSize)
	setString(&out.FontFamily, p.FontFamily)

	setString(&out.Src, p.Src)
	setFloat(&out.CropX, p.CropX)
	setFloat(&out.CropY, p.CropY)
	setFloat(&out.CropWidth, p.CropWidth)
	setFloat(&out.CropHeight, p.CropHeight)

	setString(&out.Fill, p.Fill)
	setString(&out.Stroke, p.Stroke)
	setFloat(&out.StrokeWidth, p.StrokeWidth)

	return out
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
