package models

// ============================================================
// Object types
// ============================================================

type ObjectType string

const (
	TypeRect   ObjectType = "rect"
	TypeCircle ObjectType = "circle"
	TypeText   ObjectType = "text"
	TypeImage  ObjectType = "image"
	TypeLine   ObjectType = "line"
	TypeGroup  ObjectType = "group"
	TypeFrame  ObjectType = "frame"
)

// Valid сообщает, известен ли тип объекта.
func (t ObjectType) Valid() bool {
	switch t {
	case TypeRect, TypeCircle, TypeText, TypeImage, TypeLine, TypeGroup, TypeFrame:
		return true
	}
	return false
}

// IsContainer: group и frame владеют children.
func (t ObjectType) IsContainer() bool {
	return t == TypeGroup || t == TypeFrame
}

// ============================================================
// Canvas object
// ============================================================

// CanvasObject: узел дерева сцены. Координаты абсолютные на верхнем уровне
// и относительные к (x, y) родителя внутри group/frame.
type CanvasObject struct {
	ID   string     `json:"id"`
	Type ObjectType `json:"type"`
	X    float64    `json:"x"`
	Y    float64    `json:"y"`

	Rotation  float64  `json:"rotation,omitempty"`
	ScaleX    *float64 `json:"scaleX,omitempty"`
	ScaleY    *float64 `json:"scaleY,omitempty"`
	Opacity   *float64 `json:"opacity,omitempty"`
	Draggable *bool    `json:"draggable,omitempty"`
	Visible   *bool    `json:"visible,omitempty"`
	Name      string   `json:"name,omitempty"`
	ZIndex    *int     `json:"zIndex,omitempty"`

	Width  float64   `json:"width,omitempty"`
	Height float64   `json:"height,omitempty"`
	Radius float64   `json:"radius,omitempty"`
	Points []float64 `json:"points,omitempty"`

	Text       string  `json:"text,omitempty"`
	FontSize   float64 `json:"fontSize,omitempty"`
	FontFamily string  `json:"fontFamily,omitempty"`

	Src        string  `json:"src,omitempty"`
	CropX      float64 `json:"cropX,omitempty"`
	CropY      float64 `json:"cropY,omitempty"`
	CropWidth  float64 `json:"cropWidth,omitempty"`
	CropHeight float64 `json:"cropHeight,omitempty"`

	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`

	Children []CanvasObject `json:"children,omitempty"`
}

// IsVisible: отсутствие поля трактуется как visible.
func (o CanvasObject) IsVisible() bool {
	return o.Visible == nil || *o.Visible
}

// IsDraggable: отсутствие поля трактуется как draggable.
func (o CanvasObject) IsDraggable() bool {
	return o.Draggable == nil || *o.Draggable
}

func (o CanvasObject) Scale() (float64, float64) {
	sx, sy := 1.0, 1.0
	if o.ScaleX != nil {
		sx = *o.ScaleX
	}
	if o.ScaleY != nil {
		sy = *o.ScaleY
	}
	return sx, sy
}

func (o CanvasObject) OpacityOrDefault() float64 {
	if o.Opacity == nil {
		return 1
	}
	return *o.Opacity
}

// Clone возвращает глубокую копию: команды хранят снимки, которые
// не должны разделять память с живым деревом.
func (o CanvasObject) Clone() CanvasObject {
	out := o
	out.ScaleX = cloneFloat(o.ScaleX)
	out.ScaleY = cloneFloat(o.ScaleY)
	out.Opacity = cloneFloat(o.Opacity)
	out.Draggable = cloneBool(o.Draggable)
	out.Visible = cloneBool(o.Visible)
	if o.ZIndex != nil {
		z := *o.ZIndex
		out.ZIndex = &z
	}
	if o.Points != nil {
		out.Points = append([]float64(nil), o.Points...)
	}
	if o.Children != nil {
		out.Children = CloneObjects(o.Children)
	}
	return out
}

// CloneObjects копирует срез объектов целиком (nil остаётся nil).
func CloneObjects(objects []CanvasObject) []CanvasObject {
	if objects == nil {
		return nil
	}
	out := make([]CanvasObject, len(objects))
	for i, obj := range objects {
		out[i] = obj.Clone()
	}
	return out
}

// ============================================================
// Document
// ============================================================

// Document: сохраняемая форма галереи.
type Document struct {
	Objects    []CanvasObject `json:"objects"`
	Width      float64        `json:"width"`
	Height     float64        `json:"height"`
	Background string         `json:"background,omitempty"`
}

func (d Document) Clone() Document {
	out := d
	out.Objects = CloneObjects(d.Objects)
	if out.Objects == nil {
		out.Objects = []CanvasObject{}
	}
	return out
}

// ServerDocument: документ в том виде, в каком его возвращает хранилище.
type ServerDocument struct {
	ID        string   `json:"id"`
	Title     string   `json:"title,omitempty"`
	Document  Document `json:"document"`
	Version   int64    `json:"version"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

// ============================================================
// Helpers
// ============================================================

func Float(v float64) *float64 { return &v }

func Bool(v bool) *bool { return &v }

func Int(v int) *int { return &v }

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneBool(p *bool) *bool {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
