package script

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"artchive-gallery/internal/canvas/editor"
	"artchive-gallery/internal/canvas/models"
)

// ============================================================
// Steps
// ============================================================

// Step: одно действие пользователя. Ссылки вида "$name" разрешаются
// в id, сохранённые ранее через поле "as".
type Step struct {
	Op string `json:"op"`

	ID     string               `json:"id,omitempty"`
	IDs    []string             `json:"ids,omitempty"`
	As     string               `json:"as,omitempty"`
	Object *models.CanvasObject `json:"object,omitempty"`
	Patch  *models.Patch        `json:"patch,omitempty"`

	After     *string `json:"after,omitempty"`
	AtStart   bool    `json:"atStart,omitempty"`
	Direction string  `json:"direction,omitempty"`

	Image string `json:"image,omitempty"`
	Frame string `json:"frame,omitempty"`

	Value *float64 `json:"value,omitempty"`
	X     float64  `json:"x,omitempty"`
	Y     float64  `json:"y,omitempty"`
	Color string   `json:"color,omitempty"`
}

// Parse читает JSON-массив шагов.
func Parse(r io.Reader) ([]Step, error) {
	var steps []Step
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&steps); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	return steps, nil
}

// Saver сохраняет документ по требованию (шаг "save").
type Saver interface {
	Save(ctx context.Context) (models.ServerDocument, error)
}

// ============================================================
// Runner
// ============================================================

// Runner проигрывает шаги на редакторе.
type Runner struct {
	ed      *editor.Editor
	saver   Saver
	aliases map[string]string
}

func NewRunner(ed *editor.Editor, saver Saver) *Runner {
	return &Runner{ed: ed, saver: saver, aliases: make(map[string]string)}
}

// Alias возвращает id, сохранённый под именем.
func (r *Runner) Alias(name string) (string, bool) {
	id, ok := r.aliases[name]
	return id, ok
}

// Run выполняет шаги по порядку и останавливается на первой ошибке.
func (r *Runner) Run(ctx context.Context, steps []Step) error {
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.apply(ctx, step); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step.Op, err)
		}
	}
	return nil
}

func (r *Runner) apply(ctx context.Context, s Step) error {
	switch s.Op {
	case "add":
		if s.Object == nil {
			return fmt.Errorf("object required")
		}
		id, err := r.ed.AddObject(*s.Object)
		if err != nil {
			return err
		}
		r.remember(s.As, id)
	case "update":
		if s.Patch == nil {
			return fmt.Errorf("patch required")
		}
		return r.ed.UpdateObject(r.resolve(s.ID), *s.Patch)
	case "delete":
		return r.ed.DeleteObject(r.resolve(s.ID))
	case "group":
		id, err := r.ed.GroupObjects(r.resolveAll(s.IDs))
		if err != nil {
			return err
		}
		r.remember(s.As, id)
	case "ungroup":
		return r.ed.UngroupObject(r.resolve(s.ID))
	case "select":
		r.ed.SelectObjects(r.resolveAll(s.IDs))
	case "clearSelection":
		r.ed.ClearSelection()
	case "copy":
		r.ed.CopyObjects()
	case "paste":
		var (
			ids []string
			err error
		)
		switch {
		case s.AtStart:
			ids, err = r.ed.PasteObjectsAtPosition(nil)
		case s.After != nil:
			after := r.resolve(*s.After)
			ids, err = r.ed.PasteObjectsAtPosition(&after)
		default:
			ids, err = r.ed.PasteObjects()
		}
		if err != nil {
			return err
		}
		if len(ids) > 0 {
			r.remember(s.As, ids[0])
		}
	case "reorder":
		return r.ed.ReorderObject(r.resolve(s.ID), editor.Direction(s.Direction))
	case "forward":
		return r.ed.BringForward(r.resolve(s.ID))
	case "backward":
		return r.ed.SendBackward(r.resolve(s.ID))
	case "front":
		return r.ed.BringToFront(r.resolve(s.ID))
	case "back":
		return r.ed.SendToBack(r.resolve(s.ID))
	case "attach":
		return r.ed.AttachImageToFrame(r.resolve(s.Image), r.resolve(s.Frame))
	case "detach":
		return r.ed.DetachImageFromFrame(r.resolve(s.Frame))
	case "background":
		return r.ed.SetBackground(s.Color)
	case "zoom":
		if s.Value == nil {
			return fmt.Errorf("value required")
		}
		r.ed.SetZoom(*s.Value)
	case "pan":
		r.ed.SetPan(s.X, s.Y)
	case "grid":
		r.ed.ToggleGrid()
	case "snap":
		r.ed.ToggleSnap()
	case "undo":
		return r.ed.Undo()
	case "redo":
		return r.ed.Redo()
	case "save":
		if r.saver == nil {
			return fmt.Errorf("no store configured")
		}
		saved, err := r.saver.Save(ctx)
		if err != nil {
			return err
		}
		log.Printf("[EDITOR] saved version %d", saved.Version)
	default:
		return fmt.Errorf("unknown op %q", s.Op)
	}
	return nil
}

func (r *Runner) remember(alias, id string) {
	if alias != "" {
		r.aliases[alias] = id
	}
}

func (r *Runner) resolve(ref string) string {
	if name, ok := strings.CutPrefix(ref, "$"); ok {
		if id, ok := r.aliases[name]; ok {
			return id
		}
	}
	return ref
}

func (r *Runner) resolveAll(refs []string) []string {
	out := make([]string, len(refs))
	for i, ref := range refs {
		out[i] = r.resolve(ref)
	}
	return out
}
