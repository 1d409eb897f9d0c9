package script

import (
	"context"
	"errors"
	"strings"
	"testing"

	"artchive-gallery/internal/canvas/editor"
	"artchive-gallery/internal/canvas/models"
)

type countingSaver struct{ calls int }

func (s *countingSaver) Save(ctx context.Context) (models.ServerDocument, error) {
	s.calls++
	return models.ServerDocument{Version: int64(s.calls)}, nil
}

const sample = `[
  {"op": "add", "as": "a", "object": {"type": "rect", "x": 0, "y": 0, "width": 10, "height": 10}},
  {"op": "add", "as": "b", "object": {"type": "circle", "x": 50, "y": 50, "radius": 5}},
  {"op": "update", "id": "$a", "patch": {"fill": "#ff0000"}},
  {"op": "group", "as": "g", "ids": ["$a", "$b"]},
  {"op": "background", "color": "#222222"},
  {"op": "zoom", "value": 2},
  {"op": "save"}
]`

func TestRunScript(t *testing.T) {
	steps, err := Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	ed := editor.New(800, 600, 0)
	saver := &countingSaver{}
	r := NewRunner(ed, saver)
	if err := r.Run(context.Background(), steps); err != nil {
		t.Fatalf("run: %v", err)
	}

	doc := ed.Document()
	if len(doc.Objects) != 1 || doc.Objects[0].Type != models.TypeGroup {
		t.Fatalf("expected single group, got %+v", doc.Objects)
	}
	groupID, _ := r.Alias("g")
	if doc.Objects[0].ID != groupID {
		t.Fatalf("alias g = %q, group id %q", groupID, doc.Objects[0].ID)
	}
	if len(doc.Objects[0].Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(doc.Objects[0].Children))
	}
	if doc.Background != "#222222" {
		t.Fatalf("background not applied: %q", doc.Background)
	}
	if ed.Viewport().Zoom != 2 {
		t.Fatalf("zoom not applied: %v", ed.Viewport().Zoom)
	}
	if saver.calls != 1 {
		t.Fatalf("expected one save, got %d", saver.calls)
	}
}

func TestRunUndoRedo(t *testing.T) {
	ed := editor.New(800, 600, 0)
	r := NewRunner(ed, nil)
	steps := []Step{
		{Op: "add", As: "a", Object: &models.CanvasObject{Type: models.TypeRect, Width: 5, Height: 5}},
		{Op: "delete", ID: "$a"},
		{Op: "undo"},
	}
	if err := r.Run(context.Background(), steps); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(ed.Objects()) != 1 {
		t.Fatalf("undo must restore deleted object")
	}

	if err := r.Run(context.Background(), []Step{{Op: "redo"}}); err != nil {
		t.Fatalf("redo: %v", err)
	}
	if len(ed.Objects()) != 0 {
		t.Fatalf("redo must delete again")
	}
}

func TestRunCopyPaste(t *testing.T) {
	ed := editor.New(800, 600, 0)
	r := NewRunner(ed, nil)
	steps := []Step{
		{Op: "add", As: "a", Object: &models.CanvasObject{ID: "a", Type: models.TypeRect, Width: 5, Height: 5}},
		{Op: "add", Object: &models.CanvasObject{ID: "b", Type: models.TypeRect, Width: 5, Height: 5}},
		{Op: "select", IDs: []string{"$a"}},
		{Op: "copy"},
		{Op: "paste", As: "copy", AtStart: true},
		{Op: "front", ID: "$copy"},
	}
	if err := r.Run(context.Background(), steps); err != nil {
		t.Fatalf("run: %v", err)
	}
	objs := ed.Objects()
	if len(objs) != 3 {
		t.Fatalf("expected 3 objects, got %d", len(objs))
	}
	copyID, ok := r.Alias("copy")
	if !ok || copyID == "a" {
		t.Fatalf("paste must produce a fresh id, got %q", copyID)
	}
	if objs[2].ID != copyID {
		t.Fatalf("pasted object must be on top after front, got order %v", []string{objs[0].ID, objs[1].ID, objs[2].ID})
	}
}

func TestRunErrors(t *testing.T) {
	cases := []struct {
		name string
		step Step
		want string
	}{
		{"unknown op", Step{Op: "explode"}, `unknown op "explode"`},
		{"add without object", Step{Op: "add"}, "object required"},
		{"update without patch", Step{Op: "update", ID: "x"}, "patch required"},
		{"zoom without value", Step{Op: "zoom"}, "value required"},
		{"save without store", Step{Op: "save"}, "no store configured"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewRunner(editor.New(100, 100, 0), nil)
			err := r.Run(context.Background(), []Step{tc.step})
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
			if !strings.HasPrefix(err.Error(), "step 1 ") {
				t.Fatalf("error must name the step: %v", err)
			}
		})
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ed := editor.New(100, 100, 0)
	err := NewRunner(ed, nil).Run(ctx, []Step{{Op: "grid"}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if ed.Viewport().GridEnabled {
		t.Fatalf("no step may run after cancel")
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	if _, err := Parse(strings.NewReader(`[{"op":"grid","bogus":1}]`)); err == nil {
		t.Fatalf("expected decode error")
	}
}
