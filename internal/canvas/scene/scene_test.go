package scene

import (
	"errors"
	"math"
	"testing"

	"artchive-gallery/internal/canvas/models"
)

func rect(id string, x, y, w, h float64) models.CanvasObject {
	return models.CanvasObject{ID: id, Type: models.TypeRect, X: x, Y: y, Width: w, Height: h}
}

func group(id string, x, y float64, children ...models.CanvasObject) models.CanvasObject {
	return RecalculateGroupBounds(models.CanvasObject{ID: id, Type: models.TypeGroup, X: x, Y: y, Children: children})
}

func nestedTree() []models.CanvasObject {
	inner := group("inner", 10, 10, rect("deep", 0, 0, 20, 20))
	outer := group("outer", 100, 100, inner, rect("side", 40, 0, 10, 10))
	return []models.CanvasObject{rect("top", 0, 0, 5, 5), outer}
}

func TestFindDepthFirstAndCopy(t *testing.T) {
	tree := nestedTree()

	obj, ok := Find(tree, "deep")
	if !ok {
		t.Fatalf("expected to find nested object")
	}
	obj.Width = 999
	again, _ := Find(tree, "deep")
	if again.Width != 20 {
		t.Fatalf("Find must return a copy, got width %v", again.Width)
	}

	if _, ok := Find(tree, "missing"); ok {
		t.Fatalf("expected missing id to be absent")
	}
	if !Contains(tree, "side") || Contains(tree, "nope") {
		t.Fatalf("Contains mismatch")
	}
}

func TestUpdatePropagatesBoundsThroughNestedGroups(t *testing.T) {
	tree := nestedTree()
	w := 60.0
	next := Update(tree, "deep", models.Patch{Width: &w})

	outer, _ := Find(next, "outer")
	inner, _ := Find(next, "inner")
	if inner.Width != 60 || inner.Height != 20 {
		t.Fatalf("inner bounds = %vx%v, want 60x20", inner.Width, inner.Height)
	}
	// outer children: inner [10,70]x[10,30], side [40,50]x[0,10]
	if outer.Width != 60 || outer.Height != 30 {
		t.Fatalf("outer bounds = %vx%v, want 60x30", outer.Width, outer.Height)
	}

	original, _ := Find(tree, "deep")
	if original.Width != 20 {
		t.Fatalf("Update must not mutate the input tree")
	}
}

func TestUpdateInsideFrameKeepsFrameBox(t *testing.T) {
	frame := models.CanvasObject{ID: "f", Type: models.TypeFrame, Width: 100, Height: 50,
		Children: []models.CanvasObject{{ID: "img", Type: models.TypeImage, Width: 100, Height: 50}}}
	w := 10.0
	next := Update([]models.CanvasObject{frame}, "img", models.Patch{Width: &w})
	if next[0].Width != 100 || next[0].Height != 50 {
		t.Fatalf("frame box must stay fixed, got %vx%v", next[0].Width, next[0].Height)
	}
	if next[0].Children[0].Width != 10 {
		t.Fatalf("child not updated")
	}
}

func TestDeleteNestedRecomputesParent(t *testing.T) {
	tree := []models.CanvasObject{group("g", 0, 0, rect("a", 0, 0, 10, 10), rect("b", 30, 0, 10, 40))}
	if tree[0].Width != 40 || tree[0].Height != 40 {
		t.Fatalf("precondition: %vx%v", tree[0].Width, tree[0].Height)
	}
	next := Delete(tree, "b")
	if len(next[0].Children) != 1 {
		t.Fatalf("expected one child left")
	}
	if next[0].Width != 10 || next[0].Height != 10 {
		t.Fatalf("bounds after delete = %vx%v", next[0].Width, next[0].Height)
	}
	if len(tree[0].Children) != 2 {
		t.Fatalf("Delete must not mutate the input tree")
	}
}

func TestHiddenChildrenKeepStaleBounds(t *testing.T) {
	tree := []models.CanvasObject{group("g", 0, 0, rect("a", 0, 0, 10, 20))}
	hidden := false
	next := Update(tree, "a", models.Patch{Visible: &hidden})
	if next[0].Width != 10 || next[0].Height != 20 {
		t.Fatalf("group with only hidden children must keep bounds, got %vx%v", next[0].Width, next[0].Height)
	}
}

func TestExtent(t *testing.T) {
	cases := []struct {
		name string
		obj  models.CanvasObject
		want Rect
		ok   bool
	}{
		{"rect scaled", models.CanvasObject{Type: models.TypeRect, X: 1, Y: 2, Width: 10, Height: 5, ScaleX: models.Float(2)}, Rect{1, 2, 21, 7}, true},
		{"circle", models.CanvasObject{Type: models.TypeCircle, X: 50, Y: 50, Radius: 10, ScaleY: models.Float(0.5)}, Rect{40, 45, 60, 55}, true},
		{"line", models.CanvasObject{Type: models.TypeLine, X: 5, Y: 5, Points: []float64{0, 0, 10, -5}}, Rect{5, 0, 15, 5}, true},
		{"text without width", models.CanvasObject{Type: models.TypeText, Text: "hi", FontSize: 12}, Rect{}, false},
		{"text with width", models.CanvasObject{Type: models.TypeText, Width: 40, FontSize: 12}, Rect{0, 0, 40, 12}, true},
		{"empty rect", models.CanvasObject{Type: models.TypeRect}, Rect{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Extent(tc.obj)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Fatalf("extent = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestFitContain(t *testing.T) {
	cases := []struct {
		name             string
		w, h, boxW, boxH float64
		want             Placement
	}{
		{"wide image", 200, 100, 100, 100, Placement{0, 25, 100, 50}},
		{"tall image", 100, 200, 100, 100, Placement{25, 0, 50, 100}},
		{"same aspect", 50, 25, 200, 100, Placement{0, 0, 200, 100}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FitContain(tc.w, tc.h, tc.boxW, tc.boxH)
			if got != tc.want {
				t.Fatalf("placement = %+v, want %+v", got, tc.want)
			}
			if got.Width > tc.boxW+1e-9 || got.Height > tc.boxH+1e-9 {
				t.Fatalf("placement escapes box")
			}
			if math.Abs(got.Width/got.Height-tc.w/tc.h) > 1e-9 {
				t.Fatalf("aspect ratio not preserved")
			}
		})
	}
}

func TestAbsolutePosition(t *testing.T) {
	tree := nestedTree()
	x, y, ok := AbsolutePosition(tree, "deep")
	if !ok || x != 110 || y != 110 {
		t.Fatalf("abs = (%v,%v,%v), want (110,110,true)", x, y, ok)
	}
	if _, _, ok := AbsolutePosition(tree, "missing"); ok {
		t.Fatalf("expected missing")
	}
}

func TestCloneWithFreshIDs(t *testing.T) {
	tree := nestedTree()
	clone := CloneWithFreshIDs(tree[1])

	existing := CollectIDs(tree)
	fresh := CollectIDs([]models.CanvasObject{clone})
	if len(fresh) != 4 {
		t.Fatalf("expected 4 ids in clone, got %d", len(fresh))
	}
	for id := range fresh {
		if _, clash := existing[id]; clash {
			t.Fatalf("clone reused id %s", id)
		}
	}
}

func TestTopLevelHelpers(t *testing.T) {
	tree := []models.CanvasObject{rect("a", 0, 0, 1, 1), rect("b", 0, 0, 1, 1), rect("c", 0, 0, 1, 1)}

	ids := func(objs []models.CanvasObject) string {
		s := ""
		for _, o := range objs {
			s += o.ID
		}
		return s
	}

	if got := ids(Move(tree, 0, 2)); got != "bca" {
		t.Fatalf("Move(0,2) = %s", got)
	}
	if got := ids(Move(tree, 2, 0)); got != "cab" {
		t.Fatalf("Move(2,0) = %s", got)
	}
	if got := ids(Swap(tree, 0, 1)); got != "bac" {
		t.Fatalf("Swap = %s", got)
	}
	if got := ids(InsertAt(tree, 1, rect("x", 0, 0, 1, 1))); got != "axbc" {
		t.Fatalf("InsertAt = %s", got)
	}
	if got := ids(RemoveTopLevel(tree, map[string]struct{}{"b": {}})); got != "ac" {
		t.Fatalf("RemoveTopLevel = %s", got)
	}
	if ids(tree) != "abc" {
		t.Fatalf("helpers must not mutate input")
	}
	if IndexOf(tree, "c") != 2 || IndexOf(tree, "z") != -1 {
		t.Fatalf("IndexOf mismatch")
	}
}

func TestValidate(t *testing.T) {
	ok := nestedTree()
	if err := Validate(ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dup := append(nestedTree(), rect("deep", 0, 0, 1, 1))
	if err := Validate(dup); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	bad := []models.CanvasObject{{ID: "x", Type: "hexagon"}}
	if err := Validate(bad); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected unknown type error, got %v", err)
	}

	frame := []models.CanvasObject{{ID: "f", Type: models.TypeFrame, Children: []models.CanvasObject{rect("a", 0, 0, 1, 1), rect("b", 0, 0, 1, 1)}}}
	if err := Validate(frame); !errors.Is(err, ErrFrameOverflow) {
		t.Fatalf("expected frame overflow, got %v", err)
	}

	leaf := []models.CanvasObject{{ID: "r", Type: models.TypeRect, Children: []models.CanvasObject{rect("a", 0, 0, 1, 1)}}}
	if err := Validate(leaf); !errors.Is(err, ErrNotContainer) {
		t.Fatalf("expected not-container error, got %v", err)
	}
}
