package editor

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"

	"artchive-gallery/internal/canvas/models"
	"artchive-gallery/internal/canvas/scene"
)

func rect(id string, x, y, w, h float64) models.CanvasObject {
	return models.CanvasObject{ID: id, Type: models.TypeRect, X: x, Y: y, Width: w, Height: h}
}

func ids(objs []models.CanvasObject) []string {
	out := make([]string, len(objs))
	for i, o := range objs {
		out[i] = o.ID
	}
	return out
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

func assertUniqueIDs(t *testing.T, e *Editor) {
	t.Helper()
	if err := scene.Validate(e.Objects()); err != nil {
		t.Fatalf("tree invalid: %v", err)
	}
}

func TestGroupScenario(t *testing.T) {
	e := New(800, 600, 0)
	a := rect("a", 10, 20, 30, 40)
	b := rect("b", 100, 50, 20, 20)
	e.AddObject(a)
	e.AddObject(b)

	groupID, err := e.GroupObjects([]string{"a", "b"})
	if err != nil || groupID == "" {
		t.Fatalf("group: %q %v", groupID, err)
	}

	objs := e.Objects()
	if len(objs) != 1 || objs[0].Type != models.TypeGroup {
		t.Fatalf("expected single group, got %v", ids(objs))
	}
	g := objs[0]
	if g.X != 10 || g.Y != 20 || g.Width != 110 || g.Height != 50 {
		t.Fatalf("group box = (%v,%v %vx%v)", g.X, g.Y, g.Width, g.Height)
	}
	if got := ids(g.Children); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("children = %v", got)
	}
	if g.Children[0].X != 0 || g.Children[0].Y != 0 || g.Children[1].X != 90 || g.Children[1].Y != 30 {
		t.Fatalf("children not relative: %+v", g.Children)
	}

	if err := e.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if got := e.Objects(); mustJSON(t, got) != mustJSON(t, []models.CanvasObject{a, b}) {
		t.Fatalf("undo did not restore flat objects: %s", mustJSON(t, got))
	}
}

func TestGroupNeedsTwoResolvedIDs(t *testing.T) {
	e := New(100, 100, 0)
	e.AddObject(rect("a", 0, 0, 1, 1))
	id, err := e.GroupObjects([]string{"a", "missing"})
	if err != nil || id != "" {
		t.Fatalf("expected no-op, got %q %v", id, err)
	}
	if len(e.Objects()) != 1 || e.history.Len() != 1 {
		t.Fatalf("no command should be recorded")
	}
}

func TestUndoAllRestoresInitialDocument(t *testing.T) {
	e := New(800, 600, 0)
	e.InitializeState(models.Document{
		Objects: []models.CanvasObject{rect("base", 0, 0, 50, 50)},
		Width:   800, Height: 600, Background: "#fff",
	})
	before := mustJSON(t, e.Document())

	e.AddObject(rect("a", 10, 10, 10, 10))
	e.AddObject(models.CanvasObject{ID: "c", Type: models.TypeCircle, X: 200, Y: 200, Radius: 5})
	x := 99.0
	e.UpdateObject("a", models.Patch{X: &x})
	gid, _ := e.GroupObjects([]string{"a", "c"})
	e.ReorderObject(gid, Up)
	e.BringToFront("base")
	e.SendToBack("base")
	e.UngroupObject(gid)
	e.SelectObjects([]string{"a"})
	e.CopyObjects()
	e.PasteObjects()
	e.DeleteObject("base")
	e.SetBackground("#000")

	for e.CanUndo() {
		if err := e.Undo(); err != nil {
			t.Fatalf("undo: %v", err)
		}
	}
	if after := mustJSON(t, e.Document()); after != before {
		t.Fatalf("undo all mismatch:\n got %s\nwant %s", after, before)
	}
}

func TestRedoAfterUndoMatchesExecute(t *testing.T) {
	e := New(100, 100, 0)
	e.AddObject(rect("a", 0, 0, 10, 10))
	e.AddObject(rect("b", 20, 0, 10, 10))
	e.GroupObjects([]string{"a", "b"})
	afterExecute := mustJSON(t, e.Objects())

	e.Undo()
	e.Redo()
	if got := mustJSON(t, e.Objects()); got != afterExecute {
		t.Fatalf("redo mismatch:\n got %s\nwant %s", got, afterExecute)
	}
}

func TestUpdateAndDeleteMissingAreNoOps(t *testing.T) {
	e := New(100, 100, 0)
	x := 1.0
	if err := e.UpdateObject("nope", models.Patch{X: &x}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := e.DeleteObject("nope"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if e.CanUndo() {
		t.Fatalf("no-ops must not record history")
	}
}

func TestUpdateNestedChildRecomputesGroup(t *testing.T) {
	e := New(100, 100, 0)
	e.AddObject(rect("a", 0, 0, 10, 10))
	e.AddObject(rect("b", 20, 0, 10, 10))
	gid, _ := e.GroupObjects([]string{"a", "b"})

	w := 50.0
	e.UpdateObject("b", models.Patch{Width: &w})
	g, _ := scene.Find(e.Objects(), gid)
	if g.Width != 70 {
		t.Fatalf("group width = %v, want 70", g.Width)
	}

	e.Undo()
	g, _ = scene.Find(e.Objects(), gid)
	if g.Width != 30 {
		t.Fatalf("group width after undo = %v, want 30", g.Width)
	}
}

func TestDeleteNestedUndoReappearsTopLevel(t *testing.T) {
	e := New(100, 100, 0)
	e.AddObject(rect("a", 0, 0, 10, 10))
	e.AddObject(rect("b", 20, 0, 10, 10))
	gid, _ := e.GroupObjects([]string{"a", "b"})

	e.DeleteObject("a")
	g, _ := scene.Find(e.Objects(), gid)
	if len(g.Children) != 1 {
		t.Fatalf("child not removed")
	}

	e.Undo()
	objs := e.Objects()
	if len(objs) != 2 || objs[1].ID != "a" {
		t.Fatalf("deleted child must come back at top level, got %v", ids(objs))
	}
}

func TestAddObjectReassignsClashingIDs(t *testing.T) {
	e := New(100, 100, 0)
	first, _ := e.AddObject(rect("a", 0, 0, 1, 1))
	second, _ := e.AddObject(rect("a", 5, 5, 1, 1))
	third, _ := e.AddObject(rect("", 5, 5, 1, 1))
	if first != "a" || second == "a" || third == "" {
		t.Fatalf("ids = %q %q %q", first, second, third)
	}
	assertUniqueIDs(t, e)
}

func TestPasteOffsetsAndFreshIDs(t *testing.T) {
	e := New(100, 100, 0)
	e.AddObject(rect("a", 10, 10, 5, 5))
	e.AddObject(rect("b", 40, 10, 5, 5))
	gid, _ := e.GroupObjects([]string{"a", "b"})
	original, _ := scene.Find(e.Objects(), gid)

	e.SelectObjects([]string{gid})
	if n := e.CopyObjects(); n != 1 {
		t.Fatalf("copied %d", n)
	}
	pasted, err := e.PasteObjects()
	if err != nil || len(pasted) != 1 {
		t.Fatalf("paste: %v %v", pasted, err)
	}
	clone, _ := scene.Find(e.Objects(), pasted[0])
	if clone.X != original.X+PasteOffset || clone.Y != original.Y+PasteOffset {
		t.Fatalf("offset wrong: (%v,%v) vs (%v,%v)", clone.X, clone.Y, original.X, original.Y)
	}
	if clone.Children[0].X != original.Children[0].X {
		t.Fatalf("children keep their relative coordinates")
	}
	if got := e.Selection(); !reflect.DeepEqual(got, pasted) {
		t.Fatalf("selection = %v, want %v", got, pasted)
	}
	assertUniqueIDs(t, e)

	e.Undo()
	if len(e.Objects()) != 1 {
		t.Fatalf("undo paste left %v", ids(e.Objects()))
	}
}

func TestPasteAtPosition(t *testing.T) {
	e := New(100, 100, 0)
	e.AddObject(rect("a", 0, 0, 1, 1))
	e.AddObject(rect("b", 0, 0, 1, 1))
	e.AddObject(rect("c", 0, 0, 1, 1))
	e.SelectObjects([]string{"c"})
	e.CopyObjects()

	after := "a"
	pasted, _ := e.PasteObjectsAtPosition(&after)
	if got := ids(e.Objects()); got[1] != pasted[0] {
		t.Fatalf("expected paste after a, got %v", got)
	}

	pasted, _ = e.PasteObjectsAtPosition(nil)
	if got := ids(e.Objects()); got[0] != pasted[0] {
		t.Fatalf("expected paste at start, got %v", got)
	}
	assertUniqueIDs(t, e)
}

func TestPasteEmptyClipboardIsNoOp(t *testing.T) {
	e := New(100, 100, 0)
	pasted, err := e.PasteObjects()
	if err != nil || pasted != nil || e.CanUndo() {
		t.Fatalf("expected no-op paste")
	}
}

func TestZOrder(t *testing.T) {
	e := New(100, 100, 0)
	for _, id := range []string{"a", "b", "c"} {
		e.AddObject(rect(id, 0, 0, 1, 1))
	}

	e.BringForward("a")
	if got := ids(e.Objects()); !reflect.DeepEqual(got, []string{"b", "a", "c"}) {
		t.Fatalf("bring forward = %v", got)
	}
	e.SendBackward("a")
	if got := ids(e.Objects()); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("send backward = %v", got)
	}

	before := e.history.Len()
	e.ReorderObject("a", Up)
	e.ReorderObject("c", Down)
	if e.history.Len() != before {
		t.Fatalf("boundary reorder must be a no-op")
	}

	e.BringToFront("a")
	if got := ids(e.Objects()); !reflect.DeepEqual(got, []string{"b", "c", "a"}) {
		t.Fatalf("bring to front = %v", got)
	}
	e.SendToBack("c")
	if got := ids(e.Objects()); !reflect.DeepEqual(got, []string{"c", "b", "a"}) {
		t.Fatalf("send to back = %v", got)
	}
	e.Undo()
	e.Undo()
	if got := ids(e.Objects()); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("undo z-order = %v", got)
	}
}

func TestUngroupRestoresAbsoluteAndUnlocksFrames(t *testing.T) {
	e := New(500, 500, 0)
	template := models.CanvasObject{
		ID: "tpl", Type: models.TypeGroup, X: 100, Y: 50, Width: 200, Height: 100,
		Children: []models.CanvasObject{
			{ID: "f1", Type: models.TypeFrame, X: 0, Y: 0, Width: 100, Height: 100, Draggable: models.Bool(false)},
			{ID: "f2", Type: models.TypeFrame, X: 100, Y: 0, Width: 100, Height: 100, Draggable: models.Bool(false)},
		},
	}
	e.AddObject(template)

	if err := e.UngroupObject("tpl"); err != nil {
		t.Fatalf("ungroup: %v", err)
	}
	objs := e.Objects()
	if len(objs) != 2 || objs[1].X != 200 || objs[1].Y != 50 || !objs[1].IsDraggable() {
		t.Fatalf("ungroup result = %s", mustJSON(t, objs))
	}

	e.Undo()
	objs = e.Objects()
	if len(objs) != 1 || objs[0].ID != "tpl" || objs[0].Children[0].IsDraggable() {
		t.Fatalf("undo ungroup = %s", mustJSON(t, objs))
	}

	if err := e.UngroupObject("f1"); err != nil || e.history.Len() != 2 {
		t.Fatalf("ungroup of a non-group must be a no-op")
	}
}

func TestAttachAndDetachImage(t *testing.T) {
	e := New(1000, 1000, 0)
	e.AddObject(models.CanvasObject{
		ID: "g", Type: models.TypeGroup, X: 100, Y: 100, Width: 200, Height: 100,
		Children: []models.CanvasObject{
			{ID: "frame", Type: models.TypeFrame, X: 50, Y: 10, Width: 200, Height: 100},
		},
	})
	image := models.CanvasObject{ID: "img", Type: models.TypeImage, X: 600, Y: 600, Width: 400, Height: 100, Src: "a.png"}
	e.AddObject(image)

	if err := e.AttachImageToFrame("img", "frame"); err != nil {
		t.Fatalf("attach: %v", err)
	}
	frame, _ := scene.Find(e.Objects(), "frame")
	if len(frame.Children) != 1 {
		t.Fatalf("frame children = %d", len(frame.Children))
	}
	fitted := frame.Children[0]
	if fitted.Width > frame.Width+1e-9 || fitted.Height > frame.Height+1e-9 {
		t.Fatalf("fitted image escapes frame: %vx%v", fitted.Width, fitted.Height)
	}
	if math.Abs(fitted.Width/fitted.Height-4) > 1e-9 {
		t.Fatalf("aspect not preserved: %v", fitted.Width/fitted.Height)
	}
	if fitted.X != 0 || fitted.Y != 25 {
		t.Fatalf("fitted position = (%v,%v)", fitted.X, fitted.Y)
	}
	if len(e.Objects()) != 1 {
		t.Fatalf("image must leave the top level")
	}

	if err := e.DetachImageFromFrame("frame"); err != nil {
		t.Fatalf("detach: %v", err)
	}
	objs := e.Objects()
	detached := objs[len(objs)-1]
	if detached.ID != "img" || detached.X != 150 || detached.Y != 135 {
		t.Fatalf("detached = %+v", detached)
	}
	frame, _ = scene.Find(objs, "frame")
	if len(frame.Children) != 0 {
		t.Fatalf("frame still holds the image")
	}

	e.Undo()
	frame, _ = scene.Find(e.Objects(), "frame")
	if len(frame.Children) != 1 {
		t.Fatalf("undo detach did not re-attach")
	}

	e.Undo()
	objs = e.Objects()
	if mustJSON(t, objs[len(objs)-1]) != mustJSON(t, image) {
		t.Fatalf("undo attach must restore the unfitted image")
	}
	frame, _ = scene.Find(objs, "frame")
	if len(frame.Children) != 0 {
		t.Fatalf("undo attach must restore prior frame children")
	}
}

func TestReattachImageUndoKeepsSingleCopy(t *testing.T) {
	e := New(1000, 1000, 0)
	e.AddObject(models.CanvasObject{ID: "frame", Type: models.TypeFrame, Width: 200, Height: 100})
	e.AddObject(models.CanvasObject{ID: "img", Type: models.TypeImage, X: 600, Y: 600, Width: 400, Height: 100})

	if err := e.AttachImageToFrame("img", "frame"); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if err := e.AttachImageToFrame("img", "frame"); err != nil {
		t.Fatalf("attach again: %v", err)
	}
	assertUniqueIDs(t, e)

	e.Undo()
	assertUniqueIDs(t, e)
	frame, _ := scene.Find(e.Objects(), "frame")
	if len(frame.Children) != 1 || frame.Children[0].ID != "img" || len(e.Objects()) != 1 {
		t.Fatalf("undo of re-attach must leave the image in the frame: %s", mustJSON(t, e.Objects()))
	}

	e.Undo()
	assertUniqueIDs(t, e)
	if len(e.Objects()) != 2 {
		t.Fatalf("undo of first attach must restore the top-level image")
	}
}

func TestAttachRejectsWrongTypes(t *testing.T) {
	e := New(100, 100, 0)
	e.AddObject(rect("r", 0, 0, 10, 10))
	e.AddObject(models.CanvasObject{ID: "f", Type: models.TypeFrame, Width: 10, Height: 10})
	if err := e.AttachImageToFrame("r", "f"); err != nil || e.history.Len() != 2 {
		t.Fatalf("attaching a non-image must be a no-op")
	}
	if err := e.DetachImageFromFrame("f"); err != nil || e.history.Len() != 2 {
		t.Fatalf("detaching an empty frame must be a no-op")
	}
}

func TestViewportAndSelectionStayOutOfHistory(t *testing.T) {
	e := New(100, 100, 0)
	var events int
	e.OnChange(func(Event) { events++ })

	if z := e.SetZoom(10); z != MaxZoom {
		t.Fatalf("zoom = %v", z)
	}
	if z := e.SetZoom(0.01); z != MinZoom {
		t.Fatalf("zoom = %v", z)
	}
	if z := e.SetZoom(math.NaN()); z != MinZoom {
		t.Fatalf("NaN must keep current zoom, got %v", z)
	}
	if z := e.SetZoom(math.Inf(1)); z != MaxZoom {
		t.Fatalf("zoom = %v", z)
	}
	e.SetPan(5, -5)
	if !e.ToggleGrid() || !e.ToggleSnap() {
		t.Fatalf("toggles should switch on")
	}
	e.SelectObjects([]string{"x", "x", "y"})
	if got := e.Selection(); !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Fatalf("selection = %v", got)
	}
	e.ClearSelection()

	vp := e.Viewport()
	if vp.PanX != 5 || vp.PanY != -5 || !vp.GridEnabled || !vp.SnapEnabled {
		t.Fatalf("viewport = %+v", vp)
	}
	if e.CanUndo() || events != 0 || len(e.Selection()) != 0 {
		t.Fatalf("view state must not touch history or listeners")
	}
}

func TestListenersSeeMutationsAndReset(t *testing.T) {
	e := New(100, 100, 0)
	var kinds []EventKind
	e.OnChange(func(ev Event) { kinds = append(kinds, ev.Kind) })

	e.AddObject(rect("a", 0, 0, 1, 1))
	e.Undo()
	e.Redo()
	e.Undo()
	e.Undo() // boundary, no event
	e.InitializeState(models.Document{Width: 10, Height: 10})

	want := []EventKind{DocumentChanged, DocumentChanged, DocumentChanged, DocumentChanged, DocumentReset}
	if !reflect.DeepEqual(kinds, want) {
		t.Fatalf("events = %v, want %v", kinds, want)
	}
	if e.CanUndo() || e.CanRedo() {
		t.Fatalf("initialize must clear history")
	}
}

func TestHistoryCapBakesFirstOperation(t *testing.T) {
	e := New(100, 100, 2)
	e.AddObject(rect("a", 0, 0, 1, 1))
	e.AddObject(rect("b", 0, 0, 1, 1))
	e.AddObject(rect("c", 0, 0, 1, 1))

	e.Undo()
	e.Undo()
	if e.CanUndo() {
		t.Fatalf("history should be exhausted")
	}
	if got := ids(e.Objects()); !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("objects = %v", got)
	}
}
