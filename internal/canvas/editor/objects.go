package editor

import (
	"fmt"

	"artchive-gallery/internal/canvas/history"
	"artchive-gallery/internal/canvas/models"
	"artchive-gallery/internal/canvas/scene"
)

// ============================================================
// Add / Update / Delete
// ============================================================

// AddObject добавляет объект в конец верхнего уровня. Пустой или уже
// занятый id заменяется новым (у children тоже); возвращается итоговый id.
func (e *Editor) AddObject(obj models.CanvasObject) (string, error) {
	var id string
	err := e.apply(func() history.Command {
		added := obj.Clone()
		if needsFreshIDs(e.doc.Objects, added) {
			added = scene.CloneWithFreshIDs(added)
		}
		if added.Type == models.TypeGroup {
			added = scene.RecalculateGroupBounds(added)
		}
		id = added.ID

		return history.Func{
			Desc: fmt.Sprintf("add %s", added.Type),
			Do: func() {
				e.doc.Objects = scene.InsertAt(e.doc.Objects, len(e.doc.Objects), added)
			},
			Revert: func() {
				e.doc.Objects = scene.RemoveTopLevel(e.doc.Objects, idSet(added.ID))
			},
		}
	})
	return id, err
}

func needsFreshIDs(tree []models.CanvasObject, obj models.CanvasObject) bool {
	existing := scene.CollectIDs(tree)
	incoming := []models.CanvasObject{obj}
	clash := false
	seen := make(map[string]struct{})
	scene.Walk(incoming, func(o models.CanvasObject, _ int) {
		if o.ID == "" {
			clash = true
			return
		}
		if _, ok := existing[o.ID]; ok {
			clash = true
		}
		if _, ok := seen[o.ID]; ok {
			clash = true
		}
		seen[o.ID] = struct{}{}
	})
	return clash
}

// UpdateObject сливает patch с объектом id на любой глубине.
// Неизвестный id: тихий no-op.
func (e *Editor) UpdateObject(id string, patch models.Patch) error {
	return e.apply(func() history.Command {
		original, ok := scene.Find(e.doc.Objects, id)
		if !ok {
			return nil
		}

		return history.Func{
			Desc: fmt.Sprintf("update %s", original.Type),
			Do: func() {
				e.doc.Objects = scene.Update(e.doc.Objects, id, patch)
			},
			Revert: func() {
				e.doc.Objects = scene.Replace(e.doc.Objects, id, original)
			},
		}
	})
}

// DeleteObject удаляет объект id вместе с поддеревом.
// Undo возвращает объект на верхний уровень, даже если он был вложен в группу.
func (e *Editor) DeleteObject(id string) error {
	return e.apply(func() history.Command {
		removed, ok := scene.Find(e.doc.Objects, id)
		if !ok {
			return nil
		}

		return history.Func{
			Desc: fmt.Sprintf("delete %s", removed.Type),
			Do: func() {
				e.doc.Objects = scene.Delete(e.doc.Objects, id)
				e.deselect(id)
			},
			Revert: func() {
				e.doc.Objects = scene.InsertAt(e.doc.Objects, len(e.doc.Objects), removed)
			},
		}
	})
}
