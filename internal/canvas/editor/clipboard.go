package editor

import (
	"artchive-gallery/internal/canvas/history"
	"artchive-gallery/internal/canvas/models"
	"artchive-gallery/internal/canvas/scene"
)

// PasteOffset: сдвиг вставленных объектов относительно скопированных.
const PasteOffset = 20.0

// ============================================================
// Copy / Paste
// ============================================================

// CopyObjects снимает копию выделенных объектов в буфер. В историю не пишется.
func (e *Editor) CopyObjects() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	clip := make([]models.CanvasObject, 0, len(e.selected))
	for _, id := range e.selected {
		if obj, ok := scene.Find(e.doc.Objects, id); ok {
			clip = append(clip, obj)
		}
	}
	e.clipboard = clip
	return len(clip)
}

// Clipboard возвращает копию буфера обмена.
func (e *Editor) Clipboard() []models.CanvasObject {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return models.CloneObjects(e.clipboard)
}

// PasteObjects вставляет буфер в конец документа.
func (e *Editor) PasteObjects() ([]string, error) {
	return e.paste(func() int { return len(e.doc.Objects) })
}

// PasteObjectsAtPosition вставляет буфер сразу после afterID.
// nil: в начало документа; неизвестный id: в конец.
func (e *Editor) PasteObjectsAtPosition(afterID *string) ([]string, error) {
	return e.paste(func() int {
		if afterID == nil {
			return 0
		}
		if i := scene.IndexOf(e.doc.Objects, *afterID); i >= 0 {
			return i + 1
		}
		return len(e.doc.Objects)
	})
}

func (e *Editor) paste(position func() int) ([]string, error) {
	var pastedIDs []string
	err := e.apply(func() history.Command {
		if len(e.clipboard) == 0 {
			return nil
		}

		pasted := make([]models.CanvasObject, 0, len(e.clipboard))
		ids := make([]string, 0, len(e.clipboard))
		for _, obj := range e.clipboard {
			clone := scene.CloneWithFreshIDs(obj)
			clone.X += PasteOffset
			clone.Y += PasteOffset
			pasted = append(pasted, clone)
			ids = append(ids, clone.ID)
		}
		index := position()
		pastedIDs = ids

		return history.Func{
			Desc: "paste objects",
			Do: func() {
				e.doc.Objects = scene.InsertAt(e.doc.Objects, index, pasted...)
				e.selected = append([]string(nil), ids...)
			},
			Revert: func() {
				e.doc.Objects = scene.RemoveTopLevel(e.doc.Objects, idSet(ids...))
				e.deselect(ids...)
			},
		}
	})
	return pastedIDs, err
}
