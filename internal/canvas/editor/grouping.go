package editor

import (
	"artchive-gallery/internal/canvas/history"
	"artchive-gallery/internal/canvas/models"
	"artchive-gallery/internal/canvas/scene"
)

// ============================================================
// Group / Ungroup
// ============================================================

type placed struct {
	index int
	obj   models.CanvasObject
}

// GroupObjects собирает объекты верхнего уровня в новую группу.
// Нужно минимум два найденных id, иначе no-op. Возвращает id группы.
func (e *Editor) GroupObjects(ids []string) (string, error) {
	var groupID string
	err := e.apply(func() history.Command {
		wanted := idSet(ids...)

		var members []placed
		for i, obj := range e.doc.Objects {
			if _, ok := wanted[obj.ID]; ok {
				members = append(members, placed{index: i, obj: obj.Clone()})
			}
		}
		if len(members) < 2 {
			return nil
		}

		objects := make([]models.CanvasObject, len(members))
		for i, m := range members {
			objects[i] = m.obj
		}
		bounds, _ := scene.UnionFootprint(objects)

		group := models.CanvasObject{
			ID:        scene.NewID(),
			Type:      models.TypeGroup,
			X:         bounds.MinX,
			Y:         bounds.MinY,
			Width:     bounds.Width(),
			Height:    bounds.Height(),
			Draggable: models.Bool(true),
		}
		for _, m := range members {
			child := m.obj.Clone()
			child.X -= bounds.MinX
			child.Y -= bounds.MinY
			group.Children = append(group.Children, child)
		}
		groupID = group.ID
		memberIDs := make([]string, len(members))
		for i, m := range members {
			memberIDs[i] = m.obj.ID
		}

		return history.Func{
			Desc: "group objects",
			Do: func() {
				tree := scene.RemoveTopLevel(e.doc.Objects, idSet(memberIDs...))
				e.doc.Objects = scene.InsertAt(tree, len(tree), group)
				e.selected = []string{group.ID}
			},
			Revert: func() {
				tree := scene.RemoveTopLevel(e.doc.Objects, idSet(group.ID))
				for _, m := range members {
					tree = scene.InsertAt(tree, m.index, m.obj)
				}
				e.doc.Objects = tree
				e.selected = append([]string(nil), memberIDs...)
			},
		}
	})
	return groupID, err
}

// UngroupObject разворачивает группу верхнего уровня в её children с
// абсолютными координатами. Заблокированные frame-шаблоны снова становятся draggable.
func (e *Editor) UngroupObject(groupID string) error {
	return e.apply(func() history.Command {
		index := scene.IndexOf(e.doc.Objects, groupID)
		if index < 0 {
			return nil
		}
		group := e.doc.Objects[index].Clone()
		if group.Type != models.TypeGroup {
			return nil
		}

		expanded := make([]models.CanvasObject, 0, len(group.Children))
		childIDs := make([]string, 0, len(group.Children))
		for _, child := range group.Children {
			c := child.Clone()
			c.X += group.X
			c.Y += group.Y
			if c.Type == models.TypeFrame && !c.IsDraggable() {
				c.Draggable = models.Bool(true)
			}
			expanded = append(expanded, c)
			childIDs = append(childIDs, c.ID)
		}

		return history.Func{
			Desc: "ungroup",
			Do: func() {
				tree := scene.RemoveTopLevel(e.doc.Objects, idSet(groupID))
				e.doc.Objects = scene.InsertAt(tree, index, expanded...)
				e.selected = append([]string(nil), childIDs...)
			},
			Revert: func() {
				tree := scene.RemoveTopLevel(e.doc.Objects, idSet(childIDs...))
				e.doc.Objects = scene.InsertAt(tree, index, group)
				e.selected = []string{groupID}
			},
		}
	})
}
