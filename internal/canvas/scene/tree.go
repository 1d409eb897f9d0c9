package scene

import (
	"artchive-gallery/internal/canvas/models"
)

// ============================================================
// Lookup
// ============================================================

// Find ищет объект в глубину, включая children у group/frame.
// Возвращается копия: изменения результата не затрагивают дерево.
func Find(tree []models.CanvasObject, id string) (models.CanvasObject, bool) {
	if obj := lookup(tree, id); obj != nil {
		return obj.Clone(), true
	}
	return models.CanvasObject{}, false
}

// Contains сообщает, есть ли id на любой глубине.
func Contains(tree []models.CanvasObject, id string) bool {
	return lookup(tree, id) != nil
}

func lookup(tree []models.CanvasObject, id string) *models.CanvasObject {
	for i := range tree {
		if tree[i].ID == id {
			return &tree[i]
		}
		if len(tree[i].Children) > 0 {
			if found := lookup(tree[i].Children, id); found != nil {
				return found
			}
		}
	}
	return nil
}

// IndexOf возвращает индекс объекта верхнего уровня или -1.
func IndexOf(tree []models.CanvasObject, id string) int {
	for i, obj := range tree {
		if obj.ID == id {
			return i
		}
	}
	return -1
}

// AbsolutePosition складывает смещения всех предков с позицией самого объекта.
func AbsolutePosition(tree []models.CanvasObject, id string) (float64, float64, bool) {
	for _, obj := range tree {
		if obj.ID == id {
			return obj.X, obj.Y, true
		}
		if len(obj.Children) == 0 {
			continue
		}
		if x, y, ok := AbsolutePosition(obj.Children, id); ok {
			return obj.X + x, obj.Y + y, true
		}
	}
	return 0, 0, false
}

// Walk обходит дерево в глубину; depth у объектов верхнего уровня равен 0.
func Walk(tree []models.CanvasObject, fn func(obj models.CanvasObject, depth int)) {
	walk(tree, 0, fn)
}

func walk(tree []models.CanvasObject, depth int, fn func(models.CanvasObject, int)) {
	for _, obj := range tree {
		fn(obj, depth)
		if len(obj.Children) > 0 {
			walk(obj.Children, depth+1, fn)
		}
	}
}

// CollectIDs собирает все id дерева.
func CollectIDs(tree []models.CanvasObject) map[string]struct{} {
	ids := make(map[string]struct{})
	Walk(tree, func(obj models.CanvasObject, _ int) {
		ids[obj.ID] = struct{}{}
	})
	return ids
}

// ============================================================
// Pure rewrites
// ============================================================

// Update возвращает новое дерево, где объект id слит с patch.
// Все группы-предки пересчитывают границы; frame не пересчитывается.
func Update(tree []models.CanvasObject, id string, patch models.Patch) []models.CanvasObject {
	out, _ := rewrite(tree, id, func(obj models.CanvasObject) (models.CanvasObject, bool) {
		return patch.Apply(obj), true
	})
	return out
}

// Replace подменяет объект id целиком тем же путём, что и Update.
func Replace(tree []models.CanvasObject, id string, replacement models.CanvasObject) []models.CanvasObject {
	out, _ := rewrite(tree, id, func(models.CanvasObject) (models.CanvasObject, bool) {
		return replacement.Clone(), true
	})
	return out
}

// Delete удаляет объект id на любой глубине.
func Delete(tree []models.CanvasObject, id string) []models.CanvasObject {
	out, _ := rewrite(tree, id, func(models.CanvasObject) (models.CanvasObject, bool) {
		return models.CanvasObject{}, false
	})
	return out
}

// rewrite копирует путь от корня до объекта id; fn возвращает замену
// или keep=false для удаления. Нетронутые поддеревья разделяются.
func rewrite(tree []models.CanvasObject, id string, fn func(models.CanvasObject) (models.CanvasObject, bool)) ([]models.CanvasObject, bool) {
	out := make([]models.CanvasObject, 0, len(tree))
	found := false

	for _, obj := range tree {
		if found {
			out = append(out, obj)
			continue
		}

		if obj.ID == id {
			found = true
			if next, keep := fn(obj); keep {
				out = append(out, next)
			}
			continue
		}

		if len(obj.Children) > 0 {
			if children, ok := rewrite(obj.Children, id, fn); ok {
				found = true
				obj.Children = children
				if obj.Type == models.TypeGroup {
					obj = RecalculateGroupBounds(obj)
				}
			}
		}
		out = append(out, obj)
	}

	return out, found
}

// ============================================================
// Top-level helpers
// ============================================================

// InsertAt вставляет объекты на верхний уровень начиная с index.
func InsertAt(tree []models.CanvasObject, index int, objects ...models.CanvasObject) []models.CanvasObject {
	if index < 0 {
		index = 0
	}
	if index > len(tree) {
		index = len(tree)
	}

	out := make([]models.CanvasObject, 0, len(tree)+len(objects))
	out = append(out, tree[:index]...)
	for _, obj := range objects {
		out = append(out, obj.Clone())
	}
	out = append(out, tree[index:]...)
	return out
}

// RemoveTopLevel убирает с верхнего уровня объекты из ids.
func RemoveTopLevel(tree []models.CanvasObject, ids map[string]struct{}) []models.CanvasObject {
	out := make([]models.CanvasObject, 0, len(tree))
	for _, obj := range tree {
		if _, drop := ids[obj.ID]; drop {
			continue
		}
		out = append(out, obj)
	}
	return out
}

// Move переставляет объект верхнего уровня с позиции from на to.
func Move(tree []models.CanvasObject, from, to int) []models.CanvasObject {
	if from < 0 || from >= len(tree) {
		return append([]models.CanvasObject(nil), tree...)
	}
	if to < 0 {
		to = 0
	}
	if to >= len(tree) {
		to = len(tree) - 1
	}

	moved := tree[from]
	out := make([]models.CanvasObject, 0, len(tree))
	out = append(out, tree[:from]...)
	out = append(out, tree[from+1:]...)

	rest := out
	out = make([]models.CanvasObject, 0, len(tree))
	out = append(out, rest[:to]...)
	out = append(out, moved)
	out = append(out, rest[to:]...)
	return out
}

// Swap меняет местами два объекта верхнего уровня.
func Swap(tree []models.CanvasObject, i, j int) []models.CanvasObject {
	out := append([]models.CanvasObject(nil), tree...)
	if i < 0 || j < 0 || i >= len(out) || j >= len(out) {
		return out
	}
	out[i], out[j] = out[j], out[i]
	return out
}
