package editor

import (
	"fmt"

	"artchive-gallery/internal/canvas/history"
	"artchive-gallery/internal/canvas/scene"
)

// Direction: шаг перестановки в массиве верхнего уровня.
// Последний элемент рисуется поверх остальных.
type Direction string

const (
	// Up сдвигает объект к началу массива (ниже по z).
	Up Direction = "up"
	// Down сдвигает объект к концу массива (выше по z).
	Down Direction = "down"
)

// ============================================================
// Z-order
// ============================================================

// ReorderObject меняет объект местами с соседом. На границах: no-op.
func (e *Editor) ReorderObject(id string, dir Direction) error {
	return e.apply(func() history.Command {
		index := scene.IndexOf(e.doc.Objects, id)
		if index < 0 {
			return nil
		}

		var target int
		switch dir {
		case Up:
			target = index - 1
		case Down:
			target = index + 1
		default:
			return nil
		}
		if target < 0 || target >= len(e.doc.Objects) {
			return nil
		}

		return history.Func{
			Desc:   fmt.Sprintf("reorder %s", dir),
			Do:     func() { e.doc.Objects = scene.Swap(e.doc.Objects, index, target) },
			Revert: func() { e.doc.Objects = scene.Swap(e.doc.Objects, target, index) },
		}
	})
}

// BringForward поднимает объект на один шаг.
func (e *Editor) BringForward(id string) error {
	return e.ReorderObject(id, Down)
}

// SendBackward опускает объект на один шаг.
func (e *Editor) SendBackward(id string) error {
	return e.ReorderObject(id, Up)
}

// BringToFront переносит объект в конец массива.
func (e *Editor) BringToFront(id string) error {
	return e.moveTo(id, "bring to front", func(n int) int { return n - 1 })
}

// SendToBack переносит объект в начало массива.
func (e *Editor) SendToBack(id string) error {
	return e.moveTo(id, "send to back", func(int) int { return 0 })
}

func (e *Editor) moveTo(id, desc string, target func(n int) int) error {
	return e.apply(func() history.Command {
		from := scene.IndexOf(e.doc.Objects, id)
		if from < 0 {
			return nil
		}
		to := target(len(e.doc.Objects))
		if to == from {
			return nil
		}

		return history.Func{
			Desc:   desc,
			Do:     func() { e.doc.Objects = scene.Move(e.doc.Objects, from, to) },
			Revert: func() { e.doc.Objects = scene.Move(e.doc.Objects, to, from) },
		}
	})
}
