package scene

import (
	"errors"
	"fmt"

	"artchive-gallery/internal/canvas/models"

	"github.com/google/uuid"
)

// NewID выдаёт новый непрозрачный id объекта.
func NewID() string {
	return uuid.NewString()
}

// CloneWithFreshIDs копирует объект и рекурсивно выдаёт новые id ему и всем children.
func CloneWithFreshIDs(obj models.CanvasObject) models.CanvasObject {
	out := obj.Clone()
	reassign(&out)
	return out
}

func reassign(obj *models.CanvasObject) {
	obj.ID = NewID()
	for i := range obj.Children {
		reassign(&obj.Children[i])
	}
}

// ============================================================
// Validation
// ============================================================

var (
	ErrEmptyID       = errors.New("object id is empty")
	ErrDuplicateID   = errors.New("duplicate object id")
	ErrUnknownType   = errors.New("unknown object type")
	ErrNotContainer  = errors.New("children on non-container object")
	ErrFrameOverflow = errors.New("frame holds more than one child")
)

// Validate проверяет инварианты дерева: уникальные непустые id, известные
// типы, children только у контейнеров, не больше одного ребёнка у frame.
func Validate(tree []models.CanvasObject) error {
	seen := make(map[string]struct{})
	return validate(tree, seen)
}

func validate(tree []models.CanvasObject, seen map[string]struct{}) error {
	for _, obj := range tree {
		if obj.ID == "" {
			return ErrEmptyID
		}
		if _, dup := seen[obj.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateID, obj.ID)
		}
		seen[obj.ID] = struct{}{}

		if !obj.Type.Valid() {
			return fmt.Errorf("%w: %q (id %s)", ErrUnknownType, obj.Type, obj.ID)
		}
		if len(obj.Children) > 0 && !obj.Type.IsContainer() {
			return fmt.Errorf("%w: %s", ErrNotContainer, obj.ID)
		}
		if obj.Type == models.TypeFrame && len(obj.Children) > 1 {
			return fmt.Errorf("%w: %s", ErrFrameOverflow, obj.ID)
		}
		if err := validate(obj.Children, seen); err != nil {
			return err
		}
	}
	return nil
}
