package editor

import (
	"artchive-gallery/internal/canvas/history"
	"artchive-gallery/internal/canvas/models"
	"artchive-gallery/internal/canvas/scene"
)

// ============================================================
// Frames
// ============================================================

// AttachImageToFrame вписывает изображение в рамку (contain-fit) и делает
// его единственным ребёнком рамки. Откат возвращает прежних children рамки
// и исходное изображение на верхний уровень.
func (e *Editor) AttachImageToFrame(imageID, frameID string) error {
	return e.apply(func() history.Command {
		if imageID == frameID {
			return nil
		}
		image, ok := scene.Find(e.doc.Objects, imageID)
		if !ok || image.Type != models.TypeImage {
			return nil
		}
		frame, ok := scene.Find(e.doc.Objects, frameID)
		if !ok || frame.Type != models.TypeFrame {
			return nil
		}

		sx, sy := image.Scale()
		fit := scene.FitContain(image.Width*sx, image.Height*sy, frame.Width, frame.Height)

		fitted := image.Clone()
		fitted.X = fit.X
		fitted.Y = fit.Y
		fitted.Width = fit.Width
		fitted.Height = fit.Height
		fitted.ScaleX = nil
		fitted.ScaleY = nil

		prior := models.CloneObjects(frame.Children)
		// изображение уже в этой рамке: prior вернёт его сам
		_, alreadyInFrame := scene.Find(prior, imageID)

		return history.Func{
			Desc: "attach image to frame",
			Do: func() {
				tree := scene.Delete(e.doc.Objects, imageID)
				e.doc.Objects = setFrameChildren(tree, frameID, []models.CanvasObject{fitted})
			},
			Revert: func() {
				tree := setFrameChildren(e.doc.Objects, frameID, prior)
				if !alreadyInFrame {
					tree = scene.InsertAt(tree, len(tree), image)
				}
				e.doc.Objects = tree
			},
		}
	})
}

// DetachImageFromFrame выносит изображение из рамки на верхний уровень,
// пересчитывая его позицию в абсолютную через всех предков рамки.
func (e *Editor) DetachImageFromFrame(frameID string) error {
	return e.apply(func() history.Command {
		frame, ok := scene.Find(e.doc.Objects, frameID)
		if !ok || frame.Type != models.TypeFrame || len(frame.Children) != 1 {
			return nil
		}
		child := frame.Children[0].Clone()
		if child.Type != models.TypeImage {
			return nil
		}

		fx, fy, _ := scene.AbsolutePosition(e.doc.Objects, frameID)
		detached := child.Clone()
		detached.X = fx + child.X
		detached.Y = fy + child.Y

		return history.Func{
			Desc: "detach image from frame",
			Do: func() {
				tree := setFrameChildren(e.doc.Objects, frameID, nil)
				e.doc.Objects = scene.InsertAt(tree, len(tree), detached)
			},
			Revert: func() {
				tree := scene.RemoveTopLevel(e.doc.Objects, idSet(detached.ID))
				e.doc.Objects = setFrameChildren(tree, frameID, []models.CanvasObject{child})
			},
		}
	})
}

func setFrameChildren(tree []models.CanvasObject, frameID string, children []models.CanvasObject) []models.CanvasObject {
	frame, ok := scene.Find(tree, frameID)
	if !ok {
		return tree
	}
	frame.Children = models.CloneObjects(children)
	return scene.Replace(tree, frameID, frame)
}
