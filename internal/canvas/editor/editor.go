package editor

import (
	"sync"

	"artchive-gallery/internal/canvas/history"
	"artchive-gallery/internal/canvas/models"
)

// ============================================================
// Events
// ============================================================

type EventKind int

const (
	// DocumentChanged: команда выполнена, откатена или повторена.
	DocumentChanged EventKind = iota
	// DocumentReset: документ загружен через InitializeState.
	DocumentReset
)

type Event struct {
	Kind        EventKind
	Description string
}

// Listener вызывается после изменения документа, вне блокировки редактора.
type Listener func(Event)

// ============================================================
// Editor
// ============================================================

// Editor владеет документом, UI-состоянием и историей команд.
// Каждая операция над документом: ровно одна команда в истории.
type Editor struct {
	mu        sync.RWMutex
	doc       models.Document
	selected  []string
	clipboard []models.CanvasObject
	viewport  Viewport
	history   *history.History
	listeners []Listener
}

// New создаёт редактор с пустым документом width×height.
func New(width, height float64, maxHistory int) *Editor {
	return &Editor{
		doc: models.Document{
			Objects: []models.CanvasObject{},
			Width:   width,
			Height:  height,
		},
		viewport: defaultViewport(),
		history:  history.New(maxHistory),
	}
}

// OnChange подписывает listener на изменения документа.
func (e *Editor) OnChange(l Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, l)
}

// InitializeState гидрирует документ из сохранённой формы. История не
// пишется и очищается; подписчики получают DocumentReset.
func (e *Editor) InitializeState(doc models.Document) {
	e.mu.Lock()
	e.doc = doc.Clone()
	e.selected = nil
	e.history.Clear()
	e.mu.Unlock()

	e.notify(Event{Kind: DocumentReset, Description: "initialize"})
}

// Document возвращает копию текущего документа.
func (e *Editor) Document() models.Document {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.Clone()
}

// Objects возвращает копию объектов верхнего уровня.
func (e *Editor) Objects() []models.CanvasObject {
	return e.Document().Objects
}

// SetBackground меняет фон документа.
func (e *Editor) SetBackground(background string) error {
	return e.apply(func() history.Command {
		previous := e.doc.Background
		if previous == background {
			return nil
		}
		return history.Func{
			Desc:   "set background",
			Do:     func() { e.doc.Background = background },
			Revert: func() { e.doc.Background = previous },
		}
	})
}

// ============================================================
// Undo / Redo
// ============================================================

func (e *Editor) Undo() error {
	e.mu.Lock()
	desc := e.history.UndoDescription()
	ok, err := e.history.Undo()
	e.mu.Unlock()

	if err != nil || !ok {
		return err
	}
	e.notify(Event{Kind: DocumentChanged, Description: "undo " + desc})
	return nil
}

func (e *Editor) Redo() error {
	e.mu.Lock()
	desc := e.history.RedoDescription()
	ok, err := e.history.Redo()
	e.mu.Unlock()

	if err != nil || !ok {
		return err
	}
	e.notify(Event{Kind: DocumentChanged, Description: "redo " + desc})
	return nil
}

func (e *Editor) CanUndo() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.CanUndo()
}

func (e *Editor) CanRedo() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.CanRedo()
}

// ============================================================
// Internals
// ============================================================

// apply строит команду под блокировкой и отдаёт её истории.
// build возвращает nil, когда операция вырождается в no-op.
func (e *Editor) apply(build func() history.Command) error {
	e.mu.Lock()
	cmd := build()
	if cmd == nil {
		e.mu.Unlock()
		return nil
	}
	err := e.history.Execute(cmd)
	e.mu.Unlock()

	if err != nil {
		return err
	}
	e.notify(Event{Kind: DocumentChanged, Description: cmd.Description()})
	return nil
}

func (e *Editor) notify(ev Event) {
	e.mu.RLock()
	listeners := append([]Listener(nil), e.listeners...)
	e.mu.RUnlock()

	for _, l := range listeners {
		l(ev)
	}
}

func idSet(ids ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
