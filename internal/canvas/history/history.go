package history

import (
	"errors"
)

// ============================================================
// Command
// ============================================================

// Command: обратимая единица изменения документа.
type Command interface {
	Execute()
	Undo()
	Description() string
}

// Func собирает Command из пары замыканий.
type Func struct {
	Desc   string
	Do     func()
	Revert func()
}

func (f Func) Execute()            { f.Do() }
func (f Func) Undo()               { f.Revert() }
func (f Func) Description() string { return f.Desc }

// ============================================================
// History
// ============================================================

const DefaultMaxSize = 50

// State: что история делает прямо сейчас.
type State int

const (
	Idle State = iota
	Executing
	Undoing
	Redoing
)

func (s State) String() string {
	switch s {
	case Executing:
		return "executing"
	case Undoing:
		return "undoing"
	case Redoing:
		return "redoing"
	}
	return "idle"
}

// ErrBusy возвращается при вложенном вызове из Execute/Undo команды.
var ErrBusy = errors.New("history: command already in progress")

// History: линейный стек команд с указателем index. Команды с индексом
// <= index применены, остальные доступны для redo.
type History struct {
	commands []Command
	index    int
	maxSize  int
	state    State
}

// New создаёт пустую историю. maxSize <= 0 означает DefaultMaxSize.
func New(maxSize int) *History {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &History{index: -1, maxSize: maxSize}
}

// Execute выполняет команду, отбрасывает хвост redo и записывает её.
// При переполнении самая старая команда вытесняется навсегда.
func (h *History) Execute(cmd Command) error {
	if h.state != Idle {
		return ErrBusy
	}

	h.state = Executing
	defer func() { h.state = Idle }()

	cmd.Execute()

	h.commands = append(h.commands[:h.index+1:h.index+1], cmd)
	if len(h.commands) > h.maxSize {
		h.commands = h.commands[len(h.commands)-h.maxSize:]
	}
	h.index = len(h.commands) - 1
	return nil
}

// Undo откатывает текущую команду. false: откатывать нечего.
func (h *History) Undo() (bool, error) {
	if h.state != Idle {
		return false, ErrBusy
	}
	if h.index < 0 {
		return false, nil
	}

	h.state = Undoing
	defer func() { h.state = Idle }()

	h.commands[h.index].Undo()
	h.index--
	return true, nil
}

// Redo повторяет следующую команду. false: повторять нечего.
func (h *History) Redo() (bool, error) {
	if h.state != Idle {
		return false, ErrBusy
	}
	if h.index >= len(h.commands)-1 {
		return false, nil
	}

	h.state = Redoing
	defer func() { h.state = Idle }()

	h.commands[h.index+1].Execute()
	h.index++
	return true, nil
}

// Clear возвращает историю в начальное состояние.
func (h *History) Clear() {
	h.commands = nil
	h.index = -1
}

func (h *History) CanUndo() bool { return h.index >= 0 }

func (h *History) CanRedo() bool { return h.index < len(h.commands)-1 }

func (h *History) Len() int { return len(h.commands) }

func (h *History) Index() int { return h.index }

func (h *History) State() State { return h.state }

func (h *History) MaxSize() int { return h.maxSize }

// UndoDescription: описание команды, которую откатит Undo.
func (h *History) UndoDescription() string {
	if !h.CanUndo() {
		return ""
	}
	return h.commands[h.index].Description()
}

// RedoDescription: описание команды, которую повторит Redo.
func (h *History) RedoDescription() string {
	if !h.CanRedo() {
		return ""
	}
	return h.commands[h.index+1].Description()
}
