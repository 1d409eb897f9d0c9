package autosave

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"artchive-gallery/internal/canvas/editor"
	"artchive-gallery/internal/canvas/models"
)

// ============================================================
// Contracts
// ============================================================

// Store: внешнее хранилище документов.
type Store interface {
	Save(ctx context.Context, documentID string, doc models.Document) (models.ServerDocument, error)
	Load(ctx context.Context, documentID string) (models.ServerDocument, error)
}

// Source отдаёт текущий документ для сохранения.
type Source interface {
	Document() models.Document
}

const DefaultInterval = 60 * time.Second

var (
	ErrNotBound = errors.New("autosave: no document bound")
	ErrClosed   = errors.New("autosave: controller closed")
)

// ============================================================
// Controller
// ============================================================

// Controller отслеживает несохранённые изменения и сохраняет документ
// по таймеру. Таймер пересоздаётся при каждой новой "грязной" метке и
// перевзводится после срабатывания, пока изменения остаются несохранёнными.
type Controller struct {
	store    Store
	source   Source
	interval time.Duration

	mu         sync.Mutex
	documentID string
	dirty      bool
	saving     bool
	revision   uint64
	lastSaved  time.Time
	timer      *time.Timer
	closed     bool

	// saveMu держит не больше одного сохранения в полёте.
	saveMu sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
	now    func() time.Time
}

type Option func(*Controller)

// WithInterval задаёт период автосохранения.
func WithInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithClock подменяет источник времени (для тестов).
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func New(store Store, source Source, opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		store:    store,
		source:   source,
		interval: DefaultInterval,
		ctx:      ctx,
		cancel:   cancel,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Bind привязывает документ и сбрасывает отслеживание: документ только что
// загружен, значит сохранён.
func (c *Controller) Bind(documentID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.documentID = documentID
	c.resetLocked()
}

// Reset сбрасывает флаг изменений и метку сохранения (гидрация документа).
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

func (c *Controller) resetLocked() {
	c.dirty = false
	c.lastSaved = c.now()
	c.stopTimerLocked()
}

// MarkDirty отмечает изменение объектов. До первой метки сохранения
// изменения не отслеживаются.
func (c *Controller) MarkDirty() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.lastSaved.IsZero() {
		return
	}
	c.revision++
	if c.dirty {
		return
	}
	c.dirty = true
	c.scheduleLocked()
}

// Save сохраняет текущий документ. Ошибка возвращается вызывающему,
// флаг изменений при этом остаётся, и следующий тик таймера повторит попытку.
func (c *Controller) Save(ctx context.Context) (models.ServerDocument, error) {
	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return models.ServerDocument{}, ErrClosed
	}
	documentID := c.documentID
	if documentID == "" {
		c.mu.Unlock()
		return models.ServerDocument{}, ErrNotBound
	}
	startRevision := c.revision
	c.saving = true
	c.mu.Unlock()

	ctx, stop := mergeCancel(ctx, c.ctx)
	defer stop()

	doc := c.source.Document()
	saved, err := c.store.Save(ctx, documentID, doc)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.saving = false
	if c.closed {
		return saved, err
	}
	if err != nil {
		log.Printf("[AUTOSAVE] save %s failed: %v", documentID, err)
		return saved, err
	}

	c.lastSaved = c.now()
	if c.revision == startRevision {
		c.dirty = false
		c.stopTimerLocked()
	}
	log.Printf("[AUTOSAVE] saved %s (version %d, %d objects)", documentID, saved.Version, len(doc.Objects))
	return saved, nil
}

// Close останавливает таймер и отменяет сохранение в полёте; результаты
// после закрытия состояние не меняют.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.stopTimerLocked()
	c.mu.Unlock()
	c.cancel()
}

func (c *Controller) HasUnsavedChanges() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty
}

func (c *Controller) IsSaving() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saving
}

func (c *Controller) LastSaved() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSaved
}

func (c *Controller) DocumentID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.documentID
}

// ============================================================
// Timer
// ============================================================

func (c *Controller) scheduleLocked() {
	c.stopTimerLocked()
	c.timer = time.AfterFunc(c.interval, c.tick)
}

func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) tick() {
	c.mu.Lock()
	c.timer = nil
	ready := !c.closed && c.dirty && c.documentID != ""
	c.mu.Unlock()

	if !ready {
		return
	}

	_, _ = c.Save(c.ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed && c.dirty && c.timer == nil {
		c.scheduleLocked()
	}
}

// mergeCancel отменяет ctx и при отмене base.
func mergeCancel(ctx, base context.Context) (context.Context, context.CancelFunc) {
	merged, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(base, cancel)
	return merged, func() {
		stop()
		cancel()
	}
}

// Watch подписывает контроллер на изменения редактора: мутации пачкают
// документ, гидрация сбрасывает отслеживание.
func (c *Controller) Watch(ed *editor.Editor) {
	ed.OnChange(func(ev editor.Event) {
		switch ev.Kind {
		case editor.DocumentChanged:
			c.MarkDirty()
		case editor.DocumentReset:
			c.Reset()
		}
	})
}
