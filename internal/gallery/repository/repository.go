package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	canvas "artchive-gallery/internal/canvas/models"
	"artchive-gallery/internal/gallery/models"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var (
	ErrNotFound        = errors.New("gallery not found")
	ErrVersionConflict = errors.New("gallery version conflict")
)

const (
	DialectSQLite   = "sqlite3"
	DialectPostgres = "pgx"

	timeLayout = "2006-01-02T15:04:05.000000Z"
)

// ============================================================
// Repository
// ============================================================

// Repository хранит документы галерей и записи о снимках.
// Запросы пишутся с "?" и переписываются под диалект.
type Repository struct {
	db      *sql.DB
	dialect string
	now     func() time.Time
}

func New(db *sql.DB, dialect string) *Repository {
	if dialect == "" {
		dialect = DialectSQLite
	}
	return &Repository{db: db, dialect: dialect, now: time.Now}
}

// Init применяет миграции.
func (r *Repository) Init(ctx context.Context, migrationsPath string) error {
	if err := r.runMigrations(ctx, migrationsPath); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Get возвращает документ галереи.
func (r *Repository) Get(ctx context.Context, id string) (*models.Gallery, error) {
	row := r.db.QueryRowContext(ctx, r.rebind(`
        SELECT id, title, document, version, created_at, updated_at
        FROM galleries
        WHERE id = ?
    `), id)

	var (
		g   models.Gallery
		raw string
	)
	if err := row.Scan(&g.ID, &g.Title, &raw, &g.Version, &g.CreatedAt, &g.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal([]byte(raw), &g.Document); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", id, err)
	}
	if g.Document.Objects == nil {
		g.Document.Objects = []canvas.CanvasObject{}
	}
	return &g, nil
}

// Save создаёт или обновляет документ, увеличивая версию. Пустой title
// при обновлении сохраняет прежний. expectedVersion > 0 включает
// оптимистичную блокировку: при расхождении: ErrVersionConflict.
func (r *Repository) Save(ctx context.Context, id, title string, doc canvas.Document, expectedVersion int64) (*models.Gallery, error) {
	if doc.Objects == nil {
		doc.Objects = []canvas.CanvasObject{}
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	now := r.now().UTC().Format(timeLayout)

	query := `
        INSERT INTO galleries (id, title, document, version, created_at, updated_at)
        VALUES (?, ?, ?, 1, ?, ?)
        ON CONFLICT (id) DO UPDATE SET
            title = CASE WHEN excluded.title = '' THEN galleries.title ELSE excluded.title END,
            document = excluded.document,
            version = galleries.version + 1,
            updated_at = excluded.updated_at`
	args := []any{id, title, string(data), now, now}
	if expectedVersion > 0 {
		query += `
        WHERE galleries.version = ?`
		args = append(args, expectedVersion)
	}
	query += `
        RETURNING title, version, created_at, updated_at`

	g := models.Gallery{ID: id, Document: doc}
	row := r.db.QueryRowContext(ctx, r.rebind(query), args...)
	if err := row.Scan(&g.Title, &g.Version, &g.CreatedAt, &g.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVersionConflict
		}
		return nil, fmt.Errorf("save gallery %s: %w", id, err)
	}
	return &g, nil
}

// List возвращает галереи, последние изменённые: первыми.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]models.Summary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, r.rebind(`
        SELECT id, title, version, created_at, updated_at
        FROM galleries
        ORDER BY updated_at DESC, id
        LIMIT ? OFFSET ?
    `), limit, max(offset, 0))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Summary{}
	for rows.Next() {
		var s models.Summary
		if err := rows.Scan(&s.ID, &s.Title, &s.Version, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Delete удаляет галерею вместе с записями о снимках.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, r.rebind(`DELETE FROM snapshots WHERE gallery_id = ?`), id); err != nil {
		return fmt.Errorf("delete snapshots: %w", err)
	}
	res, err := tx.ExecContext(ctx, r.rebind(`DELETE FROM galleries WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete gallery: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// ============================================================
// Snapshots
// ============================================================

func (r *Repository) AddSnapshot(ctx context.Context, s models.Snapshot) error {
	if s.CreatedAt == "" {
		s.CreatedAt = r.now().UTC().Format(timeLayout)
	}
	_, err := r.db.ExecContext(ctx, r.rebind(`
        INSERT INTO snapshots (id, gallery_id, version, svg_key, png_key, created_at)
        VALUES (?, ?, ?, ?, ?, ?)
    `), s.ID, s.GalleryID, s.Version, s.SVGKey, s.PNGKey, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// ListSnapshots: снимки галереи от новых к старым.
func (r *Repository) ListSnapshots(ctx context.Context, galleryID string) ([]models.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx, r.rebind(`
        SELECT id, gallery_id, version, svg_key, png_key, created_at
        FROM snapshots
        WHERE gallery_id = ?
        ORDER BY created_at DESC, version DESC
    `), galleryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Snapshot{}
	for rows.Next() {
		var s models.Snapshot
		if err := rows.Scan(&s.ID, &s.GalleryID, &s.Version, &s.SVGKey, &s.PNGKey, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ============================================================
// Migrations & Dialects
// ============================================================

func (r *Repository) runMigrations(ctx context.Context, migrationsPath string) error {
	data, err := os.ReadFile(migrationsPath)
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	for _, stmt := range strings.Split(string(data), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	return nil
}

// rebind переписывает "?" в "$1..$n" для Postgres.
func (r *Repository) rebind(query string) string {
	if r.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

// Open открывает базу для драйвера: sqlite3 (dsn: путь к файлу) или pgx.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	switch driver {
	case "", DialectSQLite:
		return OpenSQLite(dsn)
	case DialectPostgres:
		db, err := sql.Open(DialectPostgres, dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown db driver %q", driver)
	}
}

// OpenSQLite открывает sqlite по указанному пути.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open(DialectSQLite, dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
