package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"shopnav/server/internal/layout"
)

// ErrNotFound is returned when a layout or product row does not exist.
var ErrNotFound = errors.New("store: not found")

// Store persists the layout document and the product catalog in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and bootstraps the schema.
// Deployments that need versioned schema changes run MigrateUp instead; the
// inline bootstrap keeps tests and the dev loop self-contained.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS layouts (
			id          INTEGER PRIMARY KEY CHECK (id = 1),
			doc         TEXT NOT NULL,
			updated_at  TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS products (
			id        TEXT PRIMARY KEY,
			name      TEXT NOT NULL,
			bay_id    TEXT NOT NULL,
			shelf_id  TEXT NOT NULL,
			floor     INTEGER NOT NULL DEFAULT 0,
			x         DOUBLE NOT NULL DEFAULT 0,
			z         DOUBLE NOT NULL DEFAULT 0
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveLayout replaces the single active layout document.
func (s *Store) SaveLayout(doc layout.Store) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal layout: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO layouts (id, doc, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at
	`, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save layout: %w", err)
	}
	return nil
}

// LoadLayout returns the active layout document, ErrNotFound when none has
// been saved yet.
func (s *Store) LoadLayout() (layout.Store, error) {
	var raw string
	err := s.db.QueryRow(`SELECT doc FROM layouts WHERE id = 1`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return layout.Store{}, ErrNotFound
	}
	if err != nil {
		return layout.Store{}, fmt.Errorf("load layout: %w", err)
	}
	var doc layout.Store
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return layout.Store{}, fmt.Errorf("decode layout: %w", err)
	}
	return doc, nil
}

// UpsertProduct inserts or updates a product placement. A missing ID is
// assigned a fresh UUID.
func (s *Store) UpsertProduct(p layout.Product) (layout.Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := s.db.Exec(`
		INSERT INTO products (id, name, bay_id, shelf_id, floor, x, z)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, bay_id = excluded.bay_id,
			shelf_id = excluded.shelf_id, floor = excluded.floor,
			x = excluded.x, z = excluded.z
	`, p.ID, p.Name, p.BayID, p.ShelfID, p.Floor, p.X, p.Z)
	if err != nil {
		return layout.Product{}, fmt.Errorf("upsert product: %w", err)
	}
	return p, nil
}

// GetProduct fetches one product by identifier.
func (s *Store) GetProduct(id string) (layout.Product, error) {
	var p layout.Product
	err := s.db.QueryRow(`
		SELECT id, name, bay_id, shelf_id, floor, x, z FROM products WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &p.BayID, &p.ShelfID, &p.Floor, &p.X, &p.Z)
	if errors.Is(err, sql.ErrNoRows) {
		return layout.Product{}, ErrNotFound
	}
	if err != nil {
		return layout.Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// ListProducts returns the catalog ordered by name.
func (s *Store) ListProducts() ([]layout.Product, error) {
	rows, err := s.db.Query(`
		SELECT id, name, bay_id, shelf_id, floor, x, z FROM products ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []layout.Product
	for rows.Next() {
		var p layout.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.BayID, &p.ShelfID, &p.Floor, &p.X, &p.Z); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// DeleteProduct removes a product; deleting an unknown ID reports ErrNotFound.
func (s *Store) DeleteProduct(id string) error {
	res, err := s.db.Exec(`DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
