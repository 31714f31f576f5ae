package database

import (
	"database/sql"
	"fmt"
	"strings"
)

// Persisted key layout. Generated content is keyed per item; the reference
// context and theme preference each live under one fixed key.
const (
	contentKeyPrefix = "content_"
	globalContextKey = "global_context"
	themeKey         = "theme"
)

// Get returns the value stored under key, or ("", false) when absent.
func (db *DB) Get(key string) (string, bool, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kv get %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value wholesale.
func (db *DB) Set(key, value string) error {
	_, err := db.Exec(`
		INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (db *DB) Delete(key string) error {
	_, err := db.Exec(`DELETE FROM kv_store WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("kv delete %q: %w", key, err)
	}
	return nil
}

// GetContent returns the generated content stored for a course item.
func (db *DB) GetContent(itemID string) (string, bool, error) {
	return db.Get(contentKeyPrefix + itemID)
}

// SetContent overwrites the generated content for a course item.
func (db *DB) SetContent(itemID, content string) error {
	return db.Set(contentKeyPrefix+itemID, content)
}

// DeleteContent removes the generated content for a course item.
func (db *DB) DeleteContent(itemID string) error {
	return db.Delete(contentKeyPrefix + itemID)
}

// ListContentIDs returns every item id that has persisted content, including
// orphans whose items no longer exist in the course structure.
func (db *DB) ListContentIDs() ([]string, error) {
	rows, err := db.Query(`SELECT key FROM kv_store WHERE key LIKE ? ORDER BY key`, contentKeyPrefix+"%")
	if err != nil {
		return nil, fmt.Errorf("kv list content: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("kv list content scan: %w", err)
		}
		ids = append(ids, strings.TrimPrefix(key, contentKeyPrefix))
	}
	return ids, rows.Err()
}

// GetGlobalContext returns the accumulated reference context ("" when unset).
func (db *DB) GetGlobalContext() (string, error) {
	value, _, err := db.Get(globalContextKey)
	return value, err
}

// SetGlobalContext replaces the reference context wholesale.
func (db *DB) SetGlobalContext(text string) error {
	return db.Set(globalContextKey, text)
}

// ClearGlobalContext removes the reference context.
func (db *DB) ClearGlobalContext() error {
	return db.Delete(globalContextKey)
}

// GetTheme returns the persisted UI theme preference.
func (db *DB) GetTheme() (string, error) {
	value, _, err := db.Get(themeKey)
	return value, err
}

// SetTheme stores the UI theme preference.
func (db *DB) SetTheme(theme string) error {
	return db.Set(themeKey, theme)
}
