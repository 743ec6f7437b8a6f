package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/ayohana/to-do-list/internal/models"
)

// CreateCategory inserts a new category and returns it.
func (db *DB) CreateCategory(name string) (*models.Category, error) {
	result, err := db.conn.Exec("INSERT INTO categories (name) VALUES (?)", name)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &models.Category{ID: id, Name: name}, nil
}

// GetCategory retrieves a category by ID.
func (db *DB) GetCategory(id int64) (*models.Category, error) {
	row := db.conn.QueryRow("SELECT id, name FROM categories WHERE id = ?", id)

	var c models.Category
	if err := row.Scan(&c.ID, &c.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListCategories retrieves every category, ordered by name.
func (db *DB) ListCategories() ([]models.Category, error) {
	rows, err := db.conn.Query("SELECT id, name FROM categories ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

// CreateItem inserts a new item owned by userID. A non-zero categoryID
// additionally creates one join row; zero means no category chosen. The
// item and its join are committed together.
func (db *DB) CreateItem(description string, userID, categoryID int64) (*models.Item, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		"INSERT INTO items (description, user_id) VALUES (?, ?)",
		description, userID,
	)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	if categoryID != 0 {
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO category_items (category_id, item_id) VALUES (?, ?)",
			categoryID, id,
		); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &models.Item{ID: id, Description: description, UserID: userID}, nil
}

// GetItem retrieves a single item by ID.
func (db *DB) GetItem(id int64) (*models.Item, error) {
	row := db.conn.QueryRow(
		"SELECT id, description, user_id FROM items WHERE id = ?",
		id,
	)

	var i models.Item
	if err := row.Scan(&i.ID, &i.Description, &i.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &i, nil
}

// ListItems retrieves all items owned by userID, newest first.
func (db *DB) ListItems(userID int64) ([]models.Item, error) {
	rows, err := db.conn.Query(
		"SELECT id, description, user_id FROM items WHERE user_id = ? ORDER BY id DESC",
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var i models.Item
		if err := rows.Scan(&i.ID, &i.Description, &i.UserID); err != nil {
			return nil, err
		}
		items = append(items, i)
	}

	return items, rows.Err()
}

// UpdateItemDescription changes the description of an existing item.
// Returns ErrNotFound if no item with that ID exists.
func (db *DB) UpdateItemDescription(id int64, description string) error {
	result, err := db.conn.Exec(
		"UPDATE items SET description = ? WHERE id = ?",
		description, id,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteItem removes an item. Its join rows are removed by the cascade.
func (db *DB) DeleteItem(id int64) error {
	result, err := db.conn.Exec("DELETE FROM items WHERE id = ?", id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// AttachCategory creates a join row linking an item to a category.
// Attaching an already-attached category is a no-op: the (category, item)
// pair is unique.
func (db *DB) AttachCategory(itemID, categoryID int64) error {
	_, err := db.conn.Exec(
		"INSERT OR IGNORE INTO category_items (category_id, item_id) VALUES (?, ?)",
		categoryID, itemID,
	)
	if err != nil {
		return fmt.Errorf("failed to attach category %d to item %d: %w", categoryID, itemID, err)
	}
	return nil
}

// GetItemCategories retrieves the categories attached to an item, with
// the join row IDs needed to detach them.
func (db *DB) GetItemCategories(itemID int64) ([]models.ItemCategory, error) {
	rows, err := db.conn.Query(`
		SELECT ci.id, c.id, c.name
		FROM category_items ci
		JOIN categories c ON ci.category_id = c.id
		WHERE ci.item_id = ?
		ORDER BY c.name
	`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []models.ItemCategory
	for rows.Next() {
		var ic models.ItemCategory
		if err := rows.Scan(&ic.JoinID, &ic.CategoryID, &ic.Name); err != nil {
			return nil, err
		}
		cats = append(cats, ic)
	}

	return cats, rows.Err()
}

// GetJoin retrieves a single join row by its own ID.
func (db *DB) GetJoin(joinID int64) (*models.CategoryItem, error) {
	row := db.conn.QueryRow(
		"SELECT id, category_id, item_id FROM category_items WHERE id = ?",
		joinID,
	)

	var j models.CategoryItem
	if err := row.Scan(&j.ID, &j.CategoryID, &j.ItemID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &j, nil
}

// DeleteJoin removes one join row, detaching a single category from a
// single item without touching either side.
func (db *DB) DeleteJoin(joinID int64) error {
	result, err := db.conn.Exec("DELETE FROM category_items WHERE id = ?", joinID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
