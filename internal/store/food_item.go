package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/larder/internal/model"
)

// FoodItemStore scopes every query to one user.
type FoodItemStore struct {
	db *sql.DB
}

func NewFoodItemStore(db *sql.DB) *FoodItemStore {
	return &FoodItemStore{db: db}
}

func scanFoodItem(scanner interface{ Scan(...any) error }) (*model.FoodItem, error) {
	var it model.FoodItem
	err := scanner.Scan(&it.ID, &it.Name, &it.Category, &it.Quantity, &it.InDate, &it.ExpireDate, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

const foodItemCols = `id, name, category, quantity, in_date, expire_date, created_at, updated_at`

func (s *FoodItemStore) queryList(query string, args ...any) ([]model.FoodItem, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.FoodItem
	for rows.Next() {
		it, err := scanFoodItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan food item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

// List returns the user's items, newest first.
func (s *FoodItemStore) List(userID string) ([]model.FoodItem, error) {
	items, err := s.queryList(
		`SELECT `+foodItemCols+` FROM food_items WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list food items: %w", err)
	}
	return items, nil
}

// ListStockedSince returns items whose in_date is on or after since
// (YYYY-MM-DD), newest first.
func (s *FoodItemStore) ListStockedSince(userID, since string) ([]model.FoodItem, error) {
	items, err := s.queryList(
		`SELECT `+foodItemCols+` FROM food_items WHERE user_id = ? AND in_date >= ? ORDER BY created_at DESC, rowid DESC`,
		userID, since,
	)
	if err != nil {
		return nil, fmt.Errorf("list food items since %s: %w", since, err)
	}
	return items, nil
}

func (s *FoodItemStore) GetByID(userID, id string) (*model.FoodItem, error) {
	row := s.db.QueryRow(`SELECT `+foodItemCols+` FROM food_items WHERE id = ? AND user_id = ?`, id, userID)
	it, err := scanFoodItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get food item: %w", err)
	}
	return it, nil
}

func (s *FoodItemStore) Create(userID string, f model.FoodItemFields) (*model.FoodItem, error) {
	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := s.db.Exec(
		`INSERT INTO food_items (id, user_id, name, category, quantity, in_date, expire_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, userID, f.Name, f.Category, f.Quantity, f.InDate, f.ExpireDate, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert food item: %w", err)
	}
	return s.GetByID(userID, id)
}

// Update applies the non-nil fields of p. It returns nil, nil when the item
// does not exist for this user.
func (s *FoodItemStore) Update(userID, id string, p model.FoodItemPatch) (*model.FoodItem, error) {
	var sets []string
	var args []any
	add := func(col string, v *string) {
		if v != nil {
			sets = append(sets, col+" = ?")
			args = append(args, *v)
		}
	}
	add("name", p.Name)
	add("category", p.Category)
	add("quantity", p.Quantity)
	add("in_date", p.InDate)
	add("expire_date", p.ExpireDate)
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), id, userID)

	result, err := s.db.Exec(
		`UPDATE food_items SET `+strings.Join(sets, ", ")+` WHERE id = ? AND user_id = ?`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("update food item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, nil
	}
	return s.GetByID(userID, id)
}

// Delete reports whether an item was removed.
func (s *FoodItemStore) Delete(userID, id string) (bool, error) {
	result, err := s.db.Exec(`DELETE FROM food_items WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete food item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
