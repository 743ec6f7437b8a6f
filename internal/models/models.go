package models

import "time"

// User represents a user account. Username holds the email address
// given at registration.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session represents a user session.
type Session struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Category is a global label applicable to items. Categories have no
// owner and are created only by seeding.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Item represents a to-do task owned by one user. The owner is set at
// creation and never changes.
type Item struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	UserID      int64  `json:"user_id"`
}

// CategoryItem is one item-category association. It carries its own ID
// so a single association can be removed without touching the item.
type CategoryItem struct {
	ID         int64 `json:"id"`
	CategoryID int64 `json:"category_id"`
	ItemID     int64 `json:"item_id"`
}

// ItemCategory is a category as attached to an item: the join row ID plus
// the resolved category name, for display and detach links.
type ItemCategory struct {
	JoinID     int64  `json:"join_id"`
	CategoryID int64  `json:"category_id"`
	Name       string `json:"name"`
}
