package models

import "time"

type Category struct {
	ID          int64  `json:"-"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type Post struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	PriceCents int64     `json:"priceCents"`
	ImageURL   *string   `json:"imageUrl"`
	AuthorID   int64     `json:"-"`
	CategoryID *int64    `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Comment struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	PostID    int64     `json:"-"`
	AuthorID  int64     `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// Purchase records binary ownership of a post. PriceCents is the price
// at purchase time, later edits to the post do not change it.
type Purchase struct {
	ID         int64     `json:"-"`
	UserID     int64     `json:"-"`
	PostID     int64     `json:"postId"`
	PriceCents int64     `json:"priceCents"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Profile struct {
	ID       int64   `json:"-"`
	Username string  `json:"username"`
	Bio      *string `json:"bio"`
	Image    *string `json:"image"`
}
