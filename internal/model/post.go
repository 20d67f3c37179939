package model

import "time"

// Post is a feed entry. Name and Avatar are a snapshot of the author taken at creation.
type Post struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user"`
	Text     string    `json:"text"`
	Name     string    `json:"name"`
	Avatar   string    `json:"avatar"`
	Likes    []Like    `json:"likes"`
	Comments []Comment `json:"comments"`
	Date     time.Time `json:"date"`
}

// Like records one user's like on a post.
type Like struct {
	ID     string `json:"id"`
	UserID string `json:"user"`
}

// Comment is a reply on a post.
type Comment struct {
	ID     string    `json:"id"`
	UserID string    `json:"user"`
	Text   string    `json:"text"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
	Date   time.Time `json:"date"`
}

// PostRequest is the payload for creating a post.
type PostRequest struct {
	Text string `json:"text"`
}

// CommentRequest is the payload for commenting on a post.
type CommentRequest struct {
	Text string `json:"text"`
}
