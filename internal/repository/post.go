package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/devconnector/devconnector-go/internal/model"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrDuplicateLike   = errors.New("post already liked")
	ErrLikeNotFound    = errors.New("like not found")
)

const postSelect = `SELECT id, user_id, text, name, avatar, created_at FROM posts`

// PostRepository handles post persistence together with likes and comments.
type PostRepository struct {
	db *sql.DB
}

// NewPostRepository creates a new PostRepository.
func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create inserts a new post. The caller assigns the ID and author snapshot.
func (r *PostRepository) Create(ctx context.Context, p *model.Post) error {
	query := `INSERT INTO posts (id, user_id, text, name, avatar, created_at) VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, p.ID, p.UserID, p.Text, p.Name, p.Avatar, p.Date)
	return err
}

// List retrieves all posts, most recent first.
func (r *PostRepository) List(ctx context.Context) ([]model.Post, error) {
	rows, err := r.db.QueryContext(ctx, postSelect+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ptrs []*model.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		ptrs = append(ptrs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadChildren(ctx, ptrs); err != nil {
		return nil, err
	}

	posts := make([]model.Post, len(ptrs))
	for i, p := range ptrs {
		posts[i] = *p
	}
	return posts, nil
}

// GetByID retrieves a post with its likes and comments.
func (r *PostRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	post, err := scanPost(r.db.QueryRowContext(ctx, postSelect+` WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	if err := r.loadChildren(ctx, []*model.Post{post}); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes a post. Likes and comments go with it through the foreign keys.
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

// AddLike records a like. The (post, user) unique key turns a second like
// from the same user into ErrDuplicateLike.
func (r *PostRepository) AddLike(ctx context.Context, postID string, like *model.Like) error {
	query := `INSERT INTO post_likes (id, post_id, user_id) VALUES (?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, like.ID, postID, like.UserID)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateLike
		}
		return err
	}
	return nil
}

// RemoveLike deletes the like userID placed on the post.
func (r *PostRepository) RemoveLike(ctx context.Context, postID, userID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM post_likes WHERE post_id = ? AND user_id = ?`, postID, userID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrLikeNotFound
	}
	return nil
}

// ListLikes returns the likes on a post, newest first.
func (r *PostRepository) ListLikes(ctx context.Context, postID string) ([]model.Like, error) {
	byPost, err := r.likes(ctx, []string{postID})
	if err != nil {
		return nil, err
	}
	if likes := byPost[postID]; likes != nil {
		return likes, nil
	}
	return []model.Like{}, nil
}

// AddComment attaches a comment to the post.
func (r *PostRepository) AddComment(ctx context.Context, postID string, c *model.Comment) error {
	query := `INSERT INTO post_comments (id, post_id, user_id, text, name, avatar, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, c.ID, postID, c.UserID, c.Text, c.Name, c.Avatar, c.Date)
	return err
}

// DeleteComment removes exactly the comment with the given id from the post.
func (r *PostRepository) DeleteComment(ctx context.Context, postID, commentID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM post_comments WHERE post_id = ? AND id = ?`, postID, commentID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrCommentNotFound
	}
	return nil
}

// ListComments returns the comments on a post, newest first.
func (r *PostRepository) ListComments(ctx context.Context, postID string) ([]model.Comment, error) {
	byPost, err := r.comments(ctx, []string{postID})
	if err != nil {
		return nil, err
	}
	if comments := byPost[postID]; comments != nil {
		return comments, nil
	}
	return []model.Comment{}, nil
}

func (r *PostRepository) loadChildren(ctx context.Context, posts []*model.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	likes, err := r.likes(ctx, ids)
	if err != nil {
		return err
	}
	comments, err := r.comments(ctx, ids)
	if err != nil {
		return err
	}

	for _, p := range posts {
		if l := likes[p.ID]; l != nil {
			p.Likes = l
		}
		if c := comments[p.ID]; c != nil {
			p.Comments = c
		}
	}
	return nil
}

func (r *PostRepository) likes(ctx context.Context, postIDs []string) (map[string][]model.Like, error) {
	in, args := placeholders(postIDs)
	rows, err := r.db.QueryContext(ctx,
		`SELECT post_id, id, user_id FROM post_likes WHERE post_id IN (`+in+`) ORDER BY seq DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]model.Like)
	for rows.Next() {
		var (
			postID string
			l      model.Like
		)
		if err := rows.Scan(&postID, &l.ID, &l.UserID); err != nil {
			return nil, err
		}
		out[postID] = append(out[postID], l)
	}
	return out, rows.Err()
}

func (r *PostRepository) comments(ctx context.Context, postIDs []string) (map[string][]model.Comment, error) {
	in, args := placeholders(postIDs)
	rows, err := r.db.QueryContext(ctx,
		`SELECT post_id, id, user_id, text, name, avatar, created_at FROM post_comments WHERE post_id IN (`+in+`) ORDER BY seq DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]model.Comment)
	for rows.Next() {
		var (
			postID string
			c      model.Comment
		)
		if err := rows.Scan(&postID, &c.ID, &c.UserID, &c.Text, &c.Name, &c.Avatar, &c.Date); err != nil {
			return nil, err
		}
		out[postID] = append(out[postID], c)
	}
	return out, rows.Err()
}

func scanPost(row scanner) (*model.Post, error) {
	p := &model.Post{Likes: []model.Like{}, Comments: []model.Comment{}}
	if err := row.Scan(&p.ID, &p.UserID, &p.Text, &p.Name, &p.Avatar, &p.Date); err != nil {
		return nil, err
	}
	return p, nil
}
