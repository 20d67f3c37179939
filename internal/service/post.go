package service

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/devconnector/devconnector-go/internal/model"
	"github.com/devconnector/devconnector-go/internal/repository"
)

// PostService handles the post feed, likes and comments.
type PostService struct {
	posts PostStore
	users UserStore
	now   func() time.Time
}

// NewPostService creates a new PostService.
func NewPostService(posts PostStore, users UserStore) *PostService {
	return &PostService{
		posts: posts,
		users: users,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Create publishes a post by userID, snapshotting their name and avatar.
func (s *PostService) Create(ctx context.Context, userID string, req model.PostRequest) (*model.Post, error) {
	var v validator
	v.required(req.Text, "text", "Text is required")
	if err := v.err(); err != nil {
		return nil, err
	}

	author, err := s.author(ctx, userID)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		ID:       uuid.NewString(),
		UserID:   userID,
		Text:     req.Text,
		Name:     author.Name,
		Avatar:   author.Avatar,
		Likes:    []model.Like{},
		Comments: []model.Comment{},
		Date:     s.now(),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// List returns all posts, most recent first.
func (s *PostService) List(ctx context.Context) ([]model.Post, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []model.Post{}
	}
	return posts, nil
}

// Get returns a single post.
func (s *PostService) Get(ctx context.Context, id string) (*model.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

// Delete removes a post owned by userID.
func (s *PostService) Delete(ctx context.Context, userID, postID string) error {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return ErrNotAuthorized
	}

	err = s.posts.Delete(ctx, postID)
	if errors.Is(err, repository.ErrPostNotFound) {
		return ErrPostNotFound
	}
	return err
}

// Like adds userID's like to the front of the post's likes.
func (s *PostService) Like(ctx context.Context, userID, postID string) ([]model.Like, error) {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if hasLiked(post.Likes, userID) {
		return nil, ErrAlreadyLiked
	}

	err = s.posts.AddLike(ctx, postID, &model.Like{ID: uuid.NewString(), UserID: userID})
	switch {
	case errors.Is(err, repository.ErrDuplicateLike):
		return nil, ErrAlreadyLiked
	case errors.Is(err, repository.ErrPostNotFound):
		return nil, ErrPostNotFound
	case err != nil:
		return nil, err
	}
	return s.posts.ListLikes(ctx, postID)
}

// Unlike removes userID's like from the post.
func (s *PostService) Unlike(ctx context.Context, userID, postID string) ([]model.Like, error) {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !hasLiked(post.Likes, userID) {
		return nil, ErrNotLiked
	}

	if err := s.posts.RemoveLike(ctx, postID, userID); err != nil {
		if errors.Is(err, repository.ErrLikeNotFound) {
			return nil, ErrNotLiked
		}
		return nil, err
	}
	return s.posts.ListLikes(ctx, postID)
}

// Comment adds a comment by userID to the front of the post's comments.
func (s *PostService) Comment(ctx context.Context, userID, postID string, req model.CommentRequest) ([]model.Comment, error) {
	var v validator
	v.required(req.Text, "text", "Text is required")
	if err := v.err(); err != nil {
		return nil, err
	}

	if _, err := s.Get(ctx, postID); err != nil {
		return nil, err
	}
	author, err := s.author(ctx, userID)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		ID:     uuid.NewString(),
		UserID: userID,
		Text:   req.Text,
		Name:   author.Name,
		Avatar: author.Avatar,
		Date:   s.now(),
	}
	if err := s.posts.AddComment(ctx, postID, comment); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return s.posts.ListComments(ctx, postID)
}

// DeleteComment removes the comment with commentID if userID wrote it.
func (s *PostService) DeleteComment(ctx context.Context, userID, postID, commentID string) ([]model.Comment, error) {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}

	i := slices.IndexFunc(post.Comments, func(c model.Comment) bool { return c.ID == commentID })
	if i < 0 {
		return nil, ErrCommentNotFound
	}
	if post.Comments[i].UserID != userID {
		return nil, ErrNotAuthorized
	}

	if err := s.posts.DeleteComment(ctx, postID, commentID); err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return s.posts.ListComments(ctx, postID)
}

func (s *PostService) author(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func hasLiked(likes []model.Like, userID string) bool {
	return slices.ContainsFunc(likes, func(l model.Like) bool { return l.UserID == userID })
}
