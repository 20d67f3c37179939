package service

import (
	"context"
	"encoding/json"

	"github.com/devconnector/devconnector-go/internal/model"
)

// UserStore is implemented by repository.UserRepository and repository.MemoryUsers.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	DeleteAccount(ctx context.Context, id string) error
}

// ProfileStore is implemented by repository.ProfileRepository and repository.MemoryProfiles.
type ProfileStore interface {
	GetByUserID(ctx context.Context, userID string) (*model.Profile, error)
	List(ctx context.Context) ([]model.Profile, error)
	Upsert(ctx context.Context, p *model.Profile) error
	AddExperience(ctx context.Context, profileID string, e *model.Experience) error
	ExperienceOwner(ctx context.Context, id string) (string, error)
	DeleteExperience(ctx context.Context, id string) error
	AddEducation(ctx context.Context, profileID string, e *model.Education) error
	EducationOwner(ctx context.Context, id string) (string, error)
	DeleteEducation(ctx context.Context, id string) error
}

// PostStore is implemented by repository.PostRepository and repository.MemoryPosts.
type PostStore interface {
	Create(ctx context.Context, p *model.Post) error
	List(ctx context.Context) ([]model.Post, error)
	GetByID(ctx context.Context, id string) (*model.Post, error)
	Delete(ctx context.Context, id string) error
	AddLike(ctx context.Context, postID string, like *model.Like) error
	RemoveLike(ctx context.Context, postID, userID string) error
	ListLikes(ctx context.Context, postID string) ([]model.Like, error)
	AddComment(ctx context.Context, postID string, c *model.Comment) error
	DeleteComment(ctx context.Context, postID, commentID string) error
	ListComments(ctx context.Context, postID string) ([]model.Comment, error)
}

// PasswordHasher is implemented by crypto.Argon2Hasher.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(encodedHash, password string) error
}

// TokenIssuer is implemented by crypto.TokenService.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// RepoLister is implemented by github.Client.
type RepoLister interface {
	Repos(ctx context.Context, username string) (json.RawMessage, error)
}
