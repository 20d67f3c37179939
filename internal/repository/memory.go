package repository

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/devconnector/devconnector-go/internal/model"
)

// Memory is an in-process store with the same behaviour as the MySQL
// repositories. It backs STORAGE=memory and the service and handler tests.
// Every read returns a copy, so callers never share state with the store.
type Memory struct {
	mu       sync.RWMutex
	seq      int64
	users    map[string]model.User
	emails   map[string]string
	profiles map[string]*memProfile // keyed by user id
	posts    map[string]*memPost
}

type memProfile struct {
	seq     int64
	profile model.Profile
}

type memPost struct {
	seq  int64
	post model.Post
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		users:    make(map[string]model.User),
		emails:   make(map[string]string),
		profiles: make(map[string]*memProfile),
		posts:    make(map[string]*memPost),
	}
}

// Users returns the user store view.
func (m *Memory) Users() *MemoryUsers { return &MemoryUsers{m: m} }

// Profiles returns the profile store view.
func (m *Memory) Profiles() *MemoryProfiles { return &MemoryProfiles{m: m} }

// Posts returns the post store view.
func (m *Memory) Posts() *MemoryPosts { return &MemoryPosts{m: m} }

func (m *Memory) next() int64 {
	m.seq++
	return m.seq
}

// MemoryUsers is the user view of a Memory store.
type MemoryUsers struct{ m *Memory }

// Create inserts a new user, rejecting a duplicate email.
func (s *MemoryUsers) Create(_ context.Context, user *model.User) error {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.emails[user.Email]; ok {
		return ErrDuplicateEmail
	}
	m.users[user.ID] = *user
	m.emails[user.Email] = user.ID
	return nil
}

// GetByEmail retrieves a user by exact email.
func (s *MemoryUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m := s.m
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.emails[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	u := m.users[id]
	return &u, nil
}

// GetByID retrieves a user by ID.
func (s *MemoryUsers) GetByID(_ context.Context, id string) (*model.User, error) {
	m := s.m
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

// DeleteAccount removes the user and everything they own or left on other posts.
func (s *MemoryUsers) DeleteAccount(_ context.Context, id string) error {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return ErrUserNotFound
	}

	for postID, p := range m.posts {
		if p.post.UserID == id {
			delete(m.posts, postID)
			continue
		}
		p.post.Likes = slices.DeleteFunc(p.post.Likes, func(l model.Like) bool { return l.UserID == id })
		p.post.Comments = slices.DeleteFunc(p.post.Comments, func(c model.Comment) bool { return c.UserID == id })
	}
	delete(m.profiles, id)
	delete(m.emails, u.Email)
	delete(m.users, id)
	return nil
}

// MemoryProfiles is the profile view of a Memory store.
type MemoryProfiles struct{ m *Memory }

// GetByUserID retrieves the profile owned by userID.
func (s *MemoryProfiles) GetByUserID(_ context.Context, userID string) (*model.Profile, error) {
	m := s.m
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	out := m.profileView(p.profile)
	return &out, nil
}

// List returns every profile with its user summary.
func (s *MemoryProfiles) List(_ context.Context) ([]model.Profile, error) {
	m := s.m
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]*memProfile, 0, len(m.profiles))
	for _, p := range m.profiles {
		entries = append(entries, p)
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.profile.Date.Equal(b.profile.Date) {
			return a.profile.Date.After(b.profile.Date)
		}
		return a.seq > b.seq
	})

	profiles := make([]model.Profile, len(entries))
	for i, p := range entries {
		profiles[i] = m.profileView(p.profile)
	}
	return profiles, nil
}

// Upsert creates or replaces the profile for p.UserID.
func (s *MemoryProfiles) Upsert(_ context.Context, p *model.Profile) error {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := copyProfile(*p)
	if existing, ok := m.profiles[p.User.ID]; ok {
		stored.ID = existing.profile.ID
		stored.Date = existing.profile.Date
		stored.Experience = existing.profile.Experience
		stored.Education = existing.profile.Education
		existing.profile = stored
		return nil
	}

	stored.Experience = []model.Experience{}
	stored.Education = []model.Education{}
	m.profiles[p.User.ID] = &memProfile{seq: m.next(), profile: stored}
	return nil
}

// AddExperience prepends an experience entry to a profile.
func (s *MemoryProfiles) AddExperience(_ context.Context, profileID string, e *model.Experience) error {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.profileByID(profileID)
	if p == nil {
		return ErrProfileNotFound
	}
	p.profile.Experience = slices.Insert(p.profile.Experience, 0, copyExperience(*e))
	return nil
}

// ExperienceOwner returns the user ID owning an experience entry.
func (s *MemoryProfiles) ExperienceOwner(_ context.Context, id string) (string, error) {
	m := s.m
	m.mu.RLock()
	defer m.mu.RUnlock()

	for userID, p := range m.profiles {
		if slices.ContainsFunc(p.profile.Experience, func(e model.Experience) bool { return e.ID == id }) {
			return userID, nil
		}
	}
	return "", ErrExperienceNotFound
}

// DeleteExperience removes a single experience entry.
func (s *MemoryProfiles) DeleteExperience(_ context.Context, id string) error {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.profiles {
		if i := slices.IndexFunc(p.profile.Experience, func(e model.Experience) bool { return e.ID == id }); i >= 0 {
			p.profile.Experience = slices.Delete(p.profile.Experience, i, i+1)
			return nil
		}
	}
	return ErrExperienceNotFound
}

// AddEducation prepends an education entry to a profile.
func (s *MemoryProfiles) AddEducation(_ context.Context, profileID string, e *model.Education) error {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.profileByID(profileID)
	if p == nil {
		return ErrProfileNotFound
	}
	p.profile.Education = slices.Insert(p.profile.Education, 0, copyEducation(*e))
	return nil
}

// EducationOwner returns the user ID owning an education entry.
func (s *MemoryProfiles) EducationOwner(_ context.Context, id string) (string, error) {
	m := s.m
	m.mu.RLock()
	defer m.mu.RUnlock()

	for userID, p := range m.profiles {
		if slices.ContainsFunc(p.profile.Education, func(e model.Education) bool { return e.ID == id }) {
			return userID, nil
		}
	}
	return "", ErrEducationNotFound
}

// DeleteEducation removes a single education entry.
func (s *MemoryProfiles) DeleteEducation(_ context.Context, id string) error {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.profiles {
		if i := slices.IndexFunc(p.profile.Education, func(e model.Education) bool { return e.ID == id }); i >= 0 {
			p.profile.Education = slices.Delete(p.profile.Education, i, i+1)
			return nil
		}
	}
	return ErrEducationNotFound
}

// MemoryPosts is the post view of a Memory store.
type MemoryPosts struct{ m *Memory }

// Create stores a new post.
func (s *MemoryPosts) Create(_ context.Context, p *model.Post) error {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := copyPost(*p)
	if stored.Likes == nil {
		stored.Likes = []model.Like{}
	}
	if stored.Comments == nil {
		stored.Comments = []model.Comment{}
	}
	m.posts[p.ID] = &memPost{seq: m.next(), post: stored}
	return nil
}

// List returns all posts, newest first.
func (s *MemoryPosts) List(_ context.Context) ([]model.Post, error) {
	m := s.m
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]*memPost, 0, len(m.posts))
	for _, p := range m.posts {
		entries = append(entries, p)
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.post.Date.Equal(b.post.Date) {
			return a.post.Date.After(b.post.Date)
		}
		return a.seq > b.seq
	})

	posts := make([]model.Post, len(entries))
	for i, p := range entries {
		posts[i] = copyPost(p.post)
	}
	return posts, nil
}

// GetByID retrieves a post with its likes and comments.
func (s *MemoryPosts) GetByID(_ context.Context, id string) (*model.Post, error) {
	m := s.m
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	out := copyPost(p.post)
	return &out, nil
}

// Delete removes a post.
func (s *MemoryPosts) Delete(_ context.Context, id string) error {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.posts[id]; !ok {
		return ErrPostNotFound
	}
	delete(m.posts, id)
	return nil
}

// AddLike records a like, rejecting a second like by the same user.
func (s *MemoryPosts) AddLike(_ context.Context, postID string, like *model.Like) error {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[postID]
	if !ok {
		return ErrPostNotFound
	}
	if slices.ContainsFunc(p.post.Likes, func(l model.Like) bool { return l.UserID == like.UserID }) {
		return ErrDuplicateLike
	}
	p.post.Likes = slices.Insert(p.post.Likes, 0, *like)
	return nil
}

// RemoveLike removes the like userID left on a post.
func (s *MemoryPosts) RemoveLike(_ context.Context, postID, userID string) error {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[postID]
	if !ok {
		return ErrLikeNotFound
	}
	i := slices.IndexFunc(p.post.Likes, func(l model.Like) bool { return l.UserID == userID })
	if i < 0 {
		return ErrLikeNotFound
	}
	p.post.Likes = slices.Delete(p.post.Likes, i, i+1)
	return nil
}

// ListLikes returns a post's likes, newest first.
func (s *MemoryPosts) ListLikes(_ context.Context, postID string) ([]model.Like, error) {
	m := s.m
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.posts[postID]
	if !ok {
		return []model.Like{}, nil
	}
	return slices.Clone(p.post.Likes), nil
}

// AddComment prepends a comment to a post.
func (s *MemoryPosts) AddComment(_ context.Context, postID string, c *model.Comment) error {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[postID]
	if !ok {
		return ErrPostNotFound
	}
	p.post.Comments = slices.Insert(p.post.Comments, 0, *c)
	return nil
}

// DeleteComment removes one comment by ID.
func (s *MemoryPosts) DeleteComment(_ context.Context, postID, commentID string) error {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[postID]
	if !ok {
		return ErrCommentNotFound
	}
	i := slices.IndexFunc(p.post.Comments, func(c model.Comment) bool { return c.ID == commentID })
	if i < 0 {
		return ErrCommentNotFound
	}
	p.post.Comments = slices.Delete(p.post.Comments, i, i+1)
	return nil
}

// ListComments returns a post's comments, newest first.
func (s *MemoryPosts) ListComments(_ context.Context, postID string) ([]model.Comment, error) {
	m := s.m
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.posts[postID]
	if !ok {
		return []model.Comment{}, nil
	}
	return slices.Clone(p.post.Comments), nil
}

// profileView copies p and fills the owner's current name and avatar, as
// the users join does in SQL.
func (m *Memory) profileView(p model.Profile) model.Profile {
	out := copyProfile(p)
	if u, ok := m.users[p.User.ID]; ok {
		out.User.Name = u.Name
		out.User.Avatar = u.Avatar
	}
	return out
}

func (m *Memory) profileByID(id string) *memProfile {
	for _, p := range m.profiles {
		if p.profile.ID == id {
			return p
		}
	}
	return nil
}

func copyProfile(p model.Profile) model.Profile {
	p.Skills = slices.Clone(p.Skills)
	exp := make([]model.Experience, len(p.Experience))
	for i, e := range p.Experience {
		exp[i] = copyExperience(e)
	}
	p.Experience = exp
	edu := make([]model.Education, len(p.Education))
	for i, e := range p.Education {
		edu[i] = copyEducation(e)
	}
	p.Education = edu
	return p
}

func copyExperience(e model.Experience) model.Experience {
	if e.To != nil {
		to := *e.To
		e.To = &to
	}
	return e
}

func copyEducation(e model.Education) model.Education {
	if e.To != nil {
		to := *e.To
		e.To = &to
	}
	return e
}

func copyPost(p model.Post) model.Post {
	if p.Likes != nil {
		p.Likes = slices.Clone(p.Likes)
	}
	if p.Comments != nil {
		p.Comments = slices.Clone(p.Comments)
	}
	return p
}
