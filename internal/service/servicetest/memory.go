// Package servicetest provides in-memory stores for exercising services and
// handlers without MongoDB or Redis.
package servicetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"connector-service/internal/models"
	"connector-service/internal/service"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type UserStore struct {
	mu    sync.Mutex
	users map[bson.ObjectID]models.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: map[bson.ObjectID]models.User{}}
}

func (s *UserStore) Create(_ context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return nil, service.ErrDuplicateEmail
		}
	}
	if user.ID.IsZero() {
		user.ID = bson.NewObjectID()
	}
	if user.Date.IsZero() {
		user.Date = time.Now().UTC()
	}
	s.users[user.ID] = *user
	created := *user
	return &created, nil
}

func (s *UserStore) FindByID(_ context.Context, id bson.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	user.Password = ""
	return &user, nil
}

func (s *UserStore) FindCredentialsByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, user := range s.users {
		if user.Email == email {
			found := user
			return &found, nil
		}
	}
	return nil, nil
}

func (s *UserStore) FindSummaries(_ context.Context, ids []bson.ObjectID) ([]models.UserSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summaries := []models.UserSummary{}
	for _, id := range ids {
		if user, ok := s.users[id]; ok {
			summaries = append(summaries, user.Summary())
		}
	}
	return summaries, nil
}

func (s *UserStore) Delete(_ context.Context, id bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.users, id)
	return nil
}

func (s *UserStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

type ProfileStore struct {
	mu       sync.Mutex
	profiles map[bson.ObjectID]models.Profile
}

func NewProfileStore() *ProfileStore {
	return &ProfileStore{profiles: map[bson.ObjectID]models.Profile{}}
}

func (s *ProfileStore) Upsert(_ context.Context, userID bson.ObjectID, fields *models.ProfileFields) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.profiles[userID]
	if !ok {
		profile = models.Profile{
			ID:         bson.NewObjectID(),
			User:       userID,
			Experience: []models.Experience{},
			Education:  []models.Education{},
			Date:       time.Now().UTC(),
		}
	}

	setIfPresent := func(target *string, value string) {
		if value != "" {
			*target = value
		}
	}
	setIfPresent(&profile.Company, fields.Company)
	setIfPresent(&profile.Website, fields.Website)
	setIfPresent(&profile.Location, fields.Location)
	setIfPresent(&profile.Bio, fields.Bio)
	setIfPresent(&profile.Status, fields.Status)
	setIfPresent(&profile.GithubUsername, fields.GithubUsername)
	if len(fields.Skills) > 0 {
		profile.Skills = append([]string{}, fields.Skills...)
	}
	profile.Social = fields.Social

	s.profiles[userID] = profile
	return cloneProfile(profile), nil
}

func (s *ProfileStore) FindByUser(_ context.Context, userID bson.ObjectID) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	return cloneProfile(profile), nil
}

func (s *ProfileStore) FindAll(_ context.Context) ([]*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles := []*models.Profile{}
	for _, profile := range s.profiles {
		profiles = append(profiles, cloneProfile(profile))
	}
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].Date.After(profiles[j].Date)
	})
	return profiles, nil
}

func (s *ProfileStore) DeleteByUser(_ context.Context, userID bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.profiles, userID)
	return nil
}

func (s *ProfileStore) AddExperience(_ context.Context, userID bson.ObjectID, exp models.Experience) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	if exp.ID.IsZero() {
		exp.ID = bson.NewObjectID()
	}
	profile.Experience = append([]models.Experience{exp}, profile.Experience...)
	s.profiles[userID] = profile
	return cloneProfile(profile), nil
}

func (s *ProfileStore) RemoveExperience(_ context.Context, userID, expID bson.ObjectID) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.profiles[userID]
	if !ok || !profile.HasExperience(expID) {
		return nil, nil
	}
	kept := []models.Experience{}
	for _, exp := range profile.Experience {
		if exp.ID != expID {
			kept = append(kept, exp)
		}
	}
	profile.Experience = kept
	s.profiles[userID] = profile
	return cloneProfile(profile), nil
}

func (s *ProfileStore) AddEducation(_ context.Context, userID bson.ObjectID, edu models.Education) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	if edu.ID.IsZero() {
		edu.ID = bson.NewObjectID()
	}
	profile.Education = append([]models.Education{edu}, profile.Education...)
	s.profiles[userID] = profile
	return cloneProfile(profile), nil
}

func (s *ProfileStore) RemoveEducation(_ context.Context, userID, eduID bson.ObjectID) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.profiles[userID]
	if !ok || !profile.HasEducation(eduID) {
		return nil, nil
	}
	kept := []models.Education{}
	for _, edu := range profile.Education {
		if edu.ID != eduID {
			kept = append(kept, edu)
		}
	}
	profile.Education = kept
	s.profiles[userID] = profile
	return cloneProfile(profile), nil
}

func cloneProfile(p models.Profile) *models.Profile {
	p.Skills = append([]string{}, p.Skills...)
	p.Experience = append([]models.Experience{}, p.Experience...)
	p.Education = append([]models.Education{}, p.Education...)
	return &p
}

type PostStore struct {
	mu    sync.Mutex
	posts map[bson.ObjectID]models.Post
}

func NewPostStore() *PostStore {
	return &PostStore{posts: map[bson.ObjectID]models.Post{}}
}

func (s *PostStore) Create(_ context.Context, post *models.Post) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if post.ID.IsZero() {
		post.ID = bson.NewObjectID()
	}
	if post.Date.IsZero() {
		post.Date = time.Now().UTC()
	}
	post.Normalize()
	s.posts[post.ID] = *clonePost(*post)
	return clonePost(*post), nil
}

func (s *PostStore) FindByID(_ context.Context, id bson.ObjectID) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, nil
	}
	return clonePost(post), nil
}

func (s *PostStore) FindAll(_ context.Context) ([]*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts := []*models.Post{}
	for _, post := range s.posts {
		posts = append(posts, clonePost(post))
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].Date.After(posts[j].Date)
	})
	return posts, nil
}

func (s *PostStore) Delete(_ context.Context, id bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.posts, id)
	return nil
}

func (s *PostStore) AddLike(_ context.Context, postID bson.ObjectID, like models.Like) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[postID]
	if !ok || post.LikedBy(like.User) {
		return nil, nil
	}
	if like.ID.IsZero() {
		like.ID = bson.NewObjectID()
	}
	post.Like = append([]models.Like{like}, post.Like...)
	s.posts[postID] = post
	return clonePost(post), nil
}

func (s *PostStore) RemoveLike(_ context.Context, postID, userID bson.ObjectID) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[postID]
	if !ok || !post.LikedBy(userID) {
		return nil, nil
	}
	kept := []models.Like{}
	for _, like := range post.Like {
		if like.User != userID {
			kept = append(kept, like)
		}
	}
	post.Like = kept
	s.posts[postID] = post
	return clonePost(post), nil
}

func (s *PostStore) AddComment(_ context.Context, postID bson.ObjectID, comment models.Comment) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[postID]
	if !ok {
		return nil, nil
	}
	if comment.ID.IsZero() {
		comment.ID = bson.NewObjectID()
	}
	if comment.Date.IsZero() {
		comment.Date = time.Now().UTC()
	}
	post.Comments = append([]models.Comment{comment}, post.Comments...)
	s.posts[postID] = post
	return clonePost(post), nil
}

func (s *PostStore) RemoveComment(_ context.Context, postID, commentID bson.ObjectID) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[postID]
	if !ok || post.FindComment(commentID) == nil {
		return nil, nil
	}
	kept := []models.Comment{}
	for _, comment := range post.Comments {
		if comment.ID != commentID {
			kept = append(kept, comment)
		}
	}
	post.Comments = kept
	s.posts[postID] = post
	return clonePost(post), nil
}

func (s *PostStore) DeleteByUser(_ context.Context, userID bson.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, post := range s.posts {
		if post.User == userID {
			delete(s.posts, id)
			deleted++
		}
	}
	return deleted, nil
}

func (s *PostStore) PullUserActivity(_ context.Context, userID bson.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var touched int64
	for id, post := range s.posts {
		likes := []models.Like{}
		for _, like := range post.Like {
			if like.User != userID {
				likes = append(likes, like)
			}
		}
		comments := []models.Comment{}
		for _, comment := range post.Comments {
			if comment.User != userID {
				comments = append(comments, comment)
			}
		}
		if len(likes) != len(post.Like) || len(comments) != len(post.Comments) {
			post.Like = likes
			post.Comments = comments
			s.posts[id] = post
			touched++
		}
	}
	return touched, nil
}

func (s *PostStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.posts)
}

func clonePost(p models.Post) *models.Post {
	p.Like = append([]models.Like{}, p.Like...)
	p.Comments = append([]models.Comment{}, p.Comments...)
	return &p
}

// Cache is a SummaryCache and LoginGuard kept in maps.
type Cache struct {
	mu        sync.Mutex
	summaries map[bson.ObjectID]models.UserSummary
	failed    map[string]int64
}

func NewCache() *Cache {
	return &Cache{
		summaries: map[bson.ObjectID]models.UserSummary{},
		failed:    map[string]int64{},
	}
}

func (c *Cache) GetSummary(_ context.Context, id bson.ObjectID) (*models.UserSummary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	summary, ok := c.summaries[id]
	if !ok {
		return nil, false
	}
	return &summary, true
}

func (c *Cache) SetSummary(_ context.Context, summary models.UserSummary, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.summaries[summary.ID] = summary
}

func (c *Cache) DeleteSummary(_ context.Context, id bson.ObjectID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.summaries, id)
}

func (c *Cache) FailedLogins(_ context.Context, email string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failed[strings.ToLower(strings.TrimSpace(email))]
}

func (c *Cache) RecordFailedLogin(_ context.Context, email string, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failed[strings.ToLower(strings.TrimSpace(email))]++
}

func (c *Cache) ResetFailedLogins(_ context.Context, email string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.failed, strings.ToLower(strings.TrimSpace(email)))
}

// Publisher records published events.
type Publisher struct {
	mu     sync.Mutex
	Events []string
	Err    error
}

func (p *Publisher) record(event string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Events = append(p.Events, event)
	return nil
}

func (p *Publisher) PublishUserRegistered(_ context.Context, userID, _, _ string) error {
	return p.record("user.registered:" + userID)
}

func (p *Publisher) PublishUserDeleted(_ context.Context, userID string) error {
	return p.record("user.deleted:" + userID)
}

func (p *Publisher) PublishPostCreated(_ context.Context, postID, _ string) error {
	return p.record("post.created:" + postID)
}

func (p *Publisher) Published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string{}, p.Events...)
}
