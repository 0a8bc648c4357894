package store

import (
	"context"
	"fmt"
)

// User is a learner record. Skill and DriftDetected are mutated only by the
// quiz service after grading an answer.
type User struct {
	ID       int32
	Username string
	// Skill is the scalar skill estimate in [0, 1].
	Skill float64
	// DriftDetected marks a detected decline in performance.
	DriftDetected bool
	CreatedTs     int64
}

// FindUser is the filter for listing users.
type FindUser struct {
	ID       *int32
	Username *string
}

// UpdateUser carries the mutable user fields.
type UpdateUser struct {
	ID            int32
	Skill         *float64
	DriftDetected *bool
}

func (s *Store) CreateUser(ctx context.Context, create *User) (*User, error) {
	user, err := s.driver.CreateUser(ctx, create)
	if err != nil {
		return nil, err
	}
	s.userCache.Set(userCacheKey(user.ID), user)
	return user, nil
}

func (s *Store) GetUser(ctx context.Context, find *FindUser) (*User, error) {
	if find.ID != nil {
		if cached, ok := s.userCache.Get(userCacheKey(*find.ID)); ok {
			return cached.(*User), nil
		}
	}

	users, err := s.driver.ListUsers(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	user := users[0]
	s.userCache.Set(userCacheKey(user.ID), user)
	return user, nil
}

func (s *Store) UpdateUser(ctx context.Context, update *UpdateUser) (*User, error) {
	user, err := s.driver.UpdateUser(ctx, update)
	if err != nil {
		return nil, err
	}
	s.userCache.Set(userCacheKey(user.ID), user)
	return user, nil
}

func userCacheKey(id int32) string {
	return fmt.Sprintf("user:%d", id)
}
