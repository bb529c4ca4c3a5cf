package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service interface {
	GetCurrentUser(ctx context.Context) (User, error)
	GetUserByUid(ctx context.Context, uid string) (User, error)
	CreateUser(ctx context.Context, user User) (User, error)
	UpdateUser(ctx context.Context, user User) (User, error)
}

type UserServiceImpl struct {
	repo Repo
}

func NewUserService(repo Repo) *UserServiceImpl {
	return &UserServiceImpl{repo: repo}
}

func (u *UserServiceImpl) GetCurrentUser(ctx context.Context) (User, error) {
	userId, err := CurrentId(ctx)
	if err != nil {
		return User{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return u.repo.GetUser(ctx, userId)
}

func (u *UserServiceImpl) GetUserByUid(ctx context.Context, uid string) (User, error) {
	return u.repo.GetUserByUid(ctx, uid)
}

func (u *UserServiceImpl) CreateUser(ctx context.Context, user User) (User, error) {
	if err := validate(user); err != nil {
		return User{}, err
	}
	available, err := u.repo.IsUsernameAvailable(ctx, user.Username)
	if err != nil {
		return User{}, err
	}
	if !available {
		return User{}, fmt.Errorf("username %s is taken: %w", user.Username, ErrUserDataInvalid)
	}
	if user.Uid == "" {
		user.Uid = uuid.NewString()
	}
	userId, err := u.repo.CreateUser(ctx, user)
	if err != nil {
		return User{}, err
	}
	user.Id = userId
	return user, nil
}

func (u *UserServiceImpl) UpdateUser(ctx context.Context, user User) (User, error) {
	current, err := CurrentUser(ctx)
	if err != nil {
		return User{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := validate(user); err != nil {
		return User{}, err
	}
	user.Id = current.Id
	user.Uid = current.Uid
	user.Username = current.Username
	return u.repo.UpdateUser(ctx, current.Id, user)
}

func validate(user User) error {
	if strings.TrimSpace(user.Username) == "" || strings.TrimSpace(user.DisplayName) == "" {
		return ErrUserDataInvalid
	}
	if user.Settings.Timezone != "" {
		if _, err := time.LoadLocation(user.Settings.Timezone); err != nil {
			return fmt.Errorf("unknown timezone %s: %w", user.Settings.Timezone, ErrUserDataInvalid)
		}
	}
	if user.Settings.MaxHoursPerDay < 0 || user.Settings.MaxHoursPerDay > 24 {
		return fmt.Errorf("max hours per day out of range: %w", ErrUserDataInvalid)
	}
	return nil
}
