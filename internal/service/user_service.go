package service

import (
	"context"

	"github.com/VictorDENSC/CaisseNoire/internal/db"
	"github.com/VictorDENSC/CaisseNoire/internal/model"
	"github.com/VictorDENSC/CaisseNoire/internal/repository"
	"github.com/VictorDENSC/CaisseNoire/pkg/logger"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type UserService struct {
	tx db.Transactor

	users repository.UserRepository
}

func NewUserService(tx db.Transactor) *UserService {
	return &UserService{tx: tx}
}

func (u *UserService) WithUserRepo(r repository.UserRepository) *UserService {
	u.users = r
	return u
}

func userFromRepo(user *repository.User) *model.User {
	return &model.User{
		ID:        user.ID,
		TeamID:    user.TeamID,
		Firstname: user.Firstname,
		Lastname:  user.Lastname,
		Nickname:  user.Nickname,
		Email:     user.Email,
	}
}

func userToRepo(user *model.User) *repository.User {
	return &repository.User{
		ID:        user.ID,
		TeamID:    user.TeamID,
		Firstname: user.Firstname,
		Lastname:  user.Lastname,
		Nickname:  user.Nickname,
		Email:     user.Email,
	}
}

func (u *UserService) ListUsers(ctx context.Context, teamID uuid.UUID) ([]*model.User, *Error) {
	l := logger.FromContext(ctx)

	repoUsers, err := u.users.List(ctx, teamID)
	if err != nil {
		l.Error("failed to list users", zap.String("team_id", teamID.String()), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to list users")
	}

	users := make([]*model.User, 0, len(repoUsers))
	for _, user := range repoUsers {
		users = append(users, userFromRepo(user))
	}

	return users, nil
}

func (u *UserService) GetUser(ctx context.Context, teamID, userID uuid.UUID) (*model.User, *Error) {
	l := logger.FromContext(ctx)

	repoUser, err := u.users.Get(ctx, teamID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewError(ErrorCodeNotFound, "user not found")
	}
	if err != nil {
		l.Error("failed to get user", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to get user")
	}

	return userFromRepo(repoUser), nil
}

func (u *UserService) CreateUser(ctx context.Context, teamID uuid.UUID, req *model.UserRequest) (*model.User, *Error) {
	l := logger.FromContext(ctx)

	user := req.User(teamID)

	created, err := u.users.Create(ctx, userToRepo(&user))
	if err != nil {
		return nil, u.translateWriteError(l, err, "failed to create user")
	}

	return userFromRepo(created), nil
}

func (u *UserService) UpdateUser(ctx context.Context, teamID, userID uuid.UUID, req *model.UserRequest) (*model.User, *Error) {
	l := logger.FromContext(ctx)

	user := req.User(teamID)
	user.ID = userID

	updated, err := u.users.Update(ctx, userToRepo(&user))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewError(ErrorCodeNotFound, "user not found")
	}
	if err != nil {
		return nil, u.translateWriteError(l, err, "failed to update user")
	}

	return userFromRepo(updated), nil
}

func (u *UserService) translateWriteError(l *zap.Logger, err error, fallback string) *Error {
	var fkErr *repository.ForeignKeyError
	if errors.As(err, &fkErr) {
		return NewError(ErrorCodeBadReference, fkErr.Error())
	}

	var uniqueErr *repository.UniqueError
	if errors.As(err, &uniqueErr) {
		return NewError(ErrorCodeDuplicatedField, uniqueErr.Error())
	}

	l.Error(fallback, zap.Error(err))
	return NewError(ErrorCodeUnspecified, fallback)
}
