package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yoockh/devconnect/internal/auth"
	"github.com/yoockh/devconnect/internal/models"
	mongorepo "github.com/yoockh/devconnect/internal/repositories/mongo"
	"github.com/yoockh/devconnect/internal/utils"
)

type TokenIssuer interface {
	Issue(userID primitive.ObjectID) (string, error)
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=6"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserService interface {
	Register(ctx context.Context, in RegisterInput) (string, error)
	Login(ctx context.Context, in LoginInput) (string, error)
	Me(ctx context.Context, id auth.Identity) (*models.User, error)
}

type userService struct {
	users      mongorepo.UserRepository
	tokens     TokenIssuer
	bcryptCost int
}

func NewUserService(users mongorepo.UserRepository, tokens TokenIssuer, bcryptCost int) UserService {
	return &userService{users: users, tokens: tokens, bcryptCost: bcryptCost}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (string, error) {
	const op = "UserService.Register"

	if fields := utils.ValidateStruct(in); fields != nil {
		return "", utils.Invalid(op, fields)
	}

	_, err := s.users.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return "", utils.E(utils.CodeConflict, op, "User already exists", nil)
	case !errors.Is(err, utils.ErrNotFound):
		return "", utils.E(utils.CodeInternal, op, "failed to look up user", err)
	}

	hash, err := utils.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return "", utils.E(utils.CodeInternal, op, "failed to hash password", err)
	}

	u := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hash,
		Avatar:   utils.GravatarURL(in.Email),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, utils.ErrConflict) {
			return "", utils.E(utils.CodeConflict, op, "User already exists", err)
		}
		return "", utils.E(utils.CodeInternal, op, "failed to create user", err)
	}

	tok, err := s.tokens.Issue(u.ID)
	if err != nil {
		return "", utils.E(utils.CodeInternal, op, "failed to issue token", err)
	}
	return tok, nil
}

func (s *userService) Login(ctx context.Context, in LoginInput) (string, error) {
	const op = "UserService.Login"

	if fields := utils.ValidateStruct(in); fields != nil {
		return "", utils.Invalid(op, fields)
	}

	u, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return "", utils.E(utils.CodeUnauthorized, op, "Invalid credentials", nil)
		}
		return "", utils.E(utils.CodeInternal, op, "failed to look up user", err)
	}
	if err := utils.CheckPassword(u.Password, in.Password); err != nil {
		return "", utils.E(utils.CodeUnauthorized, op, "Invalid credentials", nil)
	}

	tok, err := s.tokens.Issue(u.ID)
	if err != nil {
		return "", utils.E(utils.CodeInternal, op, "failed to issue token", err)
	}
	return tok, nil
}

func (s *userService) Me(ctx context.Context, id auth.Identity) (*models.User, error) {
	const op = "UserService.Me"

	u, err := s.users.FindByID(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "user not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get user", err)
	}
	return u, nil
}
