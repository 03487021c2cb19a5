package handlers

import (
	"context"

	"github.com/Rithari/url-shortener/internal/users"
	"go.uber.org/zap"
)

// UserService is the account behaviour the HTTP layer needs.
type UserService interface {
	Signup(ctx context.Context, email string) (*users.User, error)
	Login(ctx context.Context, email string) (*users.User, error)
	Get(ctx context.Context, id string) (*users.User, error)
	List(ctx context.Context) ([]*users.User, error)
}

// UserHandler handles account operations and per-user link listings.
type UserHandler struct {
	users  UserService
	urls   *URLHandler
	logger *zap.Logger
}

func NewUserHandler(svc UserService, urls *URLHandler, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: svc, urls: urls, logger: logger}
}

func (h *UserHandler) Signup(ctx context.Context, req *EmailRequest) (*UserResponse, error) {
	user, err := h.users.Signup(ctx, req.Body.Email)
	if err != nil {
		return nil, toHTTPError(h.logger, err)
	}

	return &UserResponse{Body: newUserView(user)}, nil
}

// Login only checks that the email is registered.
func (h *UserHandler) Login(ctx context.Context, req *EmailRequest) (*UserResponse, error) {
	user, err := h.users.Login(ctx, req.Body.Email)
	if err != nil {
		return nil, toHTTPError(h.logger, err)
	}

	return &UserResponse{Body: newUserView(user)}, nil
}

func (h *UserHandler) Get(ctx context.Context, req *UserPathRequest) (*UserResponse, error) {
	user, err := h.users.Get(ctx, req.UserID)
	if err != nil {
		return nil, toHTTPError(h.logger, err)
	}

	return &UserResponse{Body: newUserView(user)}, nil
}

func (h *UserHandler) List(ctx context.Context, _ *struct{}) (*UsersResponse, error) {
	list, err := h.users.List(ctx)
	if err != nil {
		return nil, toHTTPError(h.logger, err)
	}

	views := make([]UserView, 0, len(list))
	for _, u := range list {
		views = append(views, newUserView(u))
	}

	return &UsersResponse{Body: views}, nil
}

// Links lists the short URLs owned by an existing user.
func (h *UserHandler) Links(ctx context.Context, req *UserPathRequest) (*LinksResponse, error) {
	if _, err := h.users.Get(ctx, req.UserID); err != nil {
		return nil, toHTTPError(h.logger, err)
	}

	links, err := h.urls.links.ListByUser(ctx, req.UserID)
	if err != nil {
		return nil, toHTTPError(h.logger, err)
	}

	return &LinksResponse{Body: h.urls.linkViews(links)}, nil
}
