package http

import (
	"context"

	"bookbrowser/internal/auth"
	"bookbrowser/internal/browse"
	"bookbrowser/internal/entity"
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (string, int, error)
	Logout(ctx context.Context) error
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

type ListController interface {
	Mount(ctx context.Context, navQuery string) browse.State
	Submit(ctx context.Context, query string) browse.State
	Clear(ctx context.Context) browse.State
	LoadMore(ctx context.Context) browse.State
}

type DetailController interface {
	Open(ctx context.Context, id string) browse.DetailView
	ToggleFavorite(ctx context.Context, id string) (browse.DetailView, error)
}

type FavoritesRegistry interface {
	List(ctx context.Context) []entity.Book
	Remove(ctx context.Context, id string) error
}
