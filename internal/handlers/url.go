package handlers

import (
	"context"
	"net/http"

	"github.com/Rithari/url-shortener/internal/shortener"
	"go.uber.org/zap"
)

// LinkService is the short link behaviour the HTTP layer needs.
type LinkService interface {
	Shorten(ctx context.Context, longURL, userID string) (*shortener.ShortLink, bool, error)
	Resolve(ctx context.Context, code shortener.Code) (string, error)
	ListAll(ctx context.Context) ([]*shortener.ShortLink, error)
	ListByUser(ctx context.Context, userID string) ([]*shortener.ShortLink, error)
}

// URLHandler handles URL shortening operations.
type URLHandler struct {
	links   LinkService
	baseURL string
	logger  *zap.Logger
}

// NewURLHandler creates a new URL handler. Short URLs are built on baseURL.
func NewURLHandler(links LinkService, baseURL string, logger *zap.Logger) *URLHandler {
	return &URLHandler{
		links:   links,
		baseURL: baseURL,
		logger:  logger,
	}
}

func (h *URLHandler) Shorten(ctx context.Context, req *ShortenRequest) (*ShortenResponse, error) {
	link, created, err := h.links.Shorten(ctx, req.Body.LongURL, req.Body.UserID)
	if err != nil {
		return nil, toHTTPError(h.logger, err)
	}

	resp := &ShortenResponse{Status: http.StatusOK}
	if created {
		resp.Status = http.StatusCreated
	}

	resp.Location = h.shortURL(link.Code)
	resp.Body.Code = string(link.Code)
	resp.Body.ShortURL = resp.Location
	resp.Body.LongURL = link.LongURL

	return resp, nil
}

func (h *URLHandler) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	longURL, err := h.links.Resolve(ctx, shortener.Code(req.Code))
	if err != nil {
		return nil, toHTTPError(h.logger, err)
	}

	return &RedirectResponse{
		Status:   http.StatusFound,
		Location: longURL,
	}, nil
}

func (h *URLHandler) List(ctx context.Context, _ *struct{}) (*LinksResponse, error) {
	links, err := h.links.ListAll(ctx)
	if err != nil {
		return nil, toHTTPError(h.logger, err)
	}

	return &LinksResponse{Body: h.linkViews(links)}, nil
}
