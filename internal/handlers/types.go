package handlers

import (
	"time"

	"github.com/Rithari/url-shortener/internal/shortener"
	"github.com/Rithari/url-shortener/internal/users"
)

// ShortenRequest is the request body for creating a short URL.
type ShortenRequest struct {
	Body struct {
		LongURL string `doc:"The URL to shorten"     example:"https://example.com/very/long/path"   json:"longUrl"`
		UserID  string `doc:"Owner of the short URL" example:"3f2b9c1e-7d4a-4e8b-9a51-0c6d2f8e1b7a" json:"userId"`
	}
}

// ShortenResponse is the response for a created or deduplicated short URL.
// Status is 201 for a new link and 200 when the URL was shortened before.
type ShortenResponse struct {
	Status   int
	Location string `doc:"The short URL" header:"Location"`
	Body     ShortURLBody
}

type ShortURLBody struct {
	Code     string `doc:"The short code"     example:"aZ3kQ9x"                            json:"code"`
	ShortURL string `doc:"The full short URL" example:"http://localhost:8888/api/urls/aZ3kQ9x" json:"shortUrl"`
	LongURL  string `doc:"The original URL"   example:"https://example.com/very/long/path" json:"longUrl"`
}

// LinkView is a stored short link as listed by the API.
type LinkView struct {
	Code      string    `json:"code"`
	ShortURL  string    `json:"shortUrl"`
	LongURL   string    `json:"longUrl"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	HitCount  int64     `json:"hitCount"`
}

type LinksResponse struct {
	Body []LinkView
}

// RedirectRequest is the request for resolving a short code.
type RedirectRequest struct {
	Code string `doc:"The short code" example:"aZ3kQ9x" path:"code"`
}

type RedirectResponse struct {
	Status   int
	Location string `header:"Location"`
}

// EmailRequest carries the email of a signup or login.
type EmailRequest struct {
	Body struct {
		Email string `doc:"Account email" example:"alice@example.com" json:"email"`
	}
}

type UserPathRequest struct {
	UserID string `doc:"The user id" path:"userId"`
}

type UserResponse struct {
	Body UserView
}

type UsersResponse struct {
	Body []UserView
}

type UserView struct {
	ID        string    `json:"userId"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func newUserView(u *users.User) UserView {
	return UserView{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}

func (h *URLHandler) shortURL(code shortener.Code) string {
	return h.baseURL + "/api/urls/" + string(code)
}

func (h *URLHandler) linkViews(links []*shortener.ShortLink) []LinkView {
	views := make([]LinkView, 0, len(links))

	for _, l := range links {
		views = append(views, LinkView{
			Code:      string(l.Code),
			ShortURL:  h.shortURL(l.Code),
			LongURL:   l.LongURL,
			UserID:    l.UserID,
			CreatedAt: l.CreatedAt,
			HitCount:  l.HitCount,
		})
	}

	return views
}
