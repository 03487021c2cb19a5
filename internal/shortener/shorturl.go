package shortener

import "time"

// Code represents a short URL code.
type Code string

// URLHash represents a hash of a long URL, used to index it in stores
// that cannot put a unique constraint on arbitrarily long text.
type URLHash string

// ShortLink represents a shortened URL entity.
type ShortLink struct {
	Code      Code      `json:"code"`
	LongURL   string    `json:"longUrl"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	HitCount  int64     `json:"hitCount"`
}
