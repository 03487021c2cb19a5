package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers the URL and user routes.
func RegisterRoutes(api huma.API, urlHandler *URLHandler, userHandler *UserHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "shorten-url",
		Method:        http.MethodPost,
		Path:          "/api/urls/shorten",
		Summary:       "Create short URL",
		Description:   "Returns the existing code when the URL was shortened before.",
		Tags:          []string{"URLs"},
		DefaultStatus: http.StatusCreated,
		Responses: map[string]*huma.Response{
			"200": {Description: "The URL was shortened before"},
		},
	}, urlHandler.Shorten)

	huma.Register(api, huma.Operation{
		OperationID: "list-urls",
		Method:      http.MethodGet,
		Path:        "/api/urls",
		Summary:     "List short URLs",
		Tags:        []string{"URLs"},
	}, urlHandler.List)

	huma.Register(api, huma.Operation{
		OperationID:   "resolve-url",
		Method:        http.MethodGet,
		Path:          "/api/urls/{code}",
		Summary:       "Redirect to original URL",
		Tags:          []string{"URLs"},
		DefaultStatus: http.StatusFound,
	}, urlHandler.Redirect)

	huma.Register(api, huma.Operation{
		OperationID:   "signup",
		Method:        http.MethodPost,
		Path:          "/api/users",
		Summary:       "Sign up",
		Tags:          []string{"Users"},
		DefaultStatus: http.StatusCreated,
	}, userHandler.Signup)

	huma.Register(api, huma.Operation{
		OperationID: "list-users",
		Method:      http.MethodGet,
		Path:        "/api/users",
		Summary:     "List users",
		Tags:        []string{"Users"},
	}, userHandler.List)

	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/users/login",
		Summary:     "Log in by email",
		Tags:        []string{"Users"},
	}, userHandler.Login)

	huma.Register(api, huma.Operation{
		OperationID: "get-user",
		Method:      http.MethodGet,
		Path:        "/api/users/{userId}",
		Summary:     "Get user",
		Tags:        []string{"Users"},
	}, userHandler.Get)

	huma.Register(api, huma.Operation{
		OperationID: "list-user-urls",
		Method:      http.MethodGet,
		Path:        "/api/users/{userId}/urls",
		Summary:     "List short URLs of a user",
		Tags:        []string{"Users", "URLs"},
	}, userHandler.Links)
}
