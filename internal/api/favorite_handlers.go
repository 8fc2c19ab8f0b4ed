package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/quotedeck/quotedeck-server/internal/domain"
	"github.com/quotedeck/quotedeck-server/internal/service"
)

func (s *Server) registerFavoriteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listFavorites",
		Method:      http.MethodGet,
		Path:        "/api/v1/favorites",
		Summary:     "List favorites",
		Description: "Returns the caller's liked quotes, newest first",
		Tags:        []string{"Favorites"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListFavorites)

	huma.Register(s.api, huma.Operation{
		OperationID:   "addFavorite",
		Method:        http.MethodPost,
		Path:          "/api/v1/favorites",
		Summary:       "Like a quote",
		Description:   "Records a like. Liking a punctuation variant of an already-liked quote is a no-op.",
		Tags:          []string{"Favorites"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleAddFavorite)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeFavorite",
		Method:      http.MethodDelete,
		Path:        "/api/v1/favorites",
		Summary:     "Unlike a quote",
		Tags:        []string{"Favorites"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveFavorite)

	huma.Register(s.api, huma.Operation{
		OperationID: "countLikers",
		Method:      http.MethodPost,
		Path:        "/api/v1/quotes/like-counts",
		Summary:     "Count likers",
		Description: "Returns, for each referenced quote, how many distinct users like it",
		Tags:        []string{"Favorites"},
	}, s.handleCountLikers)
}

// === DTOs ===

// FavoriteRequest identifies a quote by text and author.
type FavoriteRequest struct {
	Text   string `json:"text" validate:"required,max=2000" doc:"Quote text"`
	Author string `json:"author,omitempty" validate:"max=256" doc:"Quote author"`
}

// AddFavoriteInput wraps the like request.
type AddFavoriteInput struct {
	Authorization string `header:"Authorization"`
	Body          FavoriteRequest
}

// RemoveFavoriteInput identifies the quote to unlike via query parameters.
type RemoveFavoriteInput struct {
	Authorization string `header:"Authorization"`
	Text          string `query:"text" required:"true" doc:"Quote text"`
	Author        string `query:"author" doc:"Quote author"`
}

// FavoriteResponse is the API shape of a favorite.
type FavoriteResponse struct {
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// FavoriteOutput wraps a single favorite.
type FavoriteOutput struct {
	Body FavoriteResponse
}

// ListFavoritesInput carries the auth header.
type ListFavoritesInput struct {
	Authorization string `header:"Authorization"`
}

// ListFavoritesOutput wraps the favorites list.
type ListFavoritesOutput struct {
	Body struct {
		Favorites []FavoriteResponse `json:"favorites"`
	}
}

// CountLikersInput wraps the batch count request.
type CountLikersInput struct {
	Body struct {
		Quotes []FavoriteRequest `json:"quotes" validate:"required,min=1,max=100,dive" doc:"Quotes to count likers for"`
	}
}

// CountLikersOutput returns one count per requested quote, in order.
type CountLikersOutput struct {
	Body struct {
		Counts []int `json:"counts"`
	}
}

// === Handlers ===

func (s *Server) handleListFavorites(ctx context.Context, input *ListFavoritesInput) (*ListFavoritesOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	favs, err := s.services.Favorites.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &ListFavoritesOutput{}
	out.Body.Favorites = make([]FavoriteResponse, len(favs))
	for i, f := range favs {
		out.Body.Favorites[i] = toFavoriteResponse(f)
	}
	return out, nil
}

func (s *Server) handleAddFavorite(ctx context.Context, input *AddFavoriteInput) (*FavoriteOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	fav, err := s.services.Favorites.Add(ctx, userID, input.Body.Text, input.Body.Author)
	if err != nil {
		return nil, err
	}
	return &FavoriteOutput{Body: toFavoriteResponse(fav)}, nil
}

func (s *Server) handleRemoveFavorite(ctx context.Context, input *RemoveFavoriteInput) (*FavoriteOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	fav, err := s.services.Favorites.Remove(ctx, userID, input.Text, input.Author)
	if err != nil {
		return nil, err
	}
	return &FavoriteOutput{Body: toFavoriteResponse(fav)}, nil
}

func (s *Server) handleCountLikers(ctx context.Context, input *CountLikersInput) (*CountLikersOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	refs := make([]service.QuoteRef, len(input.Body.Quotes))
	for i, q := range input.Body.Quotes {
		refs[i] = service.QuoteRef{Text: q.Text, Author: q.Author}
	}

	counts, err := s.services.Favorites.CountLikers(ctx, refs)
	if err != nil {
		return nil, err
	}

	out := &CountLikersOutput{}
	out.Body.Counts = counts
	return out, nil
}

func toFavoriteResponse(f *domain.Favorite) FavoriteResponse {
	return FavoriteResponse{
		Text:      f.Text,
		Author:    f.Author,
		CreatedAt: f.CreatedAt,
	}
}
