package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/marketplace-api/internal/auth"
	"github.com/sakif/marketplace-api/internal/service"
)

// FavoriteHandler exposes the per-user favorites endpoints. Every route
// here is protected; the userID always comes from the token the middleware
// validated, never from the request body or query.
type FavoriteHandler struct {
	favorites *service.FavoriteService
	logger    *slog.Logger
}

// NewFavoriteHandler creates a FavoriteHandler.
func NewFavoriteHandler(favorites *service.FavoriteService, logger *slog.Logger) *FavoriteHandler {
	return &FavoriteHandler{
		favorites: favorites,
		logger:    logger,
	}
}

// userID reads the authenticated user from the request context. On a
// protected route the middleware has always set it; the ok-check guards
// against a future wiring mistake, not a runtime condition.
func (h *FavoriteHandler) userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.logger.Error("favorites route reached without authenticated user",
			slog.String("path", r.URL.Path),
		)
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
	}
	return id, ok
}

// HandleAdd favorites a product.
//
// HTTP: POST /api/favorites/{id}
func (h *FavoriteHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	productID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.favorites.Add(r.Context(), userID, productID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, MessageResponse{Message: "Added to favorites"})
}

// HandleRemove unfavorites a product. Succeeds whether or not the link
// existed.
//
// HTTP: DELETE /api/favorites/{id}
func (h *FavoriteHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	productID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.favorites.Remove(r.Context(), userID, productID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Removed from favorites"})
}

// HandleList returns a page of the user's favorited products.
//
// HTTP: GET /api/favorites?page=&limit=
func (h *FavoriteHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	products, pagination, err := h.favorites.List(r.Context(), userID, queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ListResponse{
		Data:       products,
		Pagination: pagination,
	})
}

// checkResponse is the body of the favorite-check endpoint.
type checkResponse struct {
	IsFavorite bool `json:"isFavorite"`
}

// HandleCheck reports whether the user has favorited the product. Unknown
// product IDs report false rather than 404.
//
// HTTP: GET /api/favorites/{id}/check
func (h *FavoriteHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	productID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	isFavorite, err := h.favorites.Check(r.Context(), userID, productID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, checkResponse{IsFavorite: isFavorite})
}
