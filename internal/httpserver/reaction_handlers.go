package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"parley/internal/domain"
	"parley/internal/service"
)

type addReactionRequest struct {
	Emoji string `json:"emoji" validate:"required"`
}

// @Summary      Add a reaction
// @Description  React to a message; one row per (message, user, emoji)
// @Tags         reactions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        messageID path int true "Message ID"
// @Param        input body addReactionRequest true "Reaction input"
// @Success      201  {object}  domain.Reaction
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /messages/{messageID}/reactions [post]
func handleAddReaction(chat *service.Chat) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		if user == nil {
			writeError(w, r, fmt.Errorf("%w: not logged in", domain.ErrUnauthorized))
			return
		}
		msgID, err := strconv.ParseInt(chi.URLParam(r, "messageID"), 10, 64)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid message id", domain.ErrInvalidInput))
			return
		}
		var req addReactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid JSON body", domain.ErrInvalidInput))
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
			return
		}

		reaction, err := chat.AddReaction(r.Context(), user.ID, msgID, req.Emoji)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, reaction)
	}
}

// @Summary      Remove a reaction
// @Description  Withdraw the caller's reaction identified by the emoji query parameter
// @Tags         reactions
// @Security     BearerAuth
// @Produce      json
// @Param        messageID path int true "Message ID"
// @Param        emoji query string true "Emoji to withdraw"
// @Success      200  {object}  domain.Reaction
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /messages/{messageID}/reactions [delete]
func handleRemoveReaction(chat *service.Chat) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		if user == nil {
			writeError(w, r, fmt.Errorf("%w: not logged in", domain.ErrUnauthorized))
			return
		}
		msgID, err := strconv.ParseInt(chi.URLParam(r, "messageID"), 10, 64)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid message id", domain.ErrInvalidInput))
			return
		}
		emoji := r.URL.Query().Get("emoji")
		if emoji == "" {
			writeError(w, r, fmt.Errorf("%w: emoji query parameter is required", domain.ErrInvalidInput))
			return
		}

		reaction, err := chat.RemoveReaction(r.Context(), user.ID, msgID, emoji)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, reaction)
	}
}
