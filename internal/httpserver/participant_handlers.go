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

type addParticipantRequest struct {
	UserID int64  `json:"user_id" validate:"required"`
	Role   string `json:"role" validate:"omitempty,oneof=member admin"`
}

// @Summary      Add a participant
// @Description  Add a user to a group conversation; requires active membership
// @Tags         participants
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        conversationID path int true "Conversation ID"
// @Param        input body addParticipantRequest true "Participant input"
// @Success      201  {object}  domain.Participant
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /conversations/{conversationID}/participants [post]
func handleAddParticipant(chat *service.Chat) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		if user == nil {
			writeError(w, r, fmt.Errorf("%w: not logged in", domain.ErrUnauthorized))
			return
		}
		convID, err := strconv.ParseInt(chi.URLParam(r, "conversationID"), 10, 64)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid conversation id", domain.ErrInvalidInput))
			return
		}
		var req addParticipantRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid JSON body", domain.ErrInvalidInput))
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
			return
		}

		p, err := chat.AddParticipant(r.Context(), user.ID, convID, req.UserID, domain.ParticipantRole(req.Role))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, p)
	}
}

// @Summary      Remove a participant
// @Description  Leave a conversation, or remove another member as an admin
// @Tags         participants
// @Security     BearerAuth
// @Produce      json
// @Param        conversationID path int true "Conversation ID"
// @Param        userID path int true "User ID"
// @Success      200  {object}  domain.Participant
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /conversations/{conversationID}/participants/{userID} [delete]
func handleRemoveParticipant(chat *service.Chat) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		if user == nil {
			writeError(w, r, fmt.Errorf("%w: not logged in", domain.ErrUnauthorized))
			return
		}
		convID, err := strconv.ParseInt(chi.URLParam(r, "conversationID"), 10, 64)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid conversation id", domain.ErrInvalidInput))
			return
		}
		userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid user id", domain.ErrInvalidInput))
			return
		}

		p, err := chat.RemoveParticipant(r.Context(), user.ID, convID, userID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}
