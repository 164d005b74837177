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

type createConversationRequest struct {
	Kind           string  `json:"kind" validate:"required,oneof=direct group"`
	Name           *string `json:"name"`
	ParticipantIDs []int64 `json:"participant_ids"`
}

// @Summary      Create a conversation
// @Description  Create a direct or group conversation; the caller is always included
// @Tags         conversations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        input body createConversationRequest true "Conversation input"
// @Success      201  {object}  domain.Conversation
// @Failure      400  {object}  map[string]string
// @Router       /conversations [post]
func handleCreateConversation(chat *service.Chat) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		if user == nil {
			writeError(w, r, fmt.Errorf("%w: not logged in", domain.ErrUnauthorized))
			return
		}
		var req createConversationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid JSON body", domain.ErrInvalidInput))
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
			return
		}

		conv, err := chat.CreateConversation(r.Context(), user.ID, service.ConversationCreateInput{
			Kind:           domain.ConversationKind(req.Kind),
			Name:           req.Name,
			ParticipantIDs: req.ParticipantIDs,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, conv)
	}
}

// @Summary      List conversations
// @Description  List the caller's active conversations, most recent activity first
// @Tags         conversations
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  domain.ConversationSummary
// @Router       /conversations [get]
func handleListConversations(chat *service.Chat) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		if user == nil {
			writeError(w, r, fmt.Errorf("%w: not logged in", domain.ErrUnauthorized))
			return
		}
		convs, err := chat.ListConversations(r.Context(), user.ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, convs)
	}
}

// @Summary      Get a conversation
// @Description  Get a conversation with its full participant history
// @Tags         conversations
// @Security     BearerAuth
// @Produce      json
// @Param        conversationID path int true "Conversation ID"
// @Success      200  {object}  domain.ConversationDetail
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /conversations/{conversationID} [get]
func handleGetConversation(chat *service.Chat) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		if user == nil {
			writeError(w, r, fmt.Errorf("%w: not logged in", domain.ErrUnauthorized))
			return
		}
		id, err := strconv.ParseInt(chi.URLParam(r, "conversationID"), 10, 64)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid conversation id", domain.ErrInvalidInput))
			return
		}
		detail, err := chat.GetConversation(r.Context(), user.ID, id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, detail)
	}
}
