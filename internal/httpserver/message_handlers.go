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

type sendMessageRequest struct {
	Text string `json:"text" validate:"required"`
}

// @Summary      Send a message
// @Description  Post a message to a conversation; requires active membership
// @Tags         messages
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        conversationID path int true "Conversation ID"
// @Param        input body sendMessageRequest true "Message input"
// @Success      201  {object}  domain.Message
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /conversations/{conversationID}/messages [post]
func handleSendMessage(chat *service.Chat) http.HandlerFunc {
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
		var req sendMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid JSON body", domain.ErrInvalidInput))
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
			return
		}

		msg, err := chat.SendMessage(r.Context(), user.ID, convID, req.Text)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, msg)
	}
}

// @Summary      List messages
// @Description  Page through conversation history, newest first; pass the returned cursor as ?before= to keep going
// @Tags         messages
// @Security     BearerAuth
// @Produce      json
// @Param        conversationID path int true "Conversation ID"
// @Param        before query string false "Opaque page cursor"
// @Param        limit query int false "Page size"
// @Success      200  {object}  service.MessagePage
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /conversations/{conversationID}/messages [get]
func handleListMessages(chat *service.Chat) http.HandlerFunc {
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

		var before *domain.MessageCursor
		if token := r.URL.Query().Get("before"); token != "" {
			cur, err := domain.ParseMessageCursor(token)
			if err != nil {
				writeError(w, r, err)
				return
			}
			before = &cur
		}
		// A missing or unparseable limit falls back to the service default.
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		page, err := chat.ListMessages(r.Context(), user.ID, convID, before, limit)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, page)
	}
}
