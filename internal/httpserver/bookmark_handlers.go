package httpserver

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"parley/internal/domain"
	"parley/internal/service"
)

// @Summary      Bookmark a message
// @Description  Save a message for later; at most one bookmark per (message, user)
// @Tags         bookmarks
// @Security     BearerAuth
// @Produce      json
// @Param        messageID path int true "Message ID"
// @Success      201  {object}  domain.Bookmark
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /messages/{messageID}/bookmark [put]
func handleAddBookmark(chat *service.Chat) http.HandlerFunc {
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

		bookmark, err := chat.AddBookmark(r.Context(), user.ID, msgID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, bookmark)
	}
}

// @Summary      Remove a bookmark
// @Description  Drop the caller's bookmark on a message
// @Tags         bookmarks
// @Security     BearerAuth
// @Produce      json
// @Param        messageID path int true "Message ID"
// @Success      200  {object}  domain.Bookmark
// @Failure      404  {object}  map[string]string
// @Router       /messages/{messageID}/bookmark [delete]
func handleRemoveBookmark(chat *service.Chat) http.HandlerFunc {
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

		bookmark, err := chat.RemoveBookmark(r.Context(), user.ID, msgID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, bookmark)
	}
}

// @Summary      List bookmarks
// @Description  List the caller's bookmarked messages, newest bookmark first
// @Tags         bookmarks
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  domain.BookmarkedMessage
// @Router       /bookmarks [get]
func handleListBookmarks(chat *service.Chat) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		if user == nil {
			writeError(w, r, fmt.Errorf("%w: not logged in", domain.ErrUnauthorized))
			return
		}
		bookmarks, err := chat.ListBookmarks(r.Context(), user.ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, bookmarks)
	}
}
