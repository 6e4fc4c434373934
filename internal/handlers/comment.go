package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/super-gamer/apiserver/internal/events"
	"github.com/super-gamer/apiserver/internal/services"
	"github.com/super-gamer/apiserver/internal/store"
	"go.uber.org/zap"
)

// CommentHandler provides HTTP handlers for item comments.
type CommentHandler struct {
	commentService *services.CommentService
	userService    *services.UserService
	publisher      *events.Publisher
	logger         *zap.Logger
}

// NewCommentHandler constructs a handler with the provided dependencies.
func NewCommentHandler(
	commentService *services.CommentService,
	userService *services.UserService,
	publisher *events.Publisher,
	logger *zap.Logger,
) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		userService:    userService,
		publisher:      publisher,
		logger:         logger,
	}
}

// CommentRouter registers comment routes on the given router.
func CommentRouter(
	r chi.Router,
	commentService *services.CommentService,
	userService *services.UserService,
	publisher *events.Publisher,
	logger *zap.Logger,
	authMiddleware func(http.Handler) http.Handler,
) {
	handler := NewCommentHandler(commentService, userService, publisher, logger)

	r.Get("/", handler.ListComments)
	r.With(authMiddleware).Post("/", handler.CreateComment)
}

func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	itemID := strings.TrimSpace(r.URL.Query().Get("item_id"))
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	if itemID == "" {
		writeError(w, http.StatusBadRequest, "item_id is required")
		return
	}

	comments, err := h.commentService.List(r.Context(), itemID, category)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCategory) {
			writeError(w, http.StatusBadRequest, "invalid category")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to list comments")
		return
	}

	writeJSON(w, http.StatusOK, comments)
}

func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	author, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load user")
		return
	}

	var req CommentCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if strings.TrimSpace(req.ItemID) == "" {
		writeError(w, http.StatusBadRequest, "item_id is required")
		return
	}

	created, err := h.commentService.Create(r.Context(), req.ItemID, req.Text, author)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrEmptyText):
			writeError(w, http.StatusBadRequest, "comment text is required")
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "item not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to create comment")
		}
		return
	}

	if h.publisher != nil {
		if _, err := h.publisher.Publish(r.Context(), events.Event{
			Kind:     events.KindCommentCreated,
			ItemID:   created.ItemID,
			Category: created.Category,
			ActorID:  created.UserID,
		}); err != nil && h.logger != nil {
			h.logger.Warn("failed to publish comment event",
				zap.String("item_id", created.ItemID),
				zap.Error(err),
			)
		}
	}

	writeJSON(w, http.StatusCreated, created)
}

// CommentCreateRequest is the JSON payload for posting a comment. The
// category field is accepted for compatibility with the frontends but
// the stored category always comes from the owning item.
type CommentCreateRequest struct {
	ItemID   string `json:"item_id"`
	Category string `json:"category"`
	Text     string `json:"text"`
}
