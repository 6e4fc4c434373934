package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/super-gamer/apiserver/internal/events"
	"github.com/super-gamer/apiserver/internal/services"
	"github.com/super-gamer/apiserver/internal/storage"
	"github.com/super-gamer/apiserver/internal/store"
	"github.com/super-gamer/apiserver/types"
	"go.uber.org/zap"
)

const (
	maxImageMemory = 8 << 20
	maxImageBytes  = 10 << 20
	formFieldImage = "image"
)

// ItemHandler provides HTTP handlers for catalog items.
type ItemHandler struct {
	itemService *services.ItemService
	userService *services.UserService
	images      *storage.ImageStore
	publisher   *events.Publisher
	logger      *zap.Logger
}

// NewItemHandler constructs a handler with the provided dependencies.
// images and publisher may be nil when those subsystems are not
// configured.
func NewItemHandler(
	itemService *services.ItemService,
	userService *services.UserService,
	images *storage.ImageStore,
	publisher *events.Publisher,
	logger *zap.Logger,
) *ItemHandler {
	return &ItemHandler{
		itemService: itemService,
		userService: userService,
		images:      images,
		publisher:   publisher,
		logger:      logger,
	}
}

// ItemRouter registers item routes on the given router.
func ItemRouter(
	r chi.Router,
	itemService *services.ItemService,
	userService *services.UserService,
	images *storage.ImageStore,
	publisher *events.Publisher,
	logger *zap.Logger,
	authMiddleware func(http.Handler) http.Handler,
) {
	handler := NewItemHandler(itemService, userService, images, publisher, logger)

	r.Get("/", handler.ListItems)
	r.With(authMiddleware, handler.requireAdmin).Post("/", handler.CreateItem)
	r.Route("/{itemID}", func(r chi.Router) {
		r.Get("/", handler.GetItem)
		r.With(authMiddleware, handler.requireAdmin).Put("/", handler.UpdateItem)
		r.With(authMiddleware, handler.requireAdmin).Delete("/", handler.DeleteItem)
		r.With(authMiddleware, handler.requireAdmin).Post("/image", handler.UploadItemImage)
	})
}

func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(r.URL.Query().Get("category"))

	items, err := h.itemService.List(r.Context(), category)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCategory) {
			writeError(w, http.StatusBadRequest, "invalid category")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to list items")
		return
	}

	writeJSON(w, http.StatusOK, items)
}

func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.itemService.Get(r.Context(), chi.URLParam(r, "itemID"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "item not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch item")
		return
	}

	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req ItemCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	created, err := h.itemService.Create(r.Context(), types.Item{
		Title:        req.Title,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		OfficialLink: req.OfficialLink,
		Category:     req.Category,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidCategory) {
			writeError(w, http.StatusBadRequest, "invalid category")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	h.publish(r, events.KindItemCreated, created)
	writeJSON(w, http.StatusCreated, created)
}

func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var patch types.ItemPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	updated, err := h.itemService.Patch(r.Context(), chi.URLParam(r, "itemID"), patch)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "item not found")
		case errors.Is(err, services.ErrInvalidCategory):
			writeError(w, http.StatusBadRequest, "invalid category")
		default:
			writeError(w, http.StatusInternalServerError, "failed to update item")
		}
		return
	}

	h.publish(r, events.KindItemUpdated, updated)
	writeJSON(w, http.StatusOK, updated)
}

func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "itemID")

	item, err := h.itemService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "item not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	if err := h.itemService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "item not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	h.publish(r, events.KindItemDeleted, item)
	w.WriteHeader(http.StatusNoContent)
}

// UploadItemImage stores a cover image in object storage and points
// the item's image_url at it.
func (h *ItemHandler) UploadItemImage(w http.ResponseWriter, r *http.Request) {
	if h.images == nil {
		writeError(w, http.StatusServiceUnavailable, "image storage is not configured")
		return
	}

	id := chi.URLParam(r, "itemID")
	if _, err := h.itemService.Get(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "item not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch item")
		return
	}

	if err := r.ParseMultipartForm(maxImageMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile(formFieldImage)
	if err != nil {
		writeError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	if header.Size > maxImageBytes {
		writeError(w, http.StatusBadRequest, "image too large")
		return
	}

	contentType := header.Header.Get("Content-Type")
	url, err := h.images.SaveItemImage(r.Context(), id, file, header.Size, contentType)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store image")
		return
	}

	updated, err := h.itemService.SetImageURL(r.Context(), id, url)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	h.publish(r, events.KindItemUpdated, updated)
	writeJSON(w, http.StatusOK, updated)
}

// ItemCreateRequest is the JSON payload for item creation.
type ItemCreateRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	ImageURL     string `json:"image_url"`
	OfficialLink string `json:"official_link"`
	Category     string `json:"category"`
}

func (h *ItemHandler) publish(r *http.Request, kind string, item types.Item) {
	if h.publisher == nil {
		return
	}

	actorID, _ := userIDFromContext(r.Context())
	if _, err := h.publisher.Publish(r.Context(), events.Event{
		Kind:     kind,
		ItemID:   item.ID,
		Category: item.Category,
		ActorID:  actorID,
	}); err != nil && h.logger != nil {
		h.logger.Warn("failed to publish item event",
			zap.String("kind", kind),
			zap.String("item_id", item.ID),
			zap.Error(err),
		)
	}
}

func (h *ItemHandler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromContext(r.Context())
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		user, err := h.userService.GetByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to load user")
			return
		}

		if !strings.EqualFold(user.Role, types.RoleAdmin) {
			writeError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
