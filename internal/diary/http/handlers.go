package http

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeah-diary/diary-backend/internal/auth"
	"github.com/yeah-diary/diary-backend/internal/diary/domain"
	"github.com/yeah-diary/diary-backend/internal/diary/service"
)

// AssetDeleter releases a hosted asset by its provider key.
type AssetDeleter interface {
	Delete(ctx context.Context, assetKey string) error
}

// EntryStore is the read/delete side of the diary store used by the
// endpoints that do not run the pipeline.
type EntryStore interface {
	ListByAuthor(ctx context.Context, authorID string) ([]domain.DiaryEntry, error)
	GetByID(ctx context.Context, id string) (*domain.DiaryEntry, error)
	Delete(ctx context.Context, id string) error
}

// Handler serves the diary endpoints. All of them sit behind the session
// middleware.
type Handler struct {
	pipeline *service.Pipeline
	store    EntryStore
	assets   AssetDeleter
}

func NewHandler(pipeline *service.Pipeline, store EntryStore, assets AssetDeleter) *Handler {
	return &Handler{
		pipeline: pipeline,
		store:    store,
		assets:   assets,
	}
}

type createReq struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Create runs the diary creation pipeline for the session user.
func (h *Handler) Create(c *gin.Context) {
	userID := auth.UserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authenticated"})
		return
	}

	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	entry, err := h.pipeline.Create(c.Request.Context(), domain.CreateEntryRequest{
		AuthorID: userID,
		Title:    req.Title,
		Content:  req.Content,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"diary": entry})
}

// List returns all entries of the session user.
func (h *Handler) List(c *gin.Context) {
	userID := auth.UserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authenticated"})
		return
	}

	entries, err := h.store.ListByAuthor(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to list diaries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"diaries": entries})
}

// Get returns a single entry owned by the session user.
func (h *Handler) Get(c *gin.Context) {
	userID := auth.UserID(c)
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "diary id is required"})
		return
	}

	entry, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "diary not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to get diary"})
		return
	}
	if entry.AuthorID != userID {
		c.JSON(http.StatusNotFound, gin.H{"message": "diary not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"diary": entry})
}

// Delete removes an entry and releases its hosted image. The asset delete
// is idempotent on the provider side; a failure there is logged and the
// entry is still removed.
func (h *Handler) Delete(c *gin.Context) {
	userID := auth.UserID(c)
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "diary id is required"})
		return
	}

	entry, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "diary not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to delete diary"})
		return
	}
	if entry.AuthorID != userID {
		c.JSON(http.StatusNotFound, gin.H{"message": "diary not found"})
		return
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to delete diary"})
		return
	}

	if entry.Image.AssetKey != "" {
		if err := h.assets.Delete(c.Request.Context(), entry.Image.AssetKey); err != nil {
			log.Printf("[warn] operation=delete_entry message=failed to release hosted asset asset_key=%s error=%v", entry.Image.AssetKey, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, domain.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authenticated"})
	default:
		var stageErr *domain.StageError
		if errors.As(err, &stageErr) {
			c.JSON(http.StatusInternalServerError, gin.H{"message": stageErr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create diary"})
	}
}
