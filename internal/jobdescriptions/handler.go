package jobdescriptions

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cvtailor-backend/internal/shared/server/middleware"
	"cvtailor-backend/internal/shared/server/respond"
)

// Handler exposes the minimal job-description surface the pipeline needs.
type Handler struct {
	Repo Repo
}

// NewHandler constructs a Handler.
func NewHandler(repo Repo) *Handler {
	return &Handler{Repo: repo}
}

// RegisterRoutes attaches job-description routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/job-descriptions", h.createJobDescription)
	rg.GET("/job-descriptions/:id", h.getJobDescription)
}

type createJobDescriptionRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (h *Handler) createJobDescription(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var body createJobDescriptionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if strings.TrimSpace(body.Content) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "content is required", nil)
		return
	}

	id, err := h.Repo.Create(c.Request.Context(), JobDescription{
		UserID:  userID,
		Title:   body.Title,
		Content: body.Content,
	})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create job description", nil)
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) getJobDescription(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	jdID := c.Param("id")
	if jdID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "job description id is required", nil)
		return
	}

	jd, err := h.Repo.GetByID(c.Request.Context(), userID, jdID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "job description not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch job description", nil)
		}
		return
	}
	respond.OK(c, jd)
}
