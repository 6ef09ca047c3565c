package cvs

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cvtailor-backend/internal/shared/server/middleware"
	"cvtailor-backend/internal/shared/server/respond"
)

// Handler exposes the minimal CV surface the tailoring pipeline needs.
type Handler struct {
	Repo Repo
}

// NewHandler constructs a Handler.
func NewHandler(repo Repo) *Handler {
	return &Handler{Repo: repo}
}

// RegisterRoutes attaches CV routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/cvs", h.createCV)
	rg.GET("/cvs/:id", h.getCV)
	rg.GET("/cvs/master", h.getMaster)
}

type createCVRequest struct {
	Title      string            `json:"title"`
	Basics     map[string]string `json:"basics"`
	Skills     []Skill           `json:"skills"`
	Experience []ExperienceEntry `json:"experience"`
}

func (h *Handler) createCV(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var body createCVRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	id, err := h.Repo.Create(c.Request.Context(), CV{
		UserID:     userID,
		Title:      body.Title,
		Basics:     body.Basics,
		Skills:     body.Skills,
		Experience: body.Experience,
	})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create cv", nil)
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) getCV(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	cvID := c.Param("id")
	if cvID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "cv id is required", nil)
		return
	}

	cv, err := h.Repo.GetByID(c.Request.Context(), userID, cvID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "cv not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch cv", nil)
		}
		return
	}
	respond.OK(c, cv)
}

func (h *Handler) getMaster(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	cv, err := h.Repo.GetMaster(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "no master cv", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch master cv", nil)
		}
		return
	}
	respond.OK(c, cv)
}
