package tailoring

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cvtailor-backend/internal/cvs"
	"cvtailor-backend/internal/jobdescriptions"
	"cvtailor-backend/internal/shared/server/middleware"
	"cvtailor-backend/internal/shared/server/respond"
	"cvtailor-backend/internal/stages"
)

// Handler wires HTTP handlers to the tailoring service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches tailoring routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/tailorings", h.startTailoring)
	rg.GET("/tailorings/:id", h.getTailoring)
	rg.GET("/quota", h.getQuota)
	rg.POST("/cvs/:id/translate", h.translateCV)
}

type startTailoringRequest struct {
	JobDescriptionID   string `json:"jobDescriptionId"`
	CompanyName        string `json:"companyName"`
	UseAITailoring     *bool  `json:"useAITailoring"`
	IncludeCoverLetter bool   `json:"includeCoverLetter"`
	TranslateTo        string `json:"translateTo"`
}

func (h *Handler) startTailoring(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var body startTailoringRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if body.JobDescriptionID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "jobDescriptionId is required", nil)
		return
	}

	useAI := true
	if body.UseAITailoring != nil {
		useAI = *body.UseAITailoring
	}

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	run, err := h.Svc.Start(ctx, StartRequest{
		UserID:             userID,
		JobDescriptionID:   body.JobDescriptionID,
		CompanyName:        body.CompanyName,
		UseAITailoring:     useAI,
		IncludeCoverLetter: body.IncludeCoverLetter,
		TranslateTo:        body.TranslateTo,
	})
	if err != nil {
		var quotaErr *QuotaError
		switch {
		case errors.As(err, &quotaErr):
			c.Header("Retry-After", retryAfterValue(quotaErr.RetryAfterSeconds))
			respond.Error(c, http.StatusTooManyRequests, "limit_reached", quotaErr.Reason, gin.H{
				"retryAfterSeconds": quotaErr.RetryAfterSeconds,
			})
		case errors.Is(err, jobdescriptions.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "job description not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to start tailoring", nil)
		}
		return
	}

	respond.Accepted(c, gin.H{
		"runId":  run.ID,
		"status": run.Status,
	})
}

func (h *Handler) getTailoring(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	runID := c.Param("id")
	if runID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "run id is required", nil)
		return
	}

	run, err := h.Svc.Progress(c.Request.Context(), userID, runID)
	if err != nil {
		switch {
		case errors.Is(err, ErrRunNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "tailoring run not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch tailoring run", nil)
		}
		return
	}

	resp := gin.H{
		"id":         run.ID,
		"status":     run.Status,
		"progress":   run.Progress,
		"tokensUsed": run.TokensUsed,
	}
	if run.CVID != "" {
		resp["cvId"] = run.CVID
	}
	if run.Status == StatusFailed && run.Error != "" {
		resp["error"] = run.Error
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) getQuota(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	status, err := h.Svc.Quota.GetStatus(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch quota status", nil)
		return
	}
	respond.OK(c, status)
}

type translateRequest struct {
	TargetLanguage string `json:"targetLanguage"`
}

func (h *Handler) translateCV(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	cvID := c.Param("id")
	if cvID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "cv id is required", nil)
		return
	}

	var body translateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	decision, err := h.Svc.Quota.CanOperate(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to check quota", nil)
		return
	}
	if !decision.Allowed {
		c.Header("Retry-After", retryAfterValue(decision.RetryAfterSeconds))
		respond.Error(c, http.StatusTooManyRequests, "limit_reached", decision.Reason, gin.H{
			"retryAfterSeconds": decision.RetryAfterSeconds,
		})
		return
	}

	res, err := h.Svc.Stages.Run(c.Request.Context(), stages.StageTranslate, stages.Payload{
		UserID:         userID,
		CVID:           cvID,
		TargetLanguage: body.TargetLanguage,
	})
	if err != nil {
		var stageErr *StageError
		switch {
		case errors.As(err, &stageErr):
			respond.Error(c, http.StatusBadRequest, "translation_failed", stageErr.Message, nil)
		case errors.Is(err, ErrRetriesExhausted):
			respond.Error(c, http.StatusBadGateway, "translation_unavailable", "translation provider unavailable", nil)
		case errors.Is(err, cvs.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "cv not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to translate cv", nil)
		}
		return
	}

	if res.TokensUsed > 0 {
		if appendErr := h.Svc.recordTranslation(c.Request.Context(), userID, cvID, res.TokensUsed); appendErr != nil {
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to record usage", nil)
			return
		}
	}

	respond.OK(c, gin.H{
		"cvId":       cvID,
		"tokensUsed": res.TokensUsed,
	})
}

func retryAfterValue(seconds int) string {
	if seconds < 1 {
		seconds = 1
	}
	return strconv.Itoa(seconds)
}
