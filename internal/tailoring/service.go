package tailoring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cvtailor-backend/internal/cvs"
	"cvtailor-backend/internal/jobdescriptions"
	"cvtailor-backend/internal/ledger"
	"cvtailor-backend/internal/queue"
	"cvtailor-backend/internal/quota"
	"cvtailor-backend/internal/shared/cache"
	"cvtailor-backend/internal/shared/metrics"
	"cvtailor-backend/internal/shared/telemetry"
	"cvtailor-backend/internal/stages"
)

// Progress milestones reported after each pipeline step.
const (
	progressSnapshot    = 10
	progressSummarized  = 30
	progressExperience  = 60
	progressSkills      = 80
	progressCoverLetter = 90
	progressTranslated  = 95
	progressDone        = 100
)

const pollWindow = time.Second

// Service orchestrates tailoring runs: the quota gate, the CV snapshot, the
// stage pipeline, and the usage ledger write that closes a run.
type Service struct {
	Runs   RunRepo
	CVs    cvs.Repo
	JDs    jobdescriptions.Repo
	Quota  *quota.Service
	Ledger ledger.Repo
	Stages StageRunner
	Queue  queue.Client
	Now    func() time.Time

	pollCache *cache.TTL
}

// NewService constructs a Service.
func NewService(runs RunRepo, cvRepo cvs.Repo, jdRepo jobdescriptions.Repo, quotaSvc *quota.Service, ledgerRepo ledger.Repo, runner StageRunner, q queue.Client) *Service {
	return &Service{
		Runs:      runs,
		CVs:       cvRepo,
		JDs:       jdRepo,
		Quota:     quotaSvc,
		Ledger:    ledgerRepo,
		Stages:    runner,
		Queue:     q,
		Now:       time.Now,
		pollCache: cache.NewTTL(pollWindow),
	}
}

// Start validates the request, checks quota, records a queued run and hands
// it to the queue. No AI work happens before the quota gate passes.
func (s *Service) Start(ctx context.Context, req StartRequest) (Run, error) {
	if req.UserID == "" {
		return Run{}, errors.New("userID is required")
	}
	if req.JobDescriptionID == "" {
		return Run{}, errors.New("jobDescriptionID is required")
	}

	if _, err := s.JDs.GetByID(ctx, req.UserID, req.JobDescriptionID); err != nil {
		return Run{}, fmt.Errorf("job description lookup id=%s: %w", req.JobDescriptionID, err)
	}

	decision, err := s.Quota.CanOperate(ctx, req.UserID)
	if err != nil {
		return Run{}, fmt.Errorf("quota check: %w", err)
	}
	if !decision.Allowed {
		metrics.IncQuotaDenied()
		telemetry.Info("tailoring.quota_denied", map[string]any{
			"user_id": req.UserID,
			"reason":  decision.Reason,
		})
		return Run{}, &QuotaError{Reason: decision.Reason, RetryAfterSeconds: decision.RetryAfterSeconds}
	}

	run := Run{
		UserID:           req.UserID,
		JobDescriptionID: req.JobDescriptionID,
		Options: RunOptions{
			CompanyName:        req.CompanyName,
			UseAITailoring:     req.UseAITailoring,
			IncludeCoverLetter: req.IncludeCoverLetter,
			TranslateTo:        req.TranslateTo,
		},
		Status:    StatusQueued,
		CreatedAt: s.now(),
	}
	id, err := s.Runs.Create(ctx, run)
	if err != nil {
		return Run{}, fmt.Errorf("create run: %w", err)
	}
	run.ID = id

	if err := s.Queue.Enqueue(ctx, queue.NewMessage(run.ID, requestID(ctx))); err != nil {
		run.Status = StatusFailed
		run.Error = "enqueue failed: " + err.Error()
		if saveErr := s.Runs.Save(ctx, run); saveErr != nil {
			telemetry.Error("tailoring.run.save_failed", map[string]any{"run_id": run.ID, "error": saveErr.Error()})
		}
		return Run{}, fmt.Errorf("enqueue run id=%s: %w", run.ID, err)
	}

	metrics.IncTailoringStarted()
	telemetry.Info("tailoring.status", map[string]any{
		"run_id":  run.ID,
		"user_id": run.UserID,
		"status":  StatusQueued,
	})
	return run, nil
}

// Execute drives a queued run through the pipeline. A stage error marks the
// run failed and leaves the pending snapshot in place for inspection.
func (s *Service) Execute(ctx context.Context, runID string) error {
	run, err := s.Runs.Get(ctx, runID)
	if err != nil {
		return fmt.Errorf("load run id=%s: %w", runID, err)
	}
	if run.Status == StatusCompleted || run.Status == StatusFailed {
		telemetry.Warn("tailoring.run.already_finished", map[string]any{"run_id": run.ID, "status": run.Status})
		return nil
	}

	startedAt := s.now()
	run.Status = StatusActive
	run.StartedAt = &startedAt
	if err := s.Runs.Save(ctx, run); err != nil {
		return fmt.Errorf("mark run active id=%s: %w", run.ID, err)
	}

	if err := s.execute(ctx, &run); err != nil {
		now := s.now()
		run.Status = StatusFailed
		run.Error = err.Error()
		run.CompletedAt = &now
		if saveErr := s.Runs.Save(ctx, run); saveErr != nil {
			telemetry.Error("tailoring.run.save_failed", map[string]any{"run_id": run.ID, "error": saveErr.Error()})
		}
		metrics.IncTailoringFailed()
		telemetry.Error("tailoring.status", map[string]any{
			"run_id":  run.ID,
			"user_id": run.UserID,
			"status":  StatusFailed,
			"error":   err.Error(),
		})
		return err
	}

	now := s.now()
	run.Status = StatusCompleted
	run.Progress = progressDone
	run.CompletedAt = &now
	if err := s.Runs.Save(ctx, run); err != nil {
		return fmt.Errorf("mark run completed id=%s: %w", run.ID, err)
	}
	metrics.IncTailoringCompleted()
	metrics.ObserveTailoringDurationMs(float64(now.Sub(startedAt).Milliseconds()))
	telemetry.Info("tailoring.status", map[string]any{
		"run_id":  run.ID,
		"user_id": run.UserID,
		"status":  StatusCompleted,
		"tokens":  run.TokensUsed,
	})
	return nil
}

func (s *Service) execute(ctx context.Context, run *Run) error {
	master, err := s.CVs.GetMaster(ctx, run.UserID)
	if err != nil {
		return fmt.Errorf("load master cv: %w", err)
	}
	fork := master.Fork(run.JobDescriptionID, run.Options.CompanyName, s.now())
	fork.Title = tailoredTitle(master.Title, run.Options.CompanyName)
	cvID, err := s.CVs.Create(ctx, fork)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	run.CVID = cvID
	if err := s.advance(ctx, run, progressSnapshot); err != nil {
		return err
	}

	payload := stages.Payload{
		UserID:           run.UserID,
		CVID:             run.CVID,
		JobDescriptionID: run.JobDescriptionID,
		CompanyName:      run.Options.CompanyName,
		TargetLanguage:   run.Options.TranslateTo,
	}

	if err := s.runStage(ctx, run, stages.StageSummarizeJob, payload, progressSummarized); err != nil {
		return err
	}

	if run.Options.UseAITailoring {
		if err := s.runStage(ctx, run, stages.StageTailorExperience, payload, progressExperience); err != nil {
			return err
		}
		if err := s.runStage(ctx, run, stages.StageTailorSkills, payload, progressSkills); err != nil {
			return err
		}
	}

	if run.Options.IncludeCoverLetter {
		if err := s.runStage(ctx, run, stages.StageCoverLetter, payload, progressCoverLetter); err != nil {
			return err
		}
	}

	if run.Options.TranslateTo != "" && run.Options.TranslateTo != "none" {
		if err := s.runStage(ctx, run, stages.StageTranslate, payload, progressTranslated); err != nil {
			return err
		}
	}

	return s.settle(ctx, run)
}

// settle writes the usage record and flips the snapshot to complete. The
// ledger write comes first so a crash can never yield unbilled work.
func (s *Service) settle(ctx context.Context, run *Run) error {
	_, err := s.Ledger.Append(ctx, ledger.Consumption{
		UserID:           run.UserID,
		JobDescriptionID: run.JobDescriptionID,
		CVID:             run.CVID,
		Tokens:           run.TokensUsed,
		CreatedAt:        s.now(),
	})
	if err != nil {
		return fmt.Errorf("append consumption: %w", err)
	}

	cv, err := s.CVs.GetByID(ctx, run.UserID, run.CVID)
	if err != nil {
		return fmt.Errorf("reload snapshot: %w", err)
	}
	if cv.Tailored != nil {
		cv.Tailored.Status = cvs.TailorStatusComplete
		if err := s.CVs.Save(ctx, cv); err != nil {
			return fmt.Errorf("mark snapshot complete: %w", err)
		}
	}
	return nil
}

func (s *Service) runStage(ctx context.Context, run *Run, stage stages.Stage, payload stages.Payload, progress int) error {
	res, err := s.Stages.Run(ctx, stage, payload)
	if err != nil {
		return err
	}
	run.TokensUsed += res.TokensUsed
	telemetry.Info("tailoring.status", map[string]any{
		"run_id":  run.ID,
		"user_id": run.UserID,
		"status":  StatusActive,
		"stage":   string(stage),
		"tokens":  res.TokensUsed,
	})
	return s.advance(ctx, run, progress)
}

func (s *Service) advance(ctx context.Context, run *Run, progress int) error {
	run.Progress = progress
	if err := s.Runs.Save(ctx, *run); err != nil {
		return fmt.Errorf("save run progress id=%s: %w", run.ID, err)
	}
	return nil
}

// recordTranslation bills a standalone translation against the ledger.
func (s *Service) recordTranslation(ctx context.Context, userID, cvID string, tokens int) error {
	_, err := s.Ledger.Append(ctx, ledger.Consumption{
		UserID:    userID,
		CVID:      cvID,
		Tokens:    tokens,
		CreatedAt: s.now(),
	})
	return err
}

// Progress returns the run for polling clients. Repeat polls inside the
// window are served from a short-lived cache to keep the store quiet.
func (s *Service) Progress(ctx context.Context, userID, runID string) (Run, error) {
	key := userID + ":" + runID
	if cached, ok := s.pollCache.Get(key); ok {
		return cached.(Run), nil
	}
	run, err := s.Runs.GetForUser(ctx, userID, runID)
	if err != nil {
		return Run{}, err
	}
	if run.Status == StatusQueued || run.Status == StatusActive {
		s.pollCache.Set(key, run)
	}
	return run, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func tailoredTitle(masterTitle, companyName string) string {
	if companyName == "" {
		return masterTitle + " (tailored)"
	}
	return fmt.Sprintf("%s (%s)", masterTitle, companyName)
}

type requestIDKey struct{}

// WithRequestID stamps the request id used when enqueuing from HTTP.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}
