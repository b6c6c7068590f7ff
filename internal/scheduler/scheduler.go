// Package scheduler re-runs the pipeline for a watched set of posting URLs
// on a jittered interval and reports outcomes to the notifier.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lthibault/jitterbug/v2"
	"go.uber.org/zap"

	"github.com/careerkit/career-assistant/internal/notify"
	"github.com/careerkit/career-assistant/internal/pipeline"
	"github.com/careerkit/career-assistant/internal/review"
)

// Runner starts one pipeline run. Implemented by pipeline.Pipeline.
type Runner interface {
	Run(ctx context.Context, url string) (*pipeline.RunResult, error)
}

type Scheduler struct {
	runner   Runner
	notifier notify.Notifier
	urls     []string
	interval time.Duration
	reported map[string]bool
	logger   *zap.SugaredLogger
}

func New(runner Runner, notifier notify.Notifier, urls []string, interval time.Duration) *Scheduler {
	return &Scheduler{
		runner:   runner,
		notifier: notifier,
		urls:     urls,
		interval: interval,
		reported: make(map[string]bool),
		logger:   zap.S().Named("scheduler"),
	}
}

// Run blocks until the context is cancelled. The first sweep happens after
// one full interval; the jitter keeps repeated deploys from synchronizing
// their crawls.
func (s *Scheduler) Run(ctx context.Context) {
	if len(s.urls) == 0 {
		s.logger.Info("no watch urls configured, scheduler idle")
		<-ctx.Done()
		return
	}

	ticker := jitterbug.New(s.interval, &jitterbug.Norm{Stdev: 30 * time.Millisecond, Mean: 0})
	defer ticker.Stop()

	s.logger.Infow("scheduler started", "urls", len(s.urls), "interval", s.interval)
	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		}
	}
}

func (s *Scheduler) sweep(ctx context.Context) {
	for _, url := range s.urls {
		if s.reported[url] {
			continue
		}
		result, err := s.runner.Run(ctx, url)
		switch {
		case err == nil:
			s.reported[url] = true
			s.report(ctx, completionMessage(url, result))
		case errors.Is(err, pipeline.ErrRunInProgress), errors.Is(err, pipeline.ErrRunAlreadyFailed):
			// Already handled by an earlier sweep or a manual run.
			s.logger.Debugw("skipping watched url", "url", url, "reason", err)
		default:
			s.logger.Warnw("scheduled run failed", "url", url, "error", err)
			s.report(ctx, fmt.Sprintf("Pipeline run failed for %s: %v", url, err))
		}
	}
}

// completionMessage summarizes a finished run, one line per question with
// the final version and its score.
func completionMessage(url string, result *pipeline.RunResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Letters ready for %s (%s):", result.Posting.CompanyName, url)
	for _, letter := range result.Letters {
		fmt.Fprintf(&b, "\nQ%d v%d", letter.QuestionSlot, letter.Version)
		if letter.ReviewScore != nil {
			fmt.Fprintf(&b, ": score %d (%s)", *letter.ReviewScore, review.Grade(*letter.ReviewScore))
		} else {
			b.WriteString(": unscored")
		}
	}
	return b.String()
}

func (s *Scheduler) report(ctx context.Context, message string) {
	if err := s.notifier.Notify(ctx, message); err != nil {
		s.logger.Warnw("notification failed", "error", err)
	}
}
