package proposal

import (
	"context"
	"fmt"
	"math"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/leadspark/upwork-radar/internal/ai"
	"github.com/leadspark/upwork-radar/internal/logger"
	"github.com/leadspark/upwork-radar/internal/offering"
	"github.com/leadspark/upwork-radar/internal/project"
)

const defaultMaxLogLength = 200

// Writer drives the generation of one proposal through the configured
// content generator.
type Writer struct {
	generator ai.Generator
	logger    *zap.Logger
	maxLogLen int
}

func NewWriter(generator ai.Generator, log *zap.Logger, maxLogLength int) *Writer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Writer{
		generator: generator,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

// Generate produces a proposal for the project. It never returns an
// error: a failed collaborator call yields a Proposal with Failed set and
// the error message in the body, stored and replaceable like any other.
func (w *Writer) Generate(ctx context.Context, p *project.Project, off offering.Offering, offerings []offering.Offering, template string, rate float64) *Proposal {
	if rate <= 0 {
		rate = off.ReferenceRate()
	}
	cost := float64(p.EstimatedHours) * rate

	out := &Proposal{
		ProjectID:      p.ID,
		Rate:           rate,
		EstimatedHours: p.EstimatedHours,
		EstimatedCost:  cost,
		GeneratedAt:    time.Now(),
	}

	req, err := BuildRequest(p, off, offerings, template, rate)
	if err != nil {
		return w.failed(out, p, err)
	}

	w.logger.Debug("proposal generation request",
		zap.String("project_id", p.ID),
		zap.Int("prompt_length", utf8.RuneCountInString(req.Message)),
		zap.String("prompt_preview", logger.TruncateForLog(req.Message, w.maxLogLen)),
	)

	raw, err := w.generator.GenerateContent(ctx, req.System, req.Message)
	if err != nil {
		return w.failed(out, p, err)
	}

	w.logger.Debug("proposal generation response",
		zap.String("project_id", p.ID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, w.maxLogLen)),
	)

	body, keyPoints, timeline, analysis, structured := Parse(raw)
	out.Proposal = body
	out.KeyPoints = keyPoints
	out.EstimatedTimeline = timeline
	out.Analysis = analysis

	if !structured {
		w.logger.Debug("structured parsing failed, keeping raw text",
			zap.String("project_id", p.ID),
		)
		out.EstimatedTimeline = fallbackTimeline(p.EstimatedHours)
	}

	return out
}

func (w *Writer) failed(out *Proposal, p *project.Project, err error) *Proposal {
	w.logger.Warn("proposal generation failed",
		zap.String("project_id", p.ID),
		zap.Error(err),
	)
	out.Failed = true
	out.Proposal = fmt.Sprintf("Error: %v\n\nPlease try again.", err)
	return out
}

func fallbackTimeline(estimatedHours int) string {
	weeks := int(math.Ceil(float64(estimatedHours) / 40))
	if weeks < 1 {
		weeks = 1
	}
	return fmt.Sprintf("%d weeks", weeks)
}
