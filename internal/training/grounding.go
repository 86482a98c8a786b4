package training

import (
	"context"

	"github.com/jdmurray/portfolio-backend/internal/models"
	"github.com/jdmurray/portfolio-backend/internal/resume"
)

// Grounding bundles the chatbot's knowledge sources: curated Q&A pairs
// from training sessions and the active resume's extracted text.
type Grounding struct {
	training *Service
	resume   *resume.Service
}

func NewGrounding(training *Service, resume *resume.Service) *Grounding {
	return &Grounding{training: training, resume: resume}
}

func (g *Grounding) TrainingExamples(ctx context.Context) ([]models.TrainingSession, error) {
	return g.training.TrainingExamples(ctx)
}

func (g *Grounding) ResumeText(ctx context.Context) string {
	return g.resume.ActiveText(ctx)
}
