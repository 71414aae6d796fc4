package orchestrator

import (
	"context"

	"go.uber.org/zap"

	"github.com/limaJavier/classtimetable/pkg/model"
)

// Accepted is what a run hands to the exporter: a timetable that satisfies
// every hard constraint together with its score and verification.
type Accepted struct {
	RunID        string                   `json:"run_id"`
	ClassName    string                   `json:"class_name"`
	Timetable    model.Timetable          `json:"timetable"`
	Score        float64                  `json:"score"`
	Verification model.VerificationResult `json:"verification"`
}

// Exporter turns an accepted timetable into durable formats
type Exporter interface {
	Export(ctx context.Context, accepted Accepted) error
}

type ExporterFunc func(ctx context.Context, accepted Accepted) error

func (f ExporterFunc) Export(ctx context.Context, accepted Accepted) error {
	return f(ctx, accepted)
}

type NopExporter struct{}

func (NopExporter) Export(context.Context, Accepted) error { return nil }

// LogExporter writes the accepted timetable to a logger
type LogExporter struct {
	Logger *zap.Logger
}

func (exporter LogExporter) Export(_ context.Context, accepted Accepted) error {
	if exporter.Logger == nil {
		return nil
	}
	exporter.Logger.Info("timetable accepted",
		zap.String("run_id", accepted.RunID),
		zap.String("class", accepted.ClassName),
		zap.Float64("score", accepted.Score),
		zap.Int("assignments", len(accepted.Timetable.Assignments)),
		zap.Strings("warnings", accepted.Verification.Warnings),
		zap.Any("timetable", accepted.Timetable),
	)
	return nil
}
