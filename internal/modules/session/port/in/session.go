package in

import (
	"context"

	"oryx/internal/modules/session/dto"
)

type Usecase interface {
	Run(ctx context.Context, input dto.RunInput) (dto.RunOutput, error)
	Status(ctx context.Context, input dto.ReportInput) (dto.StatusOutput, error)
	Log(ctx context.Context, input dto.ReportInput) (dto.LogOutput, error)
	Labels(ctx context.Context) ([]dto.LabelOutput, error)
	Reindex(ctx context.Context) (int, error)
	Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)
}
