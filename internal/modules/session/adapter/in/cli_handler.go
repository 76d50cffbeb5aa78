package in

import (
	"context"

	sessiondto "oryx/internal/modules/session/dto"
	sessionin "oryx/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Run(ctx context.Context, title, labels string) (sessiondto.RunOutput, error) {
	return h.usecase.Run(ctx, sessiondto.RunInput{Title: title, Labels: labels})
}

func (h CLIHandler) Status(ctx context.Context, labels string, eachMatch bool) (sessiondto.StatusOutput, error) {
	return h.usecase.Status(ctx, sessiondto.ReportInput{Labels: labels, EachMatch: eachMatch})
}

func (h CLIHandler) Log(ctx context.Context, labels string, eachMatch bool) (sessiondto.LogOutput, error) {
	return h.usecase.Log(ctx, sessiondto.ReportInput{Labels: labels, EachMatch: eachMatch})
}

func (h CLIHandler) Labels(ctx context.Context) ([]sessiondto.LabelOutput, error) {
	return h.usecase.Labels(ctx)
}

func (h CLIHandler) Reindex(ctx context.Context) (int, error) {
	return h.usecase.Reindex(ctx)
}

func (h CLIHandler) Export(ctx context.Context, dir string) (sessiondto.ExportOutput, error) {
	return h.usecase.Export(ctx, sessiondto.ExportInput{Dir: dir})
}
