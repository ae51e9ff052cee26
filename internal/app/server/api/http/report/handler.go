package report

import (
	"context"
	"errors"

	"cleanspot/internal/app/server/api/http/middleware/auth"
	"cleanspot/internal/domain/report"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

type Handler struct {
	service    report.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service report.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.createOp(), h.create)
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.deleteOp(), h.delete)
	huma.Register(api, h.statsOp(), h.stats)
}

func (h *Handler) create(ctx context.Context, input *createInput) (*createOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	reportID, err := h.service.Create(ctx, userID, input.Body)
	if err != nil {
		if errors.Is(err, report.ErrEmptyDescription) || errors.Is(err, report.ErrInvalidCoordinates) {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		return nil, err
	}

	return &createOutput{
		Body: CreateResponse{ID: reportID, Status: "Ok"},
	}, nil
}

func (h *Handler) list(ctx context.Context, _ *struct{}) (*listOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	reports, err := h.service.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &listOutput{
		Body: reports,
	}, nil
}

func (h *Handler) delete(ctx context.Context, input *deleteInput) (*deleteOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := h.service.Delete(ctx, userID, input.ID); err != nil {
		if errors.Is(err, report.ErrNotFound) {
			return nil, huma.Error404NotFound("report not found")
		}
		return nil, err
	}

	return &deleteOutput{
		Body: DeleteResponse{Status: "Ok"},
	}, nil
}

func (h *Handler) stats(ctx context.Context, _ *struct{}) (*statsOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	stats, err := h.service.GetStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &statsOutput{
		Body: stats,
	}, nil
}
