package report

import "cleanspot/internal/domain/report"

type createInput struct {
	Body report.CreateRequest
}

type createOutput struct {
	Body CreateResponse
}

type CreateResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type listOutput struct {
	Body report.ListResponse
}

type deleteInput struct {
	ID string `path:"id" doc:"Server-assigned report ID"`
}

type deleteOutput struct {
	Body DeleteResponse
}

type DeleteResponse struct {
	Status string `json:"status"`
}

type statsOutput struct {
	Body report.StatsResponse
}
