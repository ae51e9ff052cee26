package report

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) createOp() huma.Operation {
	return huma.Operation{
		OperationID: "reports-create",
		Method:      http.MethodPost,
		Path:        "/api/v1/reports",
		Summary:     "Submit a waste report",
		Description: "Stores a report captured on the device. The returned ID replaces the client's temporary one.",
		Tags:        []string{"reports"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "reports-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/reports",
		Summary:     "List the user's waste reports",
		Tags:        []string{"reports"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) deleteOp() huma.Operation {
	return huma.Operation{
		OperationID: "reports-delete",
		Method:      http.MethodDelete,
		Path:        "/api/v1/reports/{id}",
		Summary:     "Delete a waste report",
		Tags:        []string{"reports"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) statsOp() huma.Operation {
	return huma.Operation{
		OperationID: "reports-stats",
		Method:      http.MethodGet,
		Path:        "/api/v1/reports/stats",
		Summary:     "Aggregate statistics over the user's reports",
		Tags:        []string{"reports"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
