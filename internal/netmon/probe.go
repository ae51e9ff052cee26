package netmon

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// HTTPProbe checks reachability with a HEAD request against a known
// endpoint, typically the API server's health route. Interface type
// detection is not available off-device, so Type stays unknown.
type HTTPProbe struct {
	client *http.Client
	url    string
}

func NewHTTPProbe(url string, timeout time.Duration) *HTTPProbe {
	return &HTTPProbe{
		client: &http.Client{Timeout: timeout},
		url:    url,
	}
}

func (p *HTTPProbe) Check(ctx context.Context) (Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.url, nil)
	if err != nil {
		return Status{}, fmt.Errorf("failed to build probe request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return Status{}, fmt.Errorf("probe request failed: %w", err)
	}
	resp.Body.Close()

	return Status{
		Connected:         true,
		InternetReachable: ReachableYes,
		Type:              TypeUnknown,
	}, nil
}
