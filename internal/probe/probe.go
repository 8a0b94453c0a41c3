// Package probe issues the single header probe against the target before
// the LLM is consulted.
package probe

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"
)

const requestTimeout = 10 * time.Second

// Prober fetches response headers from a target URL.
type Prober struct {
	client    *http.Client
	userAgent string
}

// New creates a Prober with its own HTTP client. Redirects are followed
// so the headers describe the endpoint ffuf will actually hit.
func New(userAgent string) *Prober {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: requestTimeout,
		}).DialContext,
		MaxIdleConnsPerHost: 1,
	}
	return &Prober{
		client: &http.Client{
			Transport: transport,
			Timeout:   requestTimeout,
		},
		userAgent: userAgent,
	}
}

// Headers sends one HEAD request to target and returns the response
// headers, keeping the first value of each. It never fails: any transport
// error is reported and degrades to a fixed placeholder map so the run
// can continue.
func (p *Prober) Headers(ctx context.Context, target string) map[string]string {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		fmt.Printf("Error fetching headers: %v\n", err)
		return degraded()
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		fmt.Printf("Error fetching headers: %v\n", err)
		return degraded()
	}
	defer resp.Body.Close()

	headers := make(map[string]string, len(resp.Header))
	for name, values := range resp.Header {
		if len(values) > 0 {
			headers[name] = values[0]
		}
	}
	return headers
}

func degraded() map[string]string {
	return map[string]string{"Header": "Error fetching headers."}
}
