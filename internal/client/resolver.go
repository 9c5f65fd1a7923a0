package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/AnshRaj112/mindtrack/pkg/utils"
)

// EndpointResolver yields the base URL of the domain service.
type EndpointResolver interface {
	BaseURL(ctx context.Context) (string, error)
}

// FixedResolver always returns the same base URL. An empty URL means no
// server is configured and every remote call is unavailable.
type FixedResolver string

func (r FixedResolver) BaseURL(context.Context) (string, error) {
	if r == "" {
		return "", &utils.UnavailableError{Op: "resolve endpoint", Err: errors.New("no server configured")}
	}
	return strings.TrimRight(string(r), "/"), nil
}

const defaultProbeTimeout = 2 * time.Second

// ProbeResolver probes the /health route of each candidate and caches the
// first one, in candidate order, that answers with a 2xx.
type ProbeResolver struct {
	candidates   []string
	probeTimeout time.Duration
	httpClient   *http.Client

	mu       sync.Mutex
	resolved string
}

func NewProbeResolver(candidates []string, probeTimeout time.Duration) *ProbeResolver {
	if probeTimeout <= 0 {
		probeTimeout = defaultProbeTimeout
	}
	trimmed := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c = strings.TrimRight(strings.TrimSpace(c), "/"); c != "" {
			trimmed = append(trimmed, c)
		}
	}
	return &ProbeResolver{
		candidates:   trimmed,
		probeTimeout: probeTimeout,
		httpClient:   &http.Client{},
	}
}

func (r *ProbeResolver) BaseURL(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.resolved != "" {
		return r.resolved, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.probeTimeout)
	defer cancel()

	reachable := make([]bool, len(r.candidates))
	var wg sync.WaitGroup
	for i, base := range r.candidates {
		wg.Add(1)
		go func(i int, base string) {
			defer wg.Done()
			reachable[i] = r.probe(ctx, base)
		}(i, base)
	}
	wg.Wait()

	for i, ok := range reachable {
		if ok {
			r.resolved = r.candidates[i]
			return r.resolved, nil
		}
	}
	return "", &utils.UnavailableError{
		Op:  "resolve endpoint",
		Err: fmt.Errorf("no reachable server among %d candidates", len(r.candidates)),
	}
}

func (r *ProbeResolver) probe(ctx context.Context, base string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// Reset forgets the cached endpoint so the next call probes again.
func (r *ProbeResolver) Reset() {
	r.mu.Lock()
	r.resolved = ""
	r.mu.Unlock()
}

// SubnetCandidates builds http://<prefix>.<host>:<port> for each host, e.g.
// SubnetCandidates("192.168.1", []int{1, 100}, 3000).
func SubnetCandidates(prefix string, hosts []int, port int) []string {
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), ".")
	out := make([]string, 0, len(hosts))
	for _, h := range hosts {
		if h < 1 || h > 254 {
			continue
		}
		out = append(out, fmt.Sprintf("http://%s.%d:%d", prefix, h, port))
	}
	return out
}
