package suggest

import (
	"context"
	"net/http"
	"strings"
	"sync"
)

type responseMetaKey struct{}

// responseMeta holds what the chat client does not surface from the last
// response of one Suggest call.
type responseMeta struct {
	mu         sync.Mutex
	status     int
	retryAfter string
}

func withResponseMeta(ctx context.Context) (context.Context, *responseMeta) {
	meta := &responseMeta{}
	return context.WithValue(ctx, responseMetaKey{}, meta), meta
}

func (m *responseMeta) record(resp *http.Response) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = resp.StatusCode
	m.retryAfter = strings.TrimSpace(resp.Header.Get("Retry-After"))
}

func (m *responseMeta) get() (int, string) {
	if m == nil {
		return 0, ""
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status, m.retryAfter
}

// responseRecorder copies response metadata into the responseMeta carried by
// the request context.
type responseRecorder struct {
	next http.RoundTripper
}

func (t responseRecorder) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if meta, ok := req.Context().Value(responseMetaKey{}).(*responseMeta); ok {
		meta.record(resp)
	}
	return resp, nil
}

func withResponseRecorder(client *http.Client) *http.Client {
	wrapped := &http.Client{}
	if client != nil {
		*wrapped = *client
	}

	next := wrapped.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	wrapped.Transport = responseRecorder{next: next}

	return wrapped
}
