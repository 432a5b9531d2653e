package scheduler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
)

func TestProbeRecordsReachableService(t *testing.T) {
	is := is.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello"))
	}))
	defer srv.Close()

	p := NewHelloProbe(srv.Client(), srv.URL, time.Minute, time.Second, zerolog.Nop())

	_, ok := p.Last()
	is.True(!ok)

	status := p.Probe(context.Background())
	is.True(status.Reachable)
	is.Equal(status.StatusCode, http.StatusOK)

	last, ok := p.Last()
	is.True(ok)
	is.Equal(last, status)
}

func TestProbeRecordsFailures(t *testing.T) {
	is := is.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewHelloProbe(srv.Client(), srv.URL, time.Minute, time.Second, zerolog.Nop())
	status := p.Probe(context.Background())
	is.True(!status.Reachable)
	is.Equal(status.StatusCode, http.StatusBadGateway)

	srv.Close()
	status = p.Probe(context.Background())
	is.True(!status.Reachable)
	is.True(status.Error != "")
}

func TestStartRunsProbe(t *testing.T) {
	is := is.New(t)

	hits := make(chan struct{}, 10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits <- struct{}{}
	}))
	defer srv.Close()

	p := NewHelloProbe(srv.Client(), srv.URL, time.Second, time.Second, zerolog.Nop())
	is.NoErr(p.Start())
	defer p.Stop()

	select {
	case <-hits:
	case <-time.After(3 * time.Second):
		t.Fatal("probe did not run")
	}
}

func TestDisabledProbeDoesNotSchedule(t *testing.T) {
	is := is.New(t)

	p := NewHelloProbe(nil, "http://127.0.0.1:0", 0, time.Second, zerolog.Nop())
	is.NoErr(p.Start())
	p.Stop()

	_, ok := p.Last()
	is.True(!ok)

	var nilProbe *HelloProbe
	_, ok = nilProbe.Last()
	is.True(!ok)
}
