package health

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/firefly-engineering/firefly-launch/internal/config"
	"github.com/firefly-engineering/firefly-launch/internal/logging"
	"github.com/firefly-engineering/firefly-launch/internal/readiness"
	"github.com/firefly-engineering/firefly-launch/internal/testutil"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		pr   readiness.ProbeResult
		want Status
	}{
		{"ok", readiness.ProbeResult{OK: true, Status: 200}, StatusOK},
		{"tcp ok", readiness.ProbeResult{OK: true}, StatusOK},
		{"not found", readiness.ProbeResult{Status: 404, Err: errors.New("unexpected status 404")}, StatusWarning},
		{"server error", readiness.ProbeResult{Status: 503, Err: errors.New("unexpected status 503")}, StatusWarning},
		{"refused", readiness.ProbeResult{Err: errors.New("connection refused")}, StatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.pr); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVerify(t *testing.T) {
	srv := testutil.StatusServer(t, map[string]int{"/docs": http.StatusNotFound})

	endpoints := []string{
		srv.URL + "/",
		srv.URL + "/docs",
		"http://" + testutil.ClosedAddr(t) + "/health",
		"ftp://example.com",
	}

	results := Verify(context.Background(), endpoints, time.Second)
	if len(results) != len(endpoints) {
		t.Fatalf("got %d results, want %d", len(results), len(endpoints))
	}

	want := []Status{StatusOK, StatusWarning, StatusFailed, StatusFailed}
	for i, r := range results {
		if r.Status != want[i] {
			t.Errorf("results[%d] (%s) = %q, want %q", i, r.Target, r.Status, want[i])
		}
		if r.Target != endpoints[i] {
			t.Errorf("results[%d].Target = %q, want %q", i, r.Target, endpoints[i])
		}
	}
	if results[1].Code != http.StatusNotFound {
		t.Errorf("Code = %d, want 404", results[1].Code)
	}

	s := Summarize(results)
	if s.OK != 1 || s.Warning != 1 || s.Failed != 2 {
		t.Errorf("Summarize() = %+v", s)
	}
	if s.String() != "1 ok, 1 warning, 2 failed" {
		t.Errorf("Summary.String() = %q", s.String())
	}
}

func TestVerify_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := Verify(ctx, []string{"http://localhost:8000/"}, time.Second)
	if len(results) != 0 {
		t.Errorf("cancelled verify should stop, got %d results", len(results))
	}
}

func TestReport(t *testing.T) {
	var out, errOut bytes.Buffer
	restore := logging.SetOutput(&out, &errOut)
	defer restore()

	Report([]EndpointResult{
		{Target: "http://localhost:8000/", Status: StatusOK, Code: 200},
		{Target: "http://localhost:8000/docs", Status: StatusWarning, Code: 404},
		{Target: "http://localhost:8000/health", Status: StatusFailed, Err: errors.New("connection refused")},
	})

	if !strings.Contains(out.String(), "http://localhost:8000/ is accessible") {
		t.Errorf("stdout = %q", out.String())
	}
	if !strings.Contains(errOut.String(), "returned status 404") {
		t.Errorf("stderr missing warning: %q", errOut.String())
	}
	if !strings.Contains(errOut.String(), "connection refused") {
		t.Errorf("stderr missing failure: %q", errOut.String())
	}
}

func TestCheckPrerequisites(t *testing.T) {
	l := testutil.Listener(t)

	prereqs := []config.Prerequisite{
		{Name: "PostgreSQL", Target: l.Addr().String()},
		{Name: "Redis", Target: testutil.ClosedAddr(t)},
		{Name: "Broken", Target: "nowhere"},
	}

	results := CheckPrerequisites(context.Background(), prereqs, time.Second)
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if !results[0].Reachable {
		t.Errorf("%s should be reachable: %v", results[0].Name, results[0].Err)
	}
	if results[1].Reachable || results[1].Err == nil {
		t.Errorf("%s should be unreachable", results[1].Name)
	}
	if results[2].Reachable || results[2].Err == nil {
		t.Errorf("%s should report an invalid target", results[2].Name)
	}

	var out, errOut bytes.Buffer
	restore := logging.SetOutput(&out, &errOut)
	defer restore()
	ReportPrerequisites(results)

	if !strings.Contains(out.String(), "PostgreSQL is reachable") {
		t.Errorf("stdout = %q", out.String())
	}
	if !strings.Contains(errOut.String(), "Redis is not reachable") {
		t.Errorf("stderr = %q", errOut.String())
	}
}
