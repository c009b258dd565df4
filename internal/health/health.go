package health

import (
	"context"
	"fmt"
	"time"

	"github.com/firefly-engineering/firefly-launch/internal/config"
	"github.com/firefly-engineering/firefly-launch/internal/logging"
	"github.com/firefly-engineering/firefly-launch/internal/readiness"
)

// Status represents the outcome of a one-shot endpoint check
type Status string

const (
	StatusOK      Status = "ok"
	StatusWarning Status = "warning"
	StatusFailed  Status = "failed"
)

// EndpointResult is the result of probing one endpoint once
type EndpointResult struct {
	Target string
	Status Status
	// Code is the HTTP status, 0 when no response was received.
	Code     int
	Err      error
	Duration time.Duration
}

// Classify maps a probe result to a Status. A response other than 200 is a
// warning; no response at all is a failure.
func Classify(pr readiness.ProbeResult) Status {
	switch {
	case pr.OK:
		return StatusOK
	case pr.Status != 0:
		return StatusWarning
	default:
		return StatusFailed
	}
}

// CheckEndpoint probes once and classifies the result.
func CheckEndpoint(ctx context.Context, probe readiness.Probe) EndpointResult {
	start := time.Now()
	pr := probe.Probe(ctx)
	return EndpointResult{
		Target:   probe.Target(),
		Status:   Classify(pr),
		Code:     pr.Status,
		Err:      pr.Err,
		Duration: time.Since(start),
	}
}

// Verify probes each endpoint once, in order. Unparseable endpoints are
// reported as failed.
func Verify(ctx context.Context, endpoints []string, probeTimeout time.Duration) []EndpointResult {
	results := make([]EndpointResult, 0, len(endpoints))
	for _, endpoint := range endpoints {
		if ctx.Err() != nil {
			break
		}
		probe, err := readiness.ParseTarget(endpoint, probeTimeout)
		if err != nil {
			results = append(results, EndpointResult{Target: endpoint, Status: StatusFailed, Err: err})
			continue
		}
		res := CheckEndpoint(ctx, probe)
		logging.Debug("endpoint checked", "target", res.Target, "status", res.Status, "code", res.Code, "duration", res.Duration)
		results = append(results, res)
	}
	return results
}

// Report prints one status line per endpoint result.
func Report(results []EndpointResult) {
	for _, r := range results {
		switch r.Status {
		case StatusOK:
			logging.UserSuccess("%s is accessible", r.Target)
		case StatusWarning:
			logging.UserWarning("%s returned status %d", r.Target, r.Code)
		default:
			logging.UserError("%s is not accessible: %v", r.Target, r.Err)
		}
	}
}

// Summary counts results by status.
type Summary struct {
	OK      int
	Warning int
	Failed  int
}

// Summarize counts results by status.
func Summarize(results []EndpointResult) Summary {
	var s Summary
	for _, r := range results {
		switch r.Status {
		case StatusOK:
			s.OK++
		case StatusWarning:
			s.Warning++
		default:
			s.Failed++
		}
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("%d ok, %d warning, %d failed", s.OK, s.Warning, s.Failed)
}

// PrerequisiteResult is the result of checking one external prerequisite
type PrerequisiteResult struct {
	Name      string
	Target    string
	Reachable bool
	Err       error
}

// CheckPrerequisites probes each prerequisite once. Results are
// informational; a missing prerequisite never stops a run.
func CheckPrerequisites(ctx context.Context, prereqs []config.Prerequisite, probeTimeout time.Duration) []PrerequisiteResult {
	results := make([]PrerequisiteResult, 0, len(prereqs))
	for _, p := range prereqs {
		res := PrerequisiteResult{Name: p.Name, Target: p.Target}
		probe, err := readiness.ParseTarget(p.Target, probeTimeout)
		if err != nil {
			res.Err = err
		} else {
			pr := probe.Probe(ctx)
			res.Reachable = pr.OK
			res.Err = pr.Err
		}
		results = append(results, res)
	}
	return results
}

// ReportPrerequisites prints one status line per prerequisite.
func ReportPrerequisites(results []PrerequisiteResult) {
	for _, r := range results {
		if r.Reachable {
			logging.UserSuccess("%s is reachable at %s", r.Name, r.Target)
			continue
		}
		logging.UserWarning("%s is not reachable at %s. Make sure it is running.", r.Name, r.Target)
		logging.Debug("prerequisite check failed", "name", r.Name, "target", r.Target, "error", r.Err)
	}
}
