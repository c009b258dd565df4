// Package installer runs the dependency installation steps of a launch
// plan, in order, before any service is started.
//
// Each step is a single command run in its directory without a shell. A
// step may name a manifest that must exist and a prerequisite command that
// must succeed first. Failures of optional steps are reported as warnings;
// any other failure stops the run.
package installer
