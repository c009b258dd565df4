// Package config builds the launch plan for a run.
//
// A plan starts from a built-in preset ("complete" or "setup"), is
// optionally overlaid by a TOML launch file and finally by LAUNCH_*
// environment variables:
//
//	preset = "setup"
//
//	[backend]
//	command = "node mock-backend.js"
//	target  = "http://localhost:8000"
//	timeout = "10s"
//
//	[[install]]
//	name     = "backend"
//	command  = "pip install -r backend/requirements.txt"
//	requires = "python --version"
//	optional = true
//
// Commands are written as shell-style strings and split into argv without
// invoking a shell. Working directories are always resolved inside the
// project root.
package config
