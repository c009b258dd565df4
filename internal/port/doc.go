// Package port checks whether a service's port is already taken before
// the service is launched.
//
// A backend started while another process holds its port usually exits
// immediately, and the readiness wait then succeeds against the wrong
// process. The orchestrator calls Check before each launch and warns
// when the port answers:
//
//	if addr, busy := port.Check(ctx, "http://localhost:8000/health"); busy {
//		// addr == "localhost:8000"
//	}
//
// Address maps readiness targets to host:port. URLs without an explicit
// port use 80 for http and 443 for https. Bare ":8000" targets resolve
// to localhost.
package port
