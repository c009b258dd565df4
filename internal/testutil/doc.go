// Package testutil provides test fixtures and utilities.
//
// # Fixtures
//
// Launch file fixtures are embedded using go:embed:
//
//	fixtures/valid_launch.toml
//	fixtures/invalid_launch.toml
//
// WriteFixture copies one to a temp directory so it can be passed to
// config.Load:
//
//	path := testutil.WriteFixture(t, testutil.ValidLaunchFile)
//
// # Network Helpers
//
//	testutil.ClosedAddr(t)                  // host:port that refuses connections
//	testutil.Listener(t)                    // host:port that accepts connections
//	testutil.StatusServer(t, map[string]int{"/docs": 404})
//	srv, hits := testutil.FlakyServer(t, 4) // 503 three times, then 200
//
// Everything is cleaned up when the test ends.
package testutil
