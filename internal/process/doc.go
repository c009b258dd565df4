// Package process starts and stops the child processes of a run.
//
// A Controller launches each service with stdin detached and its combined
// output captured to a log file, then tracks it until terminated. Stopping
// is a single SIGTERM per process: there is no kill escalation and no wait
// for the child to exit. Every child is reaped by a background goroutine.
package process
