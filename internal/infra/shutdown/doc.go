// Package shutdown provides graceful shutdown for ConsoleGate.
//
// This package handles process termination:
//
//   - Signal handling (SIGINT, SIGTERM)
//   - Direct teardown for the idle-exit path
//   - Timeout-based forced shutdown
//   - Cleanup callback registration in reverse order
//
// Usage:
//
//	h := shutdown.NewHandler(10 * time.Second)
//	h.OnShutdown(srv.Close)
//	select {
//	case <-h.Signal():
//	case <-idleExit:
//	}
//	err := h.Shutdown()
package shutdown
