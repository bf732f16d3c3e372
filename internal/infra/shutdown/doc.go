// Package shutdown coordinates graceful process termination.
//
// Components register named hooks as they start; when SIGINT or SIGTERM
// arrives (or the context ends) the hooks run in reverse registration order
// under a shared timeout, so later components stop before the ones they
// depend on.
//
// Usage:
//
//	h := shutdown.NewHandler(10*time.Second, shutdown.WithLogger(log))
//	h.OnShutdown("store", store.Close)
//	err := h.Wait(ctx)
package shutdown
