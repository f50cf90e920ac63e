// Package health serves liveness and readiness probes for "verity watch".
//
// # Endpoints
//
//   - /healthz: liveness, 200 while the process runs
//   - /ready: readiness, 200 when every registered check passes, 503 otherwise
//   - /version: build information
//
// Readiness checks run concurrently, each bounded by the checker timeout.
// Watch mode registers a check that the rule file still parses and, for
// the sqlite backend, a check that the report database answers:
//
//	checker := health.New(2 * time.Second)
//	checker.RegisterCheck("rules", func(ctx context.Context) error {
//	    _, err := ruleset.Load(rulesPath)
//	    return err
//	})
//	checker.RegisterCheck("storage", health.PingCheck(store))
//
//	mux := http.NewServeMux()
//	checker.Register(mux, health.VersionInfo{Version: version})
package health
