// Package resilience provides retry with exponential backoff and a circuit
// breaker for calls to the note vault.
//
// Retry re-runs idempotent requests on transient failures. The breaker makes
// a batch of uploads fail fast once the vault has stopped answering:
//
//	cb := resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("vault"))
//	err := cb.Execute(func() error {
//	    _, err := resilience.Retry(ctx, policy.Config(isTransient), upload)
//	    return err
//	})
//
// The transcription call is never routed through this package.
package resilience
