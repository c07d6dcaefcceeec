/*
Package observability provides lifecycle hooks for monitoring wizards.

Metrics exposes Prometheus collectors (step views, validation failures,
completions, active sessions) and LoggingHooks writes every output event to a
structured logger. Both return domain.LifecycleHooks, so they can be attached to
any Wizard with onboard.WithLifecycleHooks.
*/
package observability
