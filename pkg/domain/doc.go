/*
Package domain contains the core types of the onboarding engine.

It defines the step definitions a flow is built from, the answer values a user
produces, and the events the engine emits while a flow is driven. This package is
kept pure and free of external dependencies like I/O or persistence, following
Hexagonal Architecture principles.

# Key Entities

  - Step: One screen of the questionnaire (id, type, options, completion rule).
  - Answer: Closed tagged union (String, Number, List, Opaque) holding a step's value.
  - Answers: Immutable snapshot of committed answers, keyed by step id.
  - Flow: An ordered list of steps plus presentation hints (Theme) opaque to the core.
  - View: A render-ready description of the current position, consumed by adapters.
*/
package domain
