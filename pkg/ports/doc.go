/*
Package ports defines the driven ports (interfaces) of the onboarding engine.

These interfaces decouple the hosts (CLI, HTTP, MCP) from where flow documents
come from and where in-progress sessions are kept.

# Key Interfaces

  - FlowLoader: Responsible for loading raw flow documents (e.g., from a directory, embedded presets or memory).
  - SessionStore: Responsible for keeping session Snapshots between requests.
*/
package ports
