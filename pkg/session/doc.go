/*
Package session implements session management for hosts that drive many
wizards at once (the HTTP server and the MCP server).

A session is a flow name plus a domain.Snapshot kept in a ports.SessionStore.
Every access rebuilds the wizard from the flow definition and the snapshot,
applies the change and saves the new snapshot, all while holding a
per-session lock. Locks are reference counted and released when unused.
*/
package session
