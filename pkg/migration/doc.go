// Package migration defines the contract for the external schema migration
// engine.
//
// The engine itself (schema diffing, changelog application, tagging) lives
// outside this repository. Callers only ever see a Client, opened through an
// Opener, so the hook and the diff runner do not care whether the engine is
// driven through a subprocess, a sidecar service or a native binding. See
// package liquibase for the implementation shipped with zsdeploy.
package migration
