// Package app contains the core application logic: configuration, the App
// lifecycle, and the run orchestration from project description to emitted
// compile-command database, decoupled from the CLI entrypoint.
package app
