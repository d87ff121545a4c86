// Package project builds the in-memory model of one project description:
// items with layered property tables (type defaults, conditional overrides,
// per-item customization) and the project's own macro bindings, then resolves
// every identity and property value through the substitution engine until no
// token of either kind remains.
package project
