// Package action implements the action protocol (graph.Action), the
// conditional execute-only-if-touched wrapper that makes builds
// incremental, and a small library of bundled actions (shell commands,
// directory creation, C++ and Go compile/link steps).
package action
