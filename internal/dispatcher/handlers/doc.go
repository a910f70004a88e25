// Package handlers provides the built-in calculator commands.
//
// RegisterBuiltins installs every command into a registry: one command per
// catalog operation plus history, clear, undo, redo, save, load, export,
// import, the queue commands, help and exit.
package handlers
