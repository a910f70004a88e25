// Package dispatcher routes textual command lines to handlers.
//
// # Registry
//
// A Registry maps case-sensitive command names to handlers. Registering a
// name twice replaces the handler. Each registration with a description
// appends a help entry; help entries are never removed by Unregister, so
// HelpEntries may name commands that are no longer live. Describe returns
// the live view used by the help command.
//
// # Dispatch
//
// Dispatch splits a line with shell-like quoting, resolves the first token
// and calls the handler with the remaining tokens:
//
//	reg := dispatcher.NewRegistry()
//	handlers.RegisterBuiltins(reg)
//	d := dispatcher.NewWithDefaults(reg, execctx.New(calc))
//	cont, out := d.Dispatch(`add 2 3`)
//
// Unknown names produce an "unknown command" message, handler failures
// produce "error: <message>" and handler panics are recovered. Only the
// exit command ends the session.
//
// # Subpackages
//
//   - handler: Handler interface and Result type
//   - execctx: the session state handed to handlers
//   - handlers: the built-in commands
package dispatcher
