// Package lua lets Lua scripts add calculator commands.
//
// # State
//
// State wraps a gopher-lua runtime with a sandbox and a per-call timeout:
//
//	state, err := lua.NewState(lua.WithExecutionTimeout(time.Second))
//	if err != nil {
//	    return err
//	}
//	defer state.Close()
//
// Only the base, table, string and math libraries are opened. dofile,
// loadfile, load, loadstring and require are removed, and print writes to
// the plugin logger.
//
// # Host
//
// Host exposes two globals to scripts:
//
//	register(name, description, fn)  -- add a command
//	calc(op, a, b)                   -- run an operation, returns the result
//
// A registered fn receives a table of string arguments and returns the
// text to show. Returning nil plus a message reports an error:
//
//	register("double", "double a number", function(args)
//	  if #args ~= 1 then return nil, "usage: double <n>" end
//	  return tostring(calc("multiply", tonumber(args[1]), 2))
//	end)
//
// LoadDir runs every *.lua file of a directory in name order.
package lua
