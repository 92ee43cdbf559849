// Package lua lets Lua scripts register event handlers on a dispatcher.
//
// A Host owns one sandboxed State and exposes a "scribe" module to the
// scripts it loads, both as a global and through require:
//
//	local h = scribe.on("key.down", { char = scribe.char() }, function(ev)
//	    scribe.log("typed " .. ev.char)
//	end)
//	scribe.on("key.down", "Ctrl+S", function() h:mute() end)
//	scribe.on("quit", nil, function() scribe.log("bye") end)
//
// Patterns are nil (match every event of the kind), a key specification
// string for "key.down", or a table whose fields are literals or matchers
// built with scribe.char, scribe.grapheme, scribe.printable and
// scribe.predicate. Handlers receive the event as a table with a kind
// field and one field per event trait.
//
// gopher-lua states are not goroutine-safe. Scripts, callbacks and
// predicates all run under the State mutex, and callbacks must not cause
// the dispatcher to handle another event.
package lua
