package lua

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// ModuleName is the name of the module scripts use to reach the editor.
const ModuleName = "scribe"

// removedGlobals load code from outside the sandbox.
var removedGlobals = []string{"dofile", "loadfile", "load", "loadstring"}

// requirable lists the modules require may return.
var requirable = map[string]bool{
	"string":   true,
	"table":    true,
	"math":     true,
	ModuleName: true,
}

// installSandbox strips file loading from the state, restricts require to
// known modules and routes print to out when it is set.
func installSandbox(L *lua.LState, out func(string)) {
	for _, name := range removedGlobals {
		L.SetGlobal(name, lua.LNil)
	}

	if pkg, ok := L.GetGlobal("package").(*lua.LTable); ok {
		L.SetField(pkg, "path", lua.LString(""))
		L.SetField(pkg, "cpath", lua.LString(""))
	}

	original := L.GetGlobal("require")
	L.SetGlobal("require", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		if !requirable[name] {
			L.RaiseError("module %q is not available", name)
			return 0
		}
		L.Push(original)
		L.Push(lua.LString(name))
		L.Call(1, 1)
		return 1
	}))

	if out != nil {
		L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
			parts := make([]string, L.GetTop())
			for i := range parts {
				parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
			}
			out(strings.Join(parts, "\t"))
			return 0
		}))
	}
}
