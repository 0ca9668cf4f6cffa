package config

import (
	lua "github.com/yuin/gopher-lua"
)

// sandboxLibs are the only standard libraries opened in a config VM. The
// package library is never opened, so package.loaded cannot hand out os
// or io.
var sandboxLibs = []struct {
	name string
	open lua.LGFunction
}{
	{lua.BaseLibName, lua.OpenBase},
	{lua.TabLibName, lua.OpenTable},
	{lua.StringLibName, lua.OpenString},
	{lua.MathLibName, lua.OpenMath},
}

// sandboxLuaVM strips the base functions that load code or reach outside
// the VM. It also clears the globals of libraries a caller might have
// opened.
func sandboxLuaVM(L *lua.LState) {
	for _, name := range []string{
		"os",
		"io",
		"debug",
		"package",
		"channel",
		"coroutine",
		"require",
		"module",
		"dofile",
		"loadfile",
		"load",
		"loadstring",
		"collectgarbage",
		"getfenv",
		"setfenv",
	} {
		L.SetGlobal(name, lua.LNil)
	}
}

// newSandboxedVM creates a Lua state with only base, table, string and
// math opened, the sandbox applied and a bounded call stack.
func newSandboxedVM() *lua.LState {
	L := lua.NewState(lua.Options{
		CallStackSize:       256,
		RegistrySize:        1024 * 8,
		SkipOpenLibs:        true,
		IncludeGoStackTrace: false,
	})

	for _, lib := range sandboxLibs {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}

	sandboxLuaVM(L)
	return L
}
