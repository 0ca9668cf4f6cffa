package config

import (
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"
)

func TestSandboxLuaVM(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr bool
		errMsg  string
	}{
		// Safe operations that should work
		{
			name: "string operations allowed",
			code: `x = string.lower("KIRO") .. "/steering"`,
		},
		{
			name: "table operations allowed",
			code: `t = {".kiro", "steering"}; x = table.concat(t, "/")`,
		},
		{
			name: "math operations allowed",
			code: `x = math.floor(90.5)`,
		},
		{
			name: "basic functions allowed",
			code: `x = type("hello"); y = tostring(123); z = tonumber("456")`,
		},

		// Operations that reach outside the VM
		{
			name:    "os.execute blocked",
			code:    `os.execute("ls")`,
			wantErr: true,
			errMsg:  "attempt to index",
		},
		{
			name:    "os.getenv blocked",
			code:    `x = os.getenv("HOME")`,
			wantErr: true,
			errMsg:  "attempt to index",
		},
		{
			name:    "io.open blocked",
			code:    `f = io.open("/etc/passwd")`,
			wantErr: true,
			errMsg:  "attempt to index",
		},
		{
			name:    "require blocked",
			code:    `socket = require("socket")`,
			wantErr: true,
			errMsg:  "attempt to call",
		},
		{
			name:    "dofile blocked",
			code:    `dofile("/tmp/evil.lua")`,
			wantErr: true,
			errMsg:  "attempt to call",
		},
		{
			name:    "loadfile blocked",
			code:    `f = loadfile("/tmp/evil.lua")`,
			wantErr: true,
			errMsg:  "attempt to call",
		},
		{
			name:    "load blocked",
			code:    `f = load("return 1+1")`,
			wantErr: true,
			errMsg:  "attempt to call",
		},
		{
			name:    "loadstring blocked",
			code:    `f = loadstring("return 1+1")`,
			wantErr: true,
			errMsg:  "attempt to call",
		},
		{
			name:    "debug blocked",
			code:    `debug.getinfo(1)`,
			wantErr: true,
			errMsg:  "attempt to index",
		},
		{
			name:    "package.loaded.os.execute blocked",
			code:    `package.loaded.os.execute("true")`,
			wantErr: true,
			errMsg:  "attempt to index",
		},
		{
			name:    "package.loaded.io.open blocked",
			code:    `f = package.loaded.io.open("/tmp/aidlc-sandbox", "w")`,
			wantErr: true,
			errMsg:  "attempt to index",
		},
		{
			name:    "_G.package blocked",
			code:    `x = _G.package.loaded`,
			wantErr: true,
			errMsg:  "attempt to index",
		},
		{
			name:    "setfenv blocked",
			code:    `setfenv(1, {})`,
			wantErr: true,
			errMsg:  "attempt to call",
		},
		{
			name:    "collectgarbage blocked",
			code:    `collectgarbage("collect")`,
			wantErr: true,
			errMsg:  "attempt to call",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			L := newSandboxedVM()
			defer L.Close()

			err := L.DoString(tt.code)
			if (err != nil) != tt.wantErr {
				t.Errorf("sandboxLuaVM() with code %q: error = %v, wantErr %v", tt.code, err, tt.wantErr)
				return
			}

			if tt.wantErr && err != nil && tt.errMsg != "" {
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("sandboxLuaVM() with code %q: error = %v, want substring %q", tt.code, err, tt.errMsg)
				}
			}
		})
	}
}

func TestSandboxedVM_OnlySafeLibraries(t *testing.T) {
	L := newSandboxedVM()
	defer L.Close()

	for _, name := range []string{"os", "io", "debug", "package", "coroutine", "channel"} {
		if v := L.GetGlobal(name); v != lua.LNil {
			t.Errorf("global %s = %v, want nil", name, v)
		}
	}
	for _, name := range []string{"string", "table", "math", "pairs", "tostring"} {
		if v := L.GetGlobal(name); v == lua.LNil {
			t.Errorf("global %s is nil, want it available", name)
		}
	}

	// String methods resolve through the string metatable.
	if err := L.DoString(`x = ("KIRO"):lower()`); err != nil {
		t.Fatalf("string method call failed: %v", err)
	}
	if got := L.GetGlobal("x"); got != lua.LString("kiro") {
		t.Errorf("x = %v, want kiro", got)
	}
}
