// Package lua hosts plugin scripts on the gopher-lua runtime.
package lua

import (
	"fmt"
	"sync"

	glua "github.com/yuin/gopher-lua"
)

// State wraps a gopher-lua LState for plugin execution.
//
// An LState is not goroutine-safe; the mutex serializes access from Go.
// Each plugin owns exactly one State for its whole lifetime, so commands
// contributed by a plugin share the script's globals.
type State struct {
	L *glua.LState

	mu     sync.Mutex
	closed bool
}

// NewState creates a Lua state with only the safe standard libraries
// opened: base, table, string and math. io, os and debug are withheld.
func NewState() *State {
	L := glua.NewState(glua.Options{SkipOpenLibs: true})

	glua.OpenBase(L)
	glua.OpenTable(L)
	glua.OpenString(L)
	glua.OpenMath(L)

	return &State{L: L}
}

// DoFile executes a Lua file, recovering VM panics into errors.
func (s *State) DoFile(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}
	return s.recovered(func() error {
		return s.L.DoFile(path)
	})
}

// Global returns a global variable value.
func (s *State) Global(name string) glua.LValue {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return glua.LNil
	}
	return s.L.GetGlobal(name)
}

// CallFunction calls a Lua function value with the given arguments and
// returns its first result.
func (s *State) CallFunction(fn glua.LValue, args ...glua.LValue) (glua.LValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return glua.LNil, ErrStateClosed
	}
	if fn == nil || fn.Type() != glua.LTFunction {
		return glua.LNil, fmt.Errorf("not a function (got %s)", luaTypeName(fn))
	}

	var ret glua.LValue = glua.LNil
	err := s.recovered(func() error {
		if err := s.L.CallByParam(glua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
			return err
		}
		ret = s.L.Get(-1)
		s.L.Pop(1)
		return nil
	})
	return ret, err
}

// StringArray builds a Lua array table from a string slice.
func (s *State) StringArray(values []string) *glua.LTable {
	s.mu.Lock()
	defer s.mu.Unlock()

	tbl := s.L.NewTable()
	for _, v := range values {
		tbl.Append(glua.LString(v))
	}
	return tbl
}

// SetPackagePath opens the package library if needed and points
// package.path at the given pattern. The returned restore function puts
// the previous path back and must run on every exit path of the load.
func (s *State) SetPackagePath(pattern string) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStateClosed
	}

	pkg := s.L.GetGlobal(glua.LoadLibName)
	if pkg == glua.LNil {
		glua.OpenPackage(s.L)
		pkg = s.L.GetGlobal(glua.LoadLibName)
	}
	tbl, ok := pkg.(*glua.LTable)
	if !ok {
		return nil, fmt.Errorf("package library unavailable")
	}

	prev := s.L.GetField(tbl, "path")
	s.L.SetField(tbl, "path", glua.LString(pattern))

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			return
		}
		s.L.SetField(tbl, "path", prev)
	}, nil
}

// IsClosed reports whether the state has been closed.
func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases the Lua state. Safe to call more than once.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}

func (s *State) recovered(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

func luaTypeName(v glua.LValue) string {
	if v == nil {
		return "nil"
	}
	return v.Type().String()
}
