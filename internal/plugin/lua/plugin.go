package lua

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	glua "github.com/yuin/gopher-lua"

	"github.com/calcsh/calcsh/internal/command"
)

// EntryFile is the entry point of a directory-form plugin.
const EntryFile = "init.lua"

// Plugin is a calculator plugin implemented as a Lua script. The script
// must assign a global table named "plugin":
//
//	plugin = {
//	  name = "Extra Stats",
//	  version = "1.0.0",
//	  description = "...",
//	  commands = {
//	    { name = "mean2", help = "mean2 <n...> - ...", exec = function(args) ... end },
//	  },
//	  init = function() return true end,      -- optional
//	  cleanup = function() return true end,   -- optional
//	}
//
// exec receives the command arguments as an array of strings and returns
// a number or a string. Calling error("msg") reports a recoverable input
// error to the user.
type Plugin struct {
	st *State

	name        string
	version     string
	description string
	path        string

	commands  []command.Command
	initFn    glua.LValue
	cleanupFn glua.LValue
}

// Open loads the script at path and binds the plugin table. path is
// either a single .lua file or a directory containing init.lua; in the
// directory form, package.path is extended to the plugin directory for
// the duration of the load only.
func Open(path string) (p *Plugin, err error) {
	st := NewState()
	defer func() {
		if err != nil {
			_ = st.Close()
		}
	}()

	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat plugin source: %w", err)
	}

	if fi.IsDir() {
		restore, perr := st.SetPackagePath(filepath.Join(path, "?.lua"))
		if perr != nil {
			return nil, perr
		}
		func() {
			defer restore()
			err = st.DoFile(filepath.Join(path, EntryFile))
		}()
	} else {
		err = st.DoFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("executing plugin script: %w", err)
	}

	return bind(st, path)
}

// bind extracts the plugin table from the executed script.
func bind(st *State, path string) (*Plugin, error) {
	tbl, ok := st.Global("plugin").(*glua.LTable)
	if !ok {
		return nil, ErrNoPluginTable
	}

	p := &Plugin{st: st, path: path}

	var err error
	if p.name, err = stringField(tbl, "name"); err != nil {
		return nil, err
	}
	if p.version, err = stringField(tbl, "version"); err != nil {
		return nil, err
	}
	if p.description, err = stringField(tbl, "description"); err != nil {
		return nil, err
	}

	cmds, ok := tbl.RawGetString("commands").(*glua.LTable)
	if !ok {
		return nil, fmt.Errorf("plugin table has no commands array")
	}
	var cmdErr error
	cmds.ForEach(func(_, v glua.LValue) {
		if cmdErr != nil {
			return
		}
		entry, ok := v.(*glua.LTable)
		if !ok {
			cmdErr = fmt.Errorf("commands array holds a non-table entry")
			return
		}
		cmd, err := bindCommand(st, entry)
		if err != nil {
			cmdErr = err
			return
		}
		p.commands = append(p.commands, cmd)
	})
	if cmdErr != nil {
		return nil, cmdErr
	}
	if len(p.commands) == 0 {
		return nil, fmt.Errorf("plugin contributes no commands")
	}

	p.initFn = optionalFunc(tbl, "init")
	p.cleanupFn = optionalFunc(tbl, "cleanup")
	return p, nil
}

func bindCommand(st *State, entry *glua.LTable) (command.Command, error) {
	name, err := stringField(entry, "name")
	if err != nil {
		return nil, fmt.Errorf("command entry: %w", err)
	}
	fn := entry.RawGetString("exec")
	if fn.Type() != glua.LTFunction {
		return nil, fmt.Errorf("command %q has no exec function", name)
	}
	help := name
	if h, err := stringField(entry, "help"); err == nil {
		help = h
	}
	return &luaCommand{st: st, name: name, help: help, fn: fn}, nil
}

// Name returns the plugin display name.
func (p *Plugin) Name() string { return p.name }

// Version returns the plugin version string.
func (p *Plugin) Version() string { return p.version }

// Description returns the plugin description.
func (p *Plugin) Description() string { return p.description }

// Commands returns the commands contributed by the script.
func (p *Plugin) Commands() []command.Command {
	out := make([]command.Command, len(p.commands))
	copy(out, p.commands)
	return out
}

// Path returns the plugin source path.
func (p *Plugin) Path() string { return p.path }

// Init runs the optional init function. A false return or a raised error
// fails the load.
func (p *Plugin) Init() error {
	return p.runHook(p.initFn, "init")
}

// Cleanup runs the optional cleanup function and closes the Lua state.
// The state is released even when the hook fails.
func (p *Plugin) Cleanup() error {
	err := p.runHook(p.cleanupFn, "cleanup")
	if cerr := p.st.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func (p *Plugin) runHook(fn glua.LValue, name string) error {
	if fn == nil {
		return nil
	}
	ret, err := p.st.CallFunction(fn)
	if err != nil {
		return fmt.Errorf("%s: %s", name, luaErrorMessage(err))
	}
	if ret == glua.LFalse {
		return fmt.Errorf("%s returned false", name)
	}
	return nil
}

// luaCommand adapts one exec function into the command contract.
type luaCommand struct {
	st   *State
	name string
	help string
	fn   glua.LValue
}

func (c *luaCommand) Name() string { return c.name }

func (c *luaCommand) Help() string { return c.help }

func (c *luaCommand) Execute(args []string) (command.Result, error) {
	ret, err := c.st.CallFunction(c.fn, c.st.StringArray(args))
	if err != nil {
		return command.Result{}, command.Usagef("%s", luaErrorMessage(err))
	}

	switch v := ret.(type) {
	case glua.LNumber:
		return command.NumberResult(float64(v)), nil
	case glua.LString:
		return command.TextResult(string(v)), nil
	default:
		return command.Result{}, command.Usagef("%s returned an unsupported value (%s)",
			c.name, luaTypeName(ret))
	}
}

func stringField(tbl *glua.LTable, key string) (string, error) {
	v, ok := tbl.RawGetString(key).(glua.LString)
	if !ok {
		return "", fmt.Errorf("plugin table field %q missing or not a string", key)
	}
	return string(v), nil
}

func optionalFunc(tbl *glua.LTable, key string) glua.LValue {
	if fn := tbl.RawGetString(key); fn.Type() == glua.LTFunction {
		return fn
	}
	return nil
}

// sourceLocation matches the "file:line:" prefix gopher-lua puts on
// runtime error messages.
var sourceLocation = regexp.MustCompile(`^\s*[^\s:]*:\d+:\s*`)

// luaErrorMessage strips VM noise so user-raised errors read cleanly.
func luaErrorMessage(err error) string {
	msg := err.Error()
	if apiErr, ok := err.(*glua.ApiError); ok {
		msg = apiErr.Object.String()
	}
	msg = sourceLocation.ReplaceAllString(msg, "")
	return strings.TrimSpace(msg)
}
