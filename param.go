package slurmexec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// ParamType identifies the declared type of a job parameter.
type ParamType int

const (
	// ParamString is the zero value; parameters declared without a type
	// are accepted as plain strings.
	ParamString ParamType = iota
	ParamInt
	ParamFloat
	ParamBool
	ParamChoice
)

func (t ParamType) String() string {
	switch t {
	case ParamInt:
		return "int"
	case ParamFloat:
		return "float"
	case ParamBool:
		return "bool"
	case ParamChoice:
		return "choice"
	default:
		return "string"
	}
}

// Param describes a single job parameter. Each parameter becomes one
// command-line flag named --<Name>. A nil Default marks the parameter
// as required.
type Param struct {
	Name    string    // Flag name (without leading dashes)
	Type    ParamType // Declared type; zero value is ParamString
	Default any       // Typed default value; nil means required
	Choices []string  // Allowed values, ParamChoice only
	Help    string    // Usage text appended to the generated help
}

// Required reports whether the parameter has no default and therefore
// must be supplied on the command line.
func (p Param) Required() bool {
	return p.Default == nil
}

// reservedFlags are consumed by Exec itself and never passed to the job
// function. Job parameters must not collide with them.
var reservedFlags = map[string]bool{
	"job-name":      true,
	"script-dir":    true,
	"parallel-jobs": true,
}

// choiceValue is a pflag.Value restricted to a fixed set of strings.
type choiceValue struct {
	value   string
	choices []string
}

func newChoiceValue(def string, choices []string) *choiceValue {
	return &choiceValue{value: def, choices: choices}
}

func (c *choiceValue) String() string { return c.value }

func (c *choiceValue) Type() string { return "choice" }

func (c *choiceValue) Set(v string) error {
	for _, allowed := range c.choices {
		if v == allowed {
			c.value = v
			return nil
		}
	}
	return fmt.Errorf("%w: %q (allowed: %s)", ErrInvalidChoice, v, strings.Join(c.choices, ", "))
}

// buildFlagSet derives a pflag.FlagSet from a parameter list. This is a
// pure transformation from descriptors to CLI schema; it touches no
// process state.
func buildFlagSet(name string, params []Param) (*pflag.FlagSet, error) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)

	seen := make(map[string]bool, len(params))
	for _, p := range params {
		if p.Name == "" {
			return nil, fmt.Errorf("parameter with empty name in job %s", name)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("%w: --%s", ErrDuplicateParam, p.Name)
		}
		if reservedFlags[p.Name] {
			return nil, fmt.Errorf("%w: --%s", ErrReservedParam, p.Name)
		}
		seen[p.Name] = true

		help := p.Help
		if help == "" {
			if p.Required() {
				help = fmt.Sprintf("(*%s, required)", p.Type)
			} else {
				help = fmt.Sprintf("(%s, default: %v)", p.Type, p.Default)
			}
		}

		switch p.Type {
		case ParamString:
			def, err := stringDefault(p)
			if err != nil {
				return nil, err
			}
			fs.String(p.Name, def, help)

		case ParamInt:
			def, err := intDefault(p)
			if err != nil {
				return nil, err
			}
			fs.Int(p.Name, def, help)

		case ParamFloat:
			def, err := floatDefault(p)
			if err != nil {
				return nil, err
			}
			fs.Float64(p.Name, def, help)

		case ParamBool:
			def, err := boolDefault(p)
			if err != nil {
				return nil, err
			}
			fs.Bool(p.Name, def, help)
			// A bare --flag (no value) flips the declared default, so a
			// bool that defaults to false turns on with just its name.
			fs.Lookup(p.Name).NoOptDefVal = strconv.FormatBool(!def)

		case ParamChoice:
			def, err := stringDefault(p)
			if err != nil {
				return nil, err
			}
			if len(p.Choices) == 0 {
				return nil, fmt.Errorf("choice parameter --%s has no choices", p.Name)
			}
			fs.Var(newChoiceValue(def, p.Choices), p.Name, help)

		default:
			return nil, fmt.Errorf("parameter --%s has unknown type %d", p.Name, p.Type)
		}
	}

	return fs, nil
}

func stringDefault(p Param) (string, error) {
	if p.Default == nil {
		return "", nil
	}
	v, ok := p.Default.(string)
	if !ok {
		return "", fmt.Errorf("%w: --%s wants string, got %T", ErrInvalidDefault, p.Name, p.Default)
	}
	return v, nil
}

func intDefault(p Param) (int, error) {
	if p.Default == nil {
		return 0, nil
	}
	switch v := p.Default.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("%w: --%s wants int, got %T", ErrInvalidDefault, p.Name, p.Default)
	}
}

func floatDefault(p Param) (float64, error) {
	if p.Default == nil {
		return 0, nil
	}
	switch v := p.Default.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("%w: --%s wants float, got %T", ErrInvalidDefault, p.Name, p.Default)
	}
}

func boolDefault(p Param) (bool, error) {
	if p.Default == nil {
		// Bool parameters are never required; an absent flag simply
		// keeps the default.
		return false, nil
	}
	v, ok := p.Default.(bool)
	if !ok {
		return false, fmt.Errorf("%w: --%s wants bool, got %T", ErrInvalidDefault, p.Name, p.Default)
	}
	return v, nil
}

// Args provides typed access to the parsed parameter values of a job
// invocation.
type Args struct {
	fs *pflag.FlagSet
}

// parseArgs parses argv against the flag set and enforces required
// parameters. argv must already be stripped of unknown flags.
func parseArgs(fs *pflag.FlagSet, params []Param, argv []string) (*Args, error) {
	if err := fs.Parse(argv); err != nil {
		return nil, err
	}
	for _, p := range params {
		if p.Type == ParamBool {
			continue
		}
		if p.Required() && !fs.Changed(p.Name) {
			return nil, fmt.Errorf("%w: --%s", ErrMissingRequired, p.Name)
		}
	}
	return &Args{fs: fs}, nil
}

// String returns the value of a string or choice parameter.
func (a *Args) String(name string) string {
	f := a.fs.Lookup(name)
	if f == nil {
		return ""
	}
	return f.Value.String()
}

// Int returns the value of an int parameter.
func (a *Args) Int(name string) int {
	v, _ := a.fs.GetInt(name)
	return v
}

// Float64 returns the value of a float parameter.
func (a *Args) Float64(name string) float64 {
	v, _ := a.fs.GetFloat64(name)
	return v
}

// Bool returns the value of a bool parameter.
func (a *Args) Bool(name string) bool {
	v, _ := a.fs.GetBool(name)
	return v
}

// Changed reports whether the parameter was set explicitly on the
// command line (as opposed to taking its default).
func (a *Args) Changed(name string) bool {
	return a.fs.Changed(name)
}
