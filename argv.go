package slurmexec

import (
	"regexp"
	"strings"

	"github.com/spf13/pflag"
)

// splitKnownArgs partitions a raw argument list into tokens the flag set
// recognizes and tokens it does not. Unknown flags (and their paired
// values) are later forwarded verbatim as sbatch directive overrides.
//
// This is a pure string-list transformation so it can be tested without
// touching the live process argument vector.
func splitKnownArgs(fs *pflag.FlagSet, argv []string) (known []string, unknown []string) {
	// Flags that take a separate value token. Bool flags have a
	// NoOptDefVal and only accept the --flag=value form.
	takesValue := make(map[string]bool)
	fs.VisitAll(func(f *pflag.Flag) {
		takesValue[f.Name] = f.NoOptDefVal == ""
	})

	for i := 0; i < len(argv); i++ {
		tok := argv[i]
		if !strings.HasPrefix(tok, "-") || tok == "-" {
			known = append(known, tok)
			continue
		}

		if strings.HasPrefix(tok, "--") {
			name := strings.TrimPrefix(tok, "--")
			hasInlineValue := false
			if idx := strings.Index(name, "="); idx >= 0 {
				name = name[:idx]
				hasInlineValue = true
			}

			if _, ok := takesValue[name]; ok {
				known = append(known, tok)
				if !hasInlineValue && takesValue[name] && i+1 < len(argv) {
					i++
					known = append(known, argv[i])
				}
				continue
			}

			// Unknown flag: keep it together with its value token, if any.
			unknown = append(unknown, tok)
			if !hasInlineValue && i+1 < len(argv) && !strings.HasPrefix(argv[i+1], "-") {
				i++
				unknown = append(unknown, argv[i])
			}
			continue
		}

		// Short flag. Derived schemas only register long flags, but check
		// the shorthand table so registered shorthands still parse. sbatch's
		// common flags are short (-p, -N, -t), so an unrecognized one is
		// forwarded as a directive rather than handed to pflag to reject.
		name := strings.TrimPrefix(tok, "-")
		hasInlineValue := strings.Contains(name, "=")
		if f := fs.ShorthandLookup(name[:1]); f != nil {
			known = append(known, tok)
			if !hasInlineValue && f.NoOptDefVal == "" && i+1 < len(argv) {
				i++
				known = append(known, argv[i])
			}
			continue
		}
		unknown = append(unknown, tok)
		if !hasInlineValue && i+1 < len(argv) && !strings.HasPrefix(argv[i+1], "-") {
			i++
			unknown = append(unknown, argv[i])
		}
	}
	return known, unknown
}

// pairOverrides converts forwarded unknown tokens into ordered sbatch
// directives. Tokens are interpreted pairwise (--flag value or -f value);
// a flag with an inline =value or without a following value becomes a
// single directive.
func pairOverrides(unknown []string) []Directive {
	var out []Directive
	for i := 0; i < len(unknown); i++ {
		tok := unknown[i]
		if idx := strings.Index(tok, "="); idx >= 0 && strings.HasPrefix(tok, "-") {
			out = append(out, Directive{Key: tok[:idx], Value: tok[idx+1:]})
			continue
		}
		if i+1 < len(unknown) && !strings.HasPrefix(unknown[i+1], "-") {
			out = append(out, Directive{Key: tok, Value: unknown[i+1]})
			i++
			continue
		}
		out = append(out, Directive{Key: tok})
	}
	return out
}

// reinvokeArgs reconstructs the command-line arguments that replay the
// parsed parameter values inside the scheduled job. Every parameter is
// emitted explicitly, defaults included, so the worker invocation does
// not depend on defaults staying in sync across code versions.
func reinvokeArgs(params []Param, args *Args) []string {
	out := make([]string, 0, len(params)*2)
	for _, p := range params {
		value := args.String(p.Name)
		if p.Type == ParamBool {
			// Bool flags only accept the inline form.
			out = append(out, "--"+p.Name+"="+value)
			continue
		}
		out = append(out, "--"+p.Name, shellQuote(value))
	}
	return out
}

var shellSafeRe = regexp.MustCompile(`^[A-Za-z0-9_@%+=:,./-]+$`)

// shellQuote single-quotes a token unless it is already shell-safe.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if shellSafeRe.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
