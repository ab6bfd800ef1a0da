package slurmexec

import (
	"errors"
	"testing"
)

func TestBuildFlagSetTypes(t *testing.T) {
	params := []Param{
		{Name: "iters", Type: ParamInt, Default: 10},
		{Name: "rate", Type: ParamFloat, Default: 0.5},
		{Name: "label", Type: ParamString, Default: "run"},
		{Name: "verbose", Type: ParamBool, Default: false},
		{Name: "mode", Type: ParamChoice, Default: "fast", Choices: []string{"fast", "slow"}},
	}

	tests := []struct {
		name      string
		argv      []string
		wantInt   int
		wantFloat float64
		wantStr   string
		wantBool  bool
		wantMode  string
	}{
		{
			name:      "all defaults",
			argv:      nil,
			wantInt:   10,
			wantFloat: 0.5,
			wantStr:   "run",
			wantBool:  false,
			wantMode:  "fast",
		},
		{
			name:      "all overridden",
			argv:      []string{"--iters", "3", "--rate", "1.25", "--label", "alpha", "--verbose=true", "--mode", "slow"},
			wantInt:   3,
			wantFloat: 1.25,
			wantStr:   "alpha",
			wantBool:  true,
			wantMode:  "slow",
		},
		{
			name:      "inline form",
			argv:      []string{"--iters=42", "--label=beta"},
			wantInt:   42,
			wantFloat: 0.5,
			wantStr:   "beta",
			wantBool:  false,
			wantMode:  "fast",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs, err := buildFlagSet("test", params)
			if err != nil {
				t.Fatalf("buildFlagSet failed: %v", err)
			}
			args, err := parseArgs(fs, params, tt.argv)
			if err != nil {
				t.Fatalf("parseArgs failed: %v", err)
			}

			if got := args.Int("iters"); got != tt.wantInt {
				t.Errorf("iters = %d, want %d", got, tt.wantInt)
			}
			if got := args.Float64("rate"); got != tt.wantFloat {
				t.Errorf("rate = %v, want %v", got, tt.wantFloat)
			}
			if got := args.String("label"); got != tt.wantStr {
				t.Errorf("label = %q, want %q", got, tt.wantStr)
			}
			if got := args.Bool("verbose"); got != tt.wantBool {
				t.Errorf("verbose = %v, want %v", got, tt.wantBool)
			}
			if got := args.String("mode"); got != tt.wantMode {
				t.Errorf("mode = %q, want %q", got, tt.wantMode)
			}
		})
	}
}

func TestBoolFlagSemantics(t *testing.T) {
	tests := []struct {
		name string
		def  bool
		argv []string
		want bool
	}{
		{name: "default false, flag absent", def: false, argv: nil, want: false},
		{name: "default false, bare flag", def: false, argv: []string{"--myflag"}, want: true},
		{name: "default false, explicit true", def: false, argv: []string{"--myflag=true"}, want: true},
		{name: "default false, explicit false", def: false, argv: []string{"--myflag=false"}, want: false},
		{name: "default true, flag absent", def: true, argv: nil, want: true},
		{name: "default true, bare flag negates", def: true, argv: []string{"--myflag"}, want: false},
		{name: "default true, explicit true", def: true, argv: []string{"--myflag=true"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := []Param{{Name: "myflag", Type: ParamBool, Default: tt.def}}
			fs, err := buildFlagSet("test", params)
			if err != nil {
				t.Fatalf("buildFlagSet failed: %v", err)
			}
			args, err := parseArgs(fs, params, tt.argv)
			if err != nil {
				t.Fatalf("parseArgs failed: %v", err)
			}
			if got := args.Bool("myflag"); got != tt.want {
				t.Errorf("myflag = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBoolFlagRejectsMalformedValue(t *testing.T) {
	params := []Param{{Name: "myflag", Type: ParamBool, Default: false}}
	fs, err := buildFlagSet("test", params)
	if err != nil {
		t.Fatalf("buildFlagSet failed: %v", err)
	}
	if _, err := parseArgs(fs, params, []string{"--myflag=maybe"}); err == nil {
		t.Error("expected parse failure for malformed bool value")
	}
}

func TestChoiceRejectsOutsideSet(t *testing.T) {
	params := []Param{{Name: "color", Type: ParamChoice, Default: "red", Choices: []string{"red", "green", "blue"}}}
	fs, err := buildFlagSet("test", params)
	if err != nil {
		t.Fatalf("buildFlagSet failed: %v", err)
	}
	_, err = parseArgs(fs, params, []string{"--color", "purple"})
	if err == nil {
		t.Fatal("expected parse failure for value outside choice set")
	}
}

func TestRequiredParam(t *testing.T) {
	params := []Param{{Name: "input", Type: ParamString}}

	fs, err := buildFlagSet("test", params)
	if err != nil {
		t.Fatalf("buildFlagSet failed: %v", err)
	}
	if _, err := parseArgs(fs, params, nil); !errors.Is(err, ErrMissingRequired) {
		t.Errorf("expected ErrMissingRequired, got %v", err)
	}

	fs, err = buildFlagSet("test", params)
	if err != nil {
		t.Fatalf("buildFlagSet failed: %v", err)
	}
	args, err := parseArgs(fs, params, []string{"--input", "data.txt"})
	if err != nil {
		t.Fatalf("parseArgs failed: %v", err)
	}
	if got := args.String("input"); got != "data.txt" {
		t.Errorf("input = %q, want %q", got, "data.txt")
	}
}

func TestUntypedParamIsString(t *testing.T) {
	// A parameter declared without a type is accepted as a plain string.
	params := []Param{{Name: "anything", Default: "x"}}
	fs, err := buildFlagSet("test", params)
	if err != nil {
		t.Fatalf("buildFlagSet failed: %v", err)
	}
	args, err := parseArgs(fs, params, []string{"--anything", "--weird value--"})
	if err != nil {
		t.Fatalf("parseArgs failed: %v", err)
	}
	if got := args.String("anything"); got != "--weird value--" {
		t.Errorf("anything = %q", got)
	}
}

func TestBuildFlagSetRejectsBadSchemas(t *testing.T) {
	tests := []struct {
		name    string
		params  []Param
		wantErr error
	}{
		{
			name: "duplicate name",
			params: []Param{
				{Name: "x", Type: ParamInt, Default: 1},
				{Name: "x", Type: ParamString, Default: "a"},
			},
			wantErr: ErrDuplicateParam,
		},
		{
			name:    "reserved name",
			params:  []Param{{Name: "job-name", Type: ParamString, Default: "a"}},
			wantErr: ErrReservedParam,
		},
		{
			name:    "int with string default",
			params:  []Param{{Name: "n", Type: ParamInt, Default: "ten"}},
			wantErr: ErrInvalidDefault,
		},
		{
			name:    "bool with int default",
			params:  []Param{{Name: "b", Type: ParamBool, Default: 1}},
			wantErr: ErrInvalidDefault,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := buildFlagSet("test", tt.params); !errors.Is(err, tt.wantErr) {
				t.Errorf("buildFlagSet error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
