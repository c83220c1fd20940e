package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"reflect"
	"testing"

	"oink/internal/core"
)

func TestParseAccountRef(t *testing.T) {
	tests := []struct {
		in      string
		wantID  int64
		wantNm  string
		wantErr bool
	}{
		{in: "7", wantID: 7},
		{in: "#12", wantID: 12},
		{in: " Checking ", wantNm: "Checking"},
		{in: "Joint 2", wantNm: "Joint 2"},
		{in: "0", wantNm: "0"},
		{in: "", wantErr: true},
		{in: "#x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			ref, err := ParseAccountRef(tt.in)
			if tt.wantErr {
				if !errors.Is(err, core.ErrValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantNm != "" {
				if name, ok := ref.Name(); !ok || name != tt.wantNm {
					t.Errorf("Name() = %q, %v; want %q", name, ok, tt.wantNm)
				}
				return
			}
			if id, ok := ref.ID(); !ok || id != tt.wantID {
				t.Errorf("ID() = %d, %v; want %d", id, ok, tt.wantID)
			}
		})
	}
}

func TestParseCategoryRef(t *testing.T) {
	ref, err := ParseCategoryRef("Food")
	if err != nil {
		t.Fatalf("ParseCategoryRef: %v", err)
	}
	if name, ok := ref.Name(); !ok || name != "Food" {
		t.Errorf("Name() = %q, %v", name, ok)
	}
	ref, err = ParseCategoryRef("3")
	if err != nil {
		t.Fatalf("ParseCategoryRef: %v", err)
	}
	if id, ok := ref.ID(); !ok || id != 3 {
		t.Errorf("ID() = %d, %v", id, ok)
	}
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantPos   []string
		wantDesc  string
		wantUsage bool
	}{
		{name: "flags only", args: []string{"-desc", "rent"}, wantDesc: "rent"},
		{name: "leading positional", args: []string{"12", "-desc", "rent"}, wantPos: []string{"12"}, wantDesc: "rent"},
		{name: "trailing positional", args: []string{"-desc", "rent", "12"}, wantPos: []string{"12"}, wantDesc: "rent"},
		{name: "negative amount is positional", args: []string{"Checking", "-5.00"}, wantPos: []string{"Checking", "-5.00"}},
		{name: "unknown flag", args: []string{"-bogus"}, wantUsage: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			fs.SetOutput(io.Discard)
			desc := fs.String("desc", "", "")
			pos, err := parseArgs(fs, tt.args)
			if tt.wantUsage {
				if !errors.Is(err, ErrUsage) {
					t.Fatalf("expected usage error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseArgs: %v", err)
			}
			if len(pos) != len(tt.wantPos) || (len(pos) > 0 && !reflect.DeepEqual(pos, tt.wantPos)) {
				t.Errorf("positional = %v, want %v", pos, tt.wantPos)
			}
			if *desc != tt.wantDesc {
				t.Errorf("desc = %q, want %q", *desc, tt.wantDesc)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{flag.ErrHelp, 0},
		{usagef("missing command"), 2},
		{core.ErrNegativeAmount, 2},
		{core.NotFoundf("account %s", "x"), 3},
		{fmt.Errorf("rename: %w", core.Conflictf("name taken")), 4},
		{errors.New("disk I/O error"), 1},
	}
	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
	if Message(flag.ErrHelp) != "" {
		t.Error("help must print no message")
	}
}
