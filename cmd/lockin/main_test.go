package main

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"lockin": run,
	}))
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
		Setup: func(env *testscript.Env) error {
			home := filepath.Join(env.WorkDir, "home")
			if err := os.MkdirAll(home, 0o755); err != nil {
				return err
			}
			env.Setenv("HOME", home)
			env.Setenv("LOCKIN_DATA_DIR", filepath.Join(env.WorkDir, "data"))
			env.Setenv("LOCKIN_TICK_INTERVAL", "20ms")
			return nil
		},
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			"envfield": cmdEnvField,
		},
	})
}

// cmdEnvField stores the Nth whitespace-separated field of the last stdout
// in an env var.
func cmdEnvField(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("envfield does not support negation")
	}
	if len(args) != 2 {
		ts.Fatalf("usage: envfield VAR INDEX")
	}
	index, err := strconv.Atoi(args[1])
	if err != nil || index < 0 {
		ts.Fatalf("envfield: index must be a non-negative number, got %q", args[1])
	}
	fields := strings.Fields(ts.ReadFile("stdout"))
	if index >= len(fields) {
		ts.Fatalf("envfield: stdout has %d fields, want index %d", len(fields), index)
	}
	ts.Setenv(args[0], fields[index])
}
