// SPDX-License-Identifier: MPL-2.0

// Package cli contains CLI integration tests using testscript.
//
// The addonvet command runs in-process: testscript re-executes the test
// binary under the command name, so scripts call it like the real binary.
package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/addonvet/addonvet/cmd/addonvet"
	"github.com/addonvet/addonvet/internal/testutil"

	"github.com/klauspost/compress/zip"
	"github.com/rogpeppe/go-internal/testscript"
)

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"addonvet": func() int {
			return cmd.Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
		},
	}))
}

// TestCLI runs all testscript tests in the testdata directory.
func TestCLI(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata",
		Setup: func(env *testscript.Env) error {
			// Keep the user's configuration out of the scripts.
			env.Setenv("XDG_CONFIG_HOME", filepath.Join(env.WorkDir, ".config"))
			env.Setenv("NO_COLOR", "1")
			return nil
		},
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			"mkaddon": cmdMkAddOn,
		},
		// Continue running all tests even if one fails
		ContinueOnError: true,
	})
}

// cmdMkAddOn writes an add-on archive:
//
//	mkaddon <file> [version=V] [status=S] [name=N] [not-before=V] [not-from=V] [java=V] [deps=a,b]
func cmdMkAddOn(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("unsupported: ! mkaddon")
	}
	if len(args) < 1 {
		ts.Fatalf("usage: mkaddon <file> [key=value...]")
	}

	m := testutil.Manifest{Version: "1.0.0", Status: "release"}
	for _, arg := range args[1:] {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			ts.Fatalf("mkaddon: argument %q is not key=value", arg)
		}
		switch key {
		case "version":
			m.Version = value
		case "status":
			m.Status = value
		case "name":
			m.Name = value
		case "not-before":
			m.NotBeforeVersion = value
		case "not-from":
			m.NotFromVersion = value
		case "java":
			m.JavaVersion = value
		case "deps":
			m.Dependencies = strings.Split(value, ",")
		default:
			ts.Fatalf("mkaddon: unknown key %q", key)
		}
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(testutil.ManifestEntryName)
	ts.Check(err)
	_, err = w.Write([]byte(m.XML()))
	ts.Check(err)
	ts.Check(zw.Close())

	path := ts.MkAbs(args[0])
	ts.Check(os.MkdirAll(filepath.Dir(path), 0o755))
	ts.Check(os.WriteFile(path, buf.Bytes(), 0o644))
}
