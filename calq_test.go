// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"calq.io/calq/config"
	"calq.io/calq/exec"
	"calq.io/calq/run"
)

// TestAll runs the testdata scripts. Each .calq file is a sequence of
// examples: input lines at the margin, expected output lines indented
// with a single tab. State persists across examples within one file.
func TestAll(t *testing.T) {
	dir, err := os.Open("testdata")
	if err != nil {
		t.Fatal(err)
	}
	names, err := dir.Readdirnames(0)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range names {
		if !strings.HasSuffix(name, ".calq") {
			continue
		}
		t.Run(name, func(t *testing.T) {
			runFile(t, filepath.Join("testdata", name))
		})
	}
}

func runFile(t *testing.T, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(string(data), "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	var out strings.Builder
	var conf config.Config
	conf.SetOutput(&out)
	conf.SetErrOutput(&out)
	ctx := exec.NewContext(&conf)
	runner := run.New(ctx)
	runner.ContinueOnError = true

	lineNum := 0
	for lineNum < len(lines) {
		// Gather one example: input lines, then expected output lines.
		var input, expect []string
		start := lineNum
		for lineNum < len(lines) && !strings.HasPrefix(lines[lineNum], "\t") {
			if strings.TrimSpace(lines[lineNum]) != "" {
				input = append(input, lines[lineNum])
			}
			lineNum++
			if lineNum < len(lines) && strings.HasPrefix(lines[lineNum], "\t") {
				break
			}
		}
		for lineNum < len(lines) && strings.HasPrefix(lines[lineNum], "\t") {
			expect = append(expect, strings.TrimPrefix(lines[lineNum], "\t"))
			lineNum++
		}
		if len(input) == 0 {
			continue
		}
		out.Reset()
		runner.RunString(path, strings.Join(input, "\n"))
		got := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
		if out.String() == "" {
			got = nil
		}
		if !sameLines(got, expect) {
			t.Errorf("%s:%d:\ninput:\n\t%s\ngot:\n\t%s\nwant:\n\t%s",
				path, start+1,
				strings.Join(input, "\n\t"),
				strings.Join(got, "\n\t"),
				strings.Join(expect, "\n\t"))
		}
	}
}

func sameLines(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
