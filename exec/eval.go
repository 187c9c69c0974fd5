// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package exec

import (
	"os"
	"path/filepath"
	"strings"

	"calq.io/calq/parse"
	"calq.io/calq/value"
)

// evalString implements the eval builtin: compile the string as an
// expression in this context and run it.
func evalString(c *Context, src string) value.Value {
	fn, err := parse.CompileEval("<eval>", src, c)
	if err != nil {
		if f, ok := err.(value.Fault); ok {
			panic(f)
		}
		value.Errorf(value.ErrSyntax, "eval: %v", err)
	}
	return c.call(fn, nil)
}

// readFile implements the read builtin: locate a script on CALQPATH
// and execute it as a full statement unit in this context.
func readFile(c *Context, name string) {
	path := name
	if _, err := os.Stat(path); err != nil {
		for _, dir := range strings.Split(os.Getenv("CALQPATH"), ":") {
			if dir == "" {
				continue
			}
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		value.Errorf(value.ErrFileOpen, "read %s: %v", name, err)
	}
	fn, err := parse.Compile(path, string(data), c)
	if err != nil {
		if f, ok := err.(value.Fault); ok {
			panic(f)
		}
		value.Errorf(value.ErrSyntax, "read %s: %v", name, err)
	}
	c.call(fn, nil)
}
