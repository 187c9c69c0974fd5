// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package run provides the execution control for calq: the REPL loop,
// script execution, and resource files. It is factored out of main so
// the end-to-end tests can drive it.
package run // import "calq.io/calq/run"

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"calq.io/calq/exec"
	"calq.io/calq/parse"
	"calq.io/calq/value"
)

// Runner drives compilation and execution over one Context.
type Runner struct {
	Context *exec.Context

	// Interactive prints prompts and keeps going after errors.
	Interactive bool

	// ContinueOnError keeps a non-interactive run going after an
	// error instead of stopping with a failed status.
	ContinueOnError bool
}

// New returns a Runner over the context.
func New(ctx *exec.Context) *Runner {
	return &Runner{Context: ctx}
}

// Run reads statements from in until EOF, compiling and executing
// each complete input. The return value reports whether the whole run
// completed without error; a quit() makes it return immediately,
// reporting whether the statements before it completed without error.
func (r *Runner) Run(name string, in io.Reader) (success bool) {
	conf := r.Context.Config()
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 1<<16), 1<<24)
	success = true
	var pending strings.Builder
	type flusher interface{ Flush() error }
	for {
		if r.Interactive {
			if pending.Len() > 0 {
				fmt.Fprint(conf.Output(), conf.More())
			} else {
				fmt.Fprint(conf.Output(), conf.Prompt())
			}
			if f, ok := conf.Output().(flusher); ok {
				f.Flush()
			}
		}
		if !scanner.Scan() {
			if pending.Len() > 0 {
				success = r.execute(name, pending.String()) && success
			}
			return success
		}
		pending.WriteString(scanner.Text())
		pending.WriteString("\n")
		src := pending.String()
		if strings.TrimSpace(src) == "" {
			pending.Reset()
			continue
		}
		fn, err := parse.Compile(name, src, r.Context)
		if err == parse.ErrIncomplete {
			continue // read a continuation line
		}
		pending.Reset()
		if err != nil {
			r.report(err)
			if !r.Interactive && !r.ContinueOnError {
				return false
			}
			success = false
			continue
		}
		if err := r.Context.Run(fn); err != nil {
			if f, ok := err.(value.Fault); ok && f.Code == exec.QuitCode {
				return success
			}
			r.report(err)
			if !r.Interactive && !r.ContinueOnError {
				return false
			}
			success = false
		}
	}
}

// execute runs a final unterminated fragment at EOF.
func (r *Runner) execute(name, src string) bool {
	if strings.TrimSpace(src) == "" {
		return true
	}
	return r.RunString(name, src) == nil
}

// RunString compiles and runs one source string, as used for -e
// arguments and resource files.
func (r *Runner) RunString(name, src string) error {
	fn, err := parse.Compile(name, src, r.Context)
	if err != nil {
		r.report(err)
		return err
	}
	if err := r.Context.Run(fn); err != nil {
		if f, ok := err.(value.Fault); ok && f.Code == exec.QuitCode {
			return nil
		}
		r.report(err)
		return err
	}
	return nil
}

// RunFile executes a resource or script file.
func (r *Runner) RunFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(r.Context.Config().ErrOutput(), "calq: %v\n", err)
		return err
	}
	return r.RunString(path, string(data))
}

func (r *Runner) report(err error) {
	conf := r.Context.Config()
	if f, ok := err.(value.Fault); ok && f.Code != 0 {
		fmt.Fprintf(conf.ErrOutput(), "calq: error %d: %s\n", f.Code, f.Msg)
		return
	}
	fmt.Fprintf(conf.ErrOutput(), "calq: %v\n", err)
}
