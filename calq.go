// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/term"

	"calq.io/calq/config"
	"calq.io/calq/exec"
	"calq.io/calq/run"
	"calq.io/calq/value"
)

const version = "1.0.0"

var (
	exprMode    = flag.Bool("e", false, "read expressions from the command line")
	noRC        = flag.Bool("q", false, "do not execute startup resource files")
	noBanner    = flag.Bool("d", false, "suppress the banner")
	pipeMode    = flag.Bool("p", false, "pipe mode: no prompt, no tty handling")
	stayOpen    = flag.Bool("i", false, "stay interactive after -e expressions")
	contErr     = flag.Bool("c", false, "continue after errors")
	stringArgs  = flag.Bool("s", false, "treat remaining arguments as strings")
	unbuffered  = flag.Bool("u", false, "unbuffered output")
	showVersion = flag.Bool("v", false, "print version and exit")
	showHelp    = flag.Bool("h", false, "print help and exit")
	allowCustom = flag.Bool("C", false, "permit custom builtins")
	accessMode  = flag.Int("m", 7, "file access mode bits (0..7)")
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: calq [-e] [-q] [-d] [-p] [-i] [-c] [-s] [-u] [-C] [-m mode] [expr ...]\n")
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if *showHelp {
		flag.Usage()
	}
	if *showVersion {
		fmt.Printf("calq %s\n", version)
		os.Exit(0)
	}

	var conf config.Config
	conf.SetFileAccess(*accessMode)
	out := bufio.NewWriter(os.Stdout)
	if !*unbuffered {
		conf.SetOutput(out)
		defer out.Flush()
	}
	_ = allowCustom // no custom builtins are compiled in; the gate is the flag itself

	ctx := exec.NewContext(&conf)
	runner := run.New(ctx)
	runner.ContinueOnError = *contErr
	defer ctx.CloseAll()

	// SIGINT aborts the current evaluation, not the process.
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT)
	go func() {
		for range sigc {
			ctx.Interrupt()
		}
	}()

	if !*noRC {
		for _, rc := range strings.Split(os.Getenv("CALQRC"), ":") {
			if rc == "" {
				continue
			}
			if _, err := os.Stat(rc); err == nil {
				runner.RunFile(rc)
				out.Flush()
			}
		}
	}

	args := flag.Args()
	status := 0

	if *stringArgs {
		argv := value.NewList()
		for _, a := range args {
			argv.Append(value.String(a))
		}
		ctx.Assign("argv", argv)
		args = nil
	}

	if *exprMode && len(args) > 0 {
		src := strings.Join(args, " ")
		if err := runner.RunString("<args>", src); err != nil {
			status = 1
		}
		out.Flush()
		if !*stayOpen {
			os.Exit(status)
		}
	}

	interactive := !*pipeMode && term.IsTerminal(int(os.Stdin.Fd()))
	runner.Interactive = interactive
	if interactive && !*noBanner {
		fmt.Fprintf(out, "calq %s - arbitrary precision calculator\n", version)
		out.Flush()
	}
	if !runner.Run("<stdin>", os.Stdin) {
		status = 1
	}
	out.Flush()
	os.Exit(status)
}
