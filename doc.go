// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Calq is an interactive calculator over exact arithmetic. All numbers
are rationals kept in lowest terms; transcendental functions take an
epsilon and return a rational within three quarters of it, so a
display rounded to the epsilon is always correct.

The language is C-flavored: statements end in semicolons, functions
are declared with define, control flow offers if/else, while, do,
for, switch, break, continue, and goto. Values include complex
numbers, strings, lists, matrices with caller-chosen index bounds,
associative arrays, blocks, files, random states, and user-declared
object types whose operators may be overridden by functions named
<type>_<op>.

Note that // is integer division, as in the original calculator this
follows; comments are written with '#' or with slash-star block form.

Usage:

	calq [options] [expr ...]

The options are listed in the -h output. Interactive sessions read
from standard input with a configurable prompt; config("name", value)
adjusts output mode, displayed digits, default epsilon, rounding
policies, and error handling at runtime.
*/
package main
