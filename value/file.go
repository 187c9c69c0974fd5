// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"bufio"
	"fmt"
	"os"

	"calq.io/calq/config"
)

// File is an open file handle. The handle id is stable for the life of
// the process so scripts can pass files around by value.
type File struct {
	ID     int
	Name   string
	Mode   string
	f      *os.File
	r      *bufio.Reader
	closed bool
}

var nextFileID = 3 // 0..2 are notionally stdin/stdout/stderr

// OpenFile opens a file, gated by the configured access-mode bits:
// bit 1 permits reading, bit 2 writing.
func OpenFile(conf *config.Config, name, mode string) *File {
	var flag int
	switch mode {
	case "r":
		flag = os.O_RDONLY
		if conf.FileAccess()&1 == 0 {
			Errorf(ErrFileAccess, "read access denied")
		}
	case "w":
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
		if conf.FileAccess()&2 == 0 {
			Errorf(ErrFileAccess, "write access denied")
		}
	case "a":
		flag = os.O_WRONLY | os.O_CREATE | os.O_APPEND
		if conf.FileAccess()&2 == 0 {
			Errorf(ErrFileAccess, "write access denied")
		}
	case "r+", "w+":
		flag = os.O_RDWR | os.O_CREATE
		if conf.FileAccess()&3 != 3 {
			Errorf(ErrFileAccess, "read-write access denied")
		}
	default:
		Errorf(ErrInvalidArg, "fopen: bad mode %q", mode)
	}
	f, err := os.OpenFile(name, flag, 0666)
	if err != nil {
		Errorf(ErrFileOpen, "fopen %s: %v", name, err)
	}
	file := &File{ID: nextFileID, Name: name, Mode: mode, f: f, r: bufio.NewReader(f)}
	nextFileID++
	return file
}

func (f *File) Type() T { return TFile }

func (f *File) String() string {
	return fmt.Sprintf("file(%d: %s)", f.ID, f.Name)
}

func (f *File) Sprint(conf *config.Config) string {
	return fmt.Sprintf("file %d (%q)", f.ID, f.Name)
}

func (f *File) check() {
	if f.closed {
		Errorf(ErrFileIO, "file %d is closed", f.ID)
	}
}

// Close releases the handle; closing twice is allowed.
func (f *File) Close() {
	if f.closed {
		return
	}
	f.closed = true
	if err := f.f.Close(); err != nil {
		Errorf(ErrFileIO, "fclose %s: %v", f.Name, err)
	}
}

// Puts writes a string.
func (f *File) Puts(s string) {
	f.check()
	if _, err := f.f.WriteString(s); err != nil {
		Errorf(ErrFileIO, "fputs %s: %v", f.Name, err)
	}
}

// Gets reads one line, reporting EOF with ok == false.
func (f *File) Gets() (string, bool) {
	f.check()
	line, err := f.r.ReadString('\n')
	if line == "" && err != nil {
		return "", false
	}
	return line, true
}

// Read fills buf from the file, returning the byte count.
func (f *File) Read(buf []byte) int {
	f.check()
	n, err := f.r.Read(buf)
	if err != nil && n == 0 {
		return 0
	}
	return n
}

// EOF reports whether the read position is at end of file.
func (f *File) EOF() bool {
	f.check()
	_, err := f.r.Peek(1)
	return err != nil
}

// SizeBytes returns the file length in bytes.
func (f *File) SizeBytes() int64 {
	f.check()
	info, err := f.f.Stat()
	if err != nil {
		Errorf(ErrFileIO, "size %s: %v", f.Name, err)
	}
	return info.Size()
}
