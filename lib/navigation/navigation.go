// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package navigation

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arta-lang/arta/lib/clock"
	"github.com/arta-lang/arta/lib/fault"
)

// FrameKind distinguishes the entries of the context stack.
type FrameKind int

const (
	Root FrameKind = iota
	Folder
	File
)

func (k FrameKind) String() string {
	switch k {
	case Root:
		return "root"
	case Folder:
		return "folder"
	case File:
		return "file"
	default:
		return "unknown"
	}
}

// Frame is one entry of the context stack. Path is always absolute and
// clean.
type Frame struct {
	Kind FrameKind
	Path string
}

// HistoryEntry records one navigation step.
type HistoryEntry struct {
	Action string
	Path   string
	Time   time.Time
}

// StatFunc looks up a path. os.Stat is the production implementation.
type StatFunc func(path string) (fs.FileInfo, error)

// Options configures a new Context. Zero values select os.Stat and the
// real clock.
type Options struct {
	Stat  StatFunc
	Clock clock.Clock
}

// Context is the frame stack. The zero value is not usable; call New.
type Context struct {
	frames  []Frame
	history []HistoryEntry
	stat    StatFunc
	clock   clock.Clock
}

// New returns a context whose Root frame is root. A relative root is
// made absolute against the working directory.
func New(root string, options Options) (*Context, error) {
	if options.Stat == nil {
		options.Stat = os.Stat
	}
	if options.Clock == nil {
		options.Clock = clock.Real()
	}
	absolute, err := filepath.Abs(expandHome(root))
	if err != nil {
		return nil, fault.Wrap(fault.NotFound, err, "resolving root %q", root)
	}
	return &Context{
		frames: []Frame{{Kind: Root, Path: absolute}},
		stat:   options.Stat,
		clock:  options.Clock,
	}, nil
}

// Current returns the top frame.
func (c *Context) Current() Frame { return c.frames[len(c.frames)-1] }

// Depth returns the number of frames above Root.
func (c *Context) Depth() int { return len(c.frames) - 1 }

// Folder returns the path of the nearest folder frame, Root included.
func (c *Context) Folder() string {
	for i := len(c.frames) - 1; i >= 0; i-- {
		if c.frames[i].Kind != File {
			return c.frames[i].Path
		}
	}
	return c.frames[0].Path
}

// File returns the path of the top frame when it is a File frame.
func (c *Context) File() (string, bool) {
	top := c.Current()
	if top.Kind != File {
		return "", false
	}
	return top.Path, true
}

// Frames returns a copy of the stack, Root first.
func (c *Context) Frames() []Frame {
	out := make([]Frame, len(c.frames))
	copy(out, c.frames)
	return out
}

// History returns a copy of the navigation log, oldest first.
func (c *Context) History() []HistoryEntry {
	out := make([]HistoryEntry, len(c.history))
	copy(out, c.history)
	return out
}

// Resolve turns p into an absolute, clean path. "~" expands to the
// home directory; relative paths resolve against Folder.
func (c *Context) Resolve(p string) string {
	p = expandHome(p)
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(c.Folder(), p)
}

// EnterFolder pushes a Folder frame for p. The path must exist and be a
// directory.
func (c *Context) EnterFolder(p string) (Frame, error) {
	return c.enter(p, Folder)
}

// EnterFile pushes a File frame for p. The path must exist and not be a
// directory.
func (c *Context) EnterFile(p string) (Frame, error) {
	return c.enter(p, File)
}

func (c *Context) enter(p string, kind FrameKind) (Frame, error) {
	resolved := c.Resolve(p)
	info, err := c.stat(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Frame{}, fault.NotFoundf("%s %s does not exist", kind, resolved)
		}
		return Frame{}, fault.Wrap(fault.NotFound, err, "checking %s %s", kind, resolved)
	}
	if kind == Folder && !info.IsDir() {
		return Frame{}, fault.NotFoundf("%s is not a folder", resolved)
	}
	if kind == File && info.IsDir() {
		return Frame{}, fault.NotFoundf("%s is a folder, not a file", resolved)
	}

	frame := Frame{Kind: kind, Path: resolved}
	c.frames = append(c.frames, frame)
	c.record("enter "+kind.String(), resolved)
	return frame, nil
}

// Exit pops the top frame and returns it. At Root it fails with an
// Underflow error and leaves the stack unchanged.
func (c *Context) Exit() (Frame, error) {
	if len(c.frames) == 1 {
		return Frame{}, fault.New(fault.Underflow, "already at root context %s", c.frames[0].Path)
	}
	top := c.frames[len(c.frames)-1]
	c.frames = c.frames[:len(c.frames)-1]
	c.record("exit", top.Path)
	return top, nil
}

// Reset pops every frame above Root and returns how many were removed.
func (c *Context) Reset() int {
	removed := len(c.frames) - 1
	c.frames = c.frames[:1]
	c.record("reset", c.frames[0].Path)
	return removed
}

// Clone returns an independent copy sharing the stat function and
// clock.
func (c *Context) Clone() *Context {
	return &Context{
		frames:  c.Frames(),
		history: c.History(),
		stat:    c.stat,
		clock:   c.clock,
	}
}

// Prompt returns the top frame's path with the home directory shortened
// to "~", for interactive prompts.
func (c *Context) Prompt() string {
	return ShortenHome(c.Current().Path)
}

func (c *Context) record(action, path string) {
	c.history = append(c.history, HistoryEntry{Action: action, Path: path, Time: c.clock.Now()})
}

// ShortenHome replaces a leading home directory with "~".
func ShortenHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" || home == "/" {
		return path
	}
	if path == home {
		return "~"
	}
	if strings.HasPrefix(path, home+string(filepath.Separator)) {
		return "~" + path[len(home):]
	}
	return path
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[1:])
}
