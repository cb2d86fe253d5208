package rxn

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/psuresearch/Mapper/chem"
	"github.com/psuresearch/Mapper/libchem"
)

// Result is one unit of work flowing through a Stream: a parsed Reaction
// (nil when parsing failed), its extracted core once the extraction stage has
// run, and the first error hit along the way.
type Result struct {
	Notation string
	Line     int
	Reaction *Reaction
	Core     string
	Err      error
}

func (res *Result) Reclaim() {
	if res != nil {
		res.Reaction.Reclaim()
		res.Reaction = nil
	}
}

// Stream is a chain of pipeline stages processing reactions.  Each stage owns
// its goroutine; each Result is owned by exactly one stage at a time.
type Stream struct {
	Outlet chan *Result
}

func NewStream() *Stream {
	return &Stream{
		Outlet: make(chan *Result),
	}
}

func (stream *Stream) Close() {
	if stream.Outlet != nil {
		close(stream.Outlet)
	}
}

// StreamLines emits one Result per reaction notation line read from in.
// Blank lines and lines starting with '#' are skipped.
func StreamLines(in io.Reader) *Stream {
	next := NewStream()

	go func() {
		scanner := bufio.NewScanner(in)
		lineNum := 0
		for scanner.Scan() {
			lineNum++
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			next.Outlet <- &Result{
				Notation: line,
				Line:     lineNum,
			}
		}
		if err := scanner.Err(); err != nil {
			next.Outlet <- &Result{Line: lineNum, Err: err}
		}
		next.Close()
	}()

	return next
}

// Dedupe drops Results whose notation has already passed through.
func (stream *Stream) Dedupe(set libchem.NotationSet) *Stream {
	next := &Stream{
		Outlet: make(chan *Result, 1),
	}

	go func() {
		for res := range stream.Outlet {
			if res.Err == nil && !set.TryAdd(res.Notation) {
				continue
			}
			next.Outlet <- res
		}
		next.Close()
	}()

	return next
}

// ExtractCores parses each notation and reduces it to its core.  When a
// catalog is given, a reaction whose lookup key is already stored skips
// extraction and reuses the stored core; fresh cores are added back.
func (stream *Stream) ExtractCores(cat chem.CoreCatalog) *Stream {
	next := &Stream{
		Outlet: make(chan *Result, 1),
	}

	go func() {
		var keyBuf [512]byte
		for res := range stream.Outlet {
			if res.Err != nil {
				next.Outlet <- res
				continue
			}

			rx, err := NewReaction(res.Notation)
			if err != nil {
				res.Err = err
				next.Outlet <- res
				continue
			}
			res.Reaction = rx

			var key []byte
			if cat != nil {
				key = rx.LookupKey(keyBuf[:0])
				if core, found := cat.LookupCore(key); found {
					res.Core = core
					next.Outlet <- res
					continue
				}
			}

			if err := rx.FindCore(); err != nil {
				res.Err = err
				next.Outlet <- res
				continue
			}
			res.Core = rx.CoreNotation()
			if cat != nil && !cat.IsReadOnly() {
				cat.TryAddCore(key, res.Core)
			}
			next.Outlet <- res
		}
		next.Close()
	}()

	return next
}

// Print writes "notation,core" CSV lines to out and passes each Result along.
func (stream *Stream) Print(out io.Writer) *Stream {
	next := &Stream{
		Outlet: make(chan *Result, 1),
	}

	go func() {
		buf := strings.Builder{}
		buf.Grow(256)

		for res := range stream.Outlet {
			if res.Err == nil {
				buf.WriteString(res.Notation)
				buf.WriteByte(',')
				buf.WriteString(res.Core)
				buf.WriteByte('\n')
				fmt.Fprint(out, buf.String())
				buf.Reset()
			}
			next.Outlet <- res
		}
		next.Close()
	}()

	return next
}

// PullAll drains the stream, reclaiming each Result.  It returns the number
// of Results pulled and the first error encountered.
func (stream *Stream) PullAll() (count int, firstErr error) {
	for res := range stream.Outlet {
		count++
		if res.Err != nil && firstErr == nil {
			firstErr = res.Err
			if res.Line > 0 {
				firstErr = fmt.Errorf("line %d: %w", res.Line, res.Err)
			}
		}
		res.Reclaim()
	}
	return
}
