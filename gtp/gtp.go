// Package gtp implements a line oriented text protocol, modelled on the Go Text Protocol, that drives a game
// session.
//
// A command is an optional numeric id, a command name and its arguments. Successful responses start with "=",
// failures with "?", and every response is terminated by an empty line.
package gtp

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gorgonia/uttt/session"
	"github.com/pkg/errors"
)

type Engine struct {
	s *session.Session

	known map[string]Command

	ch  chan string
	ret chan string

	// Budget is the search budget of genmove. 0 uses the session's.
	Budget        time.Duration
	name, version string
	done          bool
}

func New(s *session.Session, name, version string, known map[string]Command) *Engine {
	if known == nil {
		known = StandardLib()
	}
	return &Engine{
		s:       s,
		known:   known,
		name:    name,
		version: version,
	}
}

// Start runs the engine in a goroutine. Commands are sent on input and each produces one response on output.
// output is closed after "quit".
func (e *Engine) Start() (input chan<- string, output <-chan string) {
	e.ch = make(chan string)
	e.ret = make(chan string)
	go e.start()
	return e.ch, e.ret
}

// Run reads commands from r and writes the responses to w until r is exhausted or "quit" is received.
func (e *Engine) Run(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		resp, ok := e.do(scanner.Text())
		if !ok {
			continue
		}
		if _, err := io.WriteString(w, resp); err != nil {
			return errors.Wrap(err, "unable to write response")
		}
		if e.done {
			return nil
		}
	}
	return scanner.Err()
}

func (e *Engine) Session() *session.Session { return e.s }

func (e *Engine) start() {
	defer close(e.ret)
	for cmd := range e.ch {
		resp, ok := e.do(cmd)
		if !ok {
			continue
		}
		e.ret <- resp
		if e.done {
			return
		}
	}
}

// do executes a single command line. ok is false for lines that warrant no response.
func (e *Engine) do(cmd string) (resp string, ok bool) {
	id, x, args, err := e.parse(cmd)
	if x == nil && err == nil {
		return "", false
	}
	if err != nil {
		return handleErr(id, err), true
	}
	id, result, err := x.Do(id, args, e)
	return handleResult(id, result, err), true
}

// refer to this
// https://www.lysator.liu.se/%7Egunnar/gtp/gtp2-spec-draft2/gtp2-spec.html#SECTION00030000000000000000
func (e *Engine) parse(cmd string) (id int, x Command, args []string, err error) {
	cmd = preprocess(cmd)
	tokens := strings.Fields(cmd)
	if len(tokens) == 0 {
		return -1, nil, nil, nil
	}
	if id, err = strconv.Atoi(tokens[0]); err == nil {
		// we've consumed ID
		tokens = tokens[1:]
	} else {
		// set err to nil because ID is optional
		err = nil
		id = -1
	}

	if len(tokens) == 0 {
		return id, nil, nil, nil // GNUGo some how does nothing when there are no tokens left. An ID may be passed in but it'll be ignored
	}

	var ok bool
	if x, ok = e.known[tokens[0]]; !ok {
		return id, nil, nil, errors.Errorf("Unknown command %q", tokens[0])
	}
	if len(tokens) > 1 {
		args = tokens[1:]
	}
	return
}

// preprocess lowercases the line and drops comments.
func preprocess(a string) string {
	if i := strings.IndexByte(a, '#'); i >= 0 {
		a = a[:i]
	}
	return strings.ToLower(strings.TrimSpace(a))
}

func handleErr(id int, err error) string {
	if id != -1 {
		return fmt.Sprintf("? %d %v\n\n", id, err)
	}
	return fmt.Sprintf("? %v\n\n", err)
}

func handleResult(id int, result string, err error) string {
	if err != nil {
		return handleErr(id, err)
	}

	if id != -1 {
		return fmt.Sprintf("= %d %v\n\n", id, result)
	}
	return fmt.Sprintf("= %v\n\n", result)
}
