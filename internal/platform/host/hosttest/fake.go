// Package hosttest provides a scripted in-memory Host for phase tests.
package hosttest

import (
	"context"
	"os"
	"strings"
	"sync"
)

// Response is a canned result for a command.
type Response struct {
	Output string
	Err    error
}

// Fake implements host.Host entirely in memory. Executed commands are
// recorded in order; responses can be scripted per exact command or via a
// catch-all handler. Unscripted commands succeed with empty output.
type Fake struct {
	mu        sync.Mutex
	files     map[string][]byte
	dirs      map[string]bool
	commands  []string
	responses map[string]Response

	// Handler, if set, is consulted for commands without a scripted
	// response.
	Handler func(command string) (string, error)
}

// New creates an empty fake host.
func New() *Fake {
	return &Fake{
		files:     make(map[string][]byte),
		dirs:      make(map[string]bool),
		responses: make(map[string]Response),
	}
}

// Respond scripts the result of an exact command.
func (f *Fake) Respond(command, output string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[command] = Response{Output: output, Err: err}
}

// Touch marks a path as existing without content (a directory marker).
func (f *Fake) Touch(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dirs[path] = true
}

// PutFile seeds a file with content.
func (f *Fake) PutFile(path string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[path] = data
}

// Commands returns the commands executed so far, in order.
func (f *Fake) Commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.commands))
	copy(out, f.commands)
	return out
}

// Executed reports whether any executed command contains substr.
func (f *Fake) Executed(substr string) bool {
	for _, c := range f.Commands() {
		if strings.Contains(c, substr) {
			return true
		}
	}
	return false
}

// FileContent returns the content of a written file.
func (f *Fake) FileContent(path string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.files[path]
	return data, ok
}

// Execute implements host.Host.
func (f *Fake) Execute(_ context.Context, command string) (string, error) {
	f.mu.Lock()
	f.commands = append(f.commands, command)
	resp, scripted := f.responses[command]
	handler := f.Handler
	f.mu.Unlock()

	if scripted {
		return resp.Output, resp.Err
	}
	if handler != nil {
		return handler(command)
	}
	return "", nil
}

// WriteFile implements host.Host.
func (f *Fake) WriteFile(_ context.Context, path string, data []byte, _ os.FileMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[path] = append([]byte(nil), data...)
	return nil
}

// ReadFile implements host.Host.
func (f *Fake) ReadFile(_ context.Context, path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return append([]byte(nil), data...), nil
}

// FileExists implements host.Host.
func (f *Fake) FileExists(_ context.Context, path string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.files[path]; ok {
		return true, nil
	}
	return f.dirs[path], nil
}
