// internal/monitor/fakes_test.go
package monitor

import (
	"context"
	"errors"
	"time"
)

// fakeBackend is a scriptable Backend for tests
type fakeBackend struct {
	pingErrs  []error // consumed per call; empty means success
	pingCalls int

	models    map[string]bool
	pullErr   error
	pulled    []string
	pullMakes bool // pull makes the model appear

	generateResp  string
	generateErr   error
	generateBlock bool // block until ctx is cancelled
}

func (f *fakeBackend) Ping(ctx context.Context) error {
	f.pingCalls++
	if len(f.pingErrs) == 0 {
		return nil
	}
	err := f.pingErrs[0]
	f.pingErrs = f.pingErrs[1:]
	return err
}

func (f *fakeBackend) HasModel(ctx context.Context, name string) (bool, error) {
	return f.models[name], nil
}

func (f *fakeBackend) Pull(ctx context.Context, name string) error {
	f.pulled = append(f.pulled, name)
	if f.pullErr != nil {
		return f.pullErr
	}
	if f.pullMakes {
		f.models[name] = true
	}
	return nil
}

func (f *fakeBackend) Generate(ctx context.Context, model, prompt string) (string, error) {
	if f.generateBlock {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.generateResp, f.generateErr
}

// fakeRuntime serves canned container state and logs
type fakeRuntime struct {
	status map[string]string
	logs   map[string][]string
	err    error
}

func (f *fakeRuntime) Status(ctx context.Context, name string) (string, error) {
	if f.err != nil {
		return "error", f.err
	}
	if s, ok := f.status[name]; ok {
		return s, nil
	}
	return "not_found", nil
}

func (f *fakeRuntime) Logs(ctx context.Context, name string, tail int) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.logs[name], nil
}

// noSleep records requested delays without waiting
type noSleep struct {
	delays []time.Duration
}

func (n *noSleep) sleep(ctx context.Context, d time.Duration) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	n.delays = append(n.delays, d)
	return nil
}

var errProbe = errors.New("connection refused")
