package renderer_test

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-chartgen/pkg/backend"
	"github.com/goliatone/go-chartgen/pkg/chart"
	"github.com/goliatone/go-chartgen/pkg/document"
)

// fakeBackend mounts a deterministic fragment per chart and records every
// call, so tests can assert on page state and backend traffic.
type fakeBackend struct {
	mu sync.Mutex

	failRender  map[string]error
	failUpdate  error
	failDispose map[string]error
	onRender    func(target string)

	live    map[*fakeInstance]struct{}
	calls   []string
	layouts map[string]chart.Layout
}

type fakeInstance struct {
	backend.Handle
	disposed bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		failRender:  map[string]error{},
		failDispose: map[string]error{},
		live:        map[*fakeInstance]struct{}{},
		layouts:     map[string]chart.Layout{},
	}
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) RenderChart(ctx context.Context, c document.Container, data []chart.Series, layout chart.Layout) (backend.Instance, error) {
	f.mu.Lock()
	hook := f.onRender
	f.calls = append(f.calls, "render:"+c.ID())
	failure := f.failRender[c.ID()]
	f.mu.Unlock()

	if hook != nil {
		hook(c.ID())
	}
	if failure != nil {
		return nil, failure
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := c.Mount(fragment(data, layout)); err != nil {
		return nil, err
	}
	inst := &fakeInstance{Handle: backend.NewHandle("fake", c)}

	f.mu.Lock()
	f.live[inst] = struct{}{}
	f.layouts[c.ID()] = layout
	f.mu.Unlock()
	return inst, nil
}

func (f *fakeBackend) UpdateChart(_ context.Context, inst backend.Instance, data []chart.Series, layout chart.Layout) error {
	live := inst.(*fakeInstance)

	f.mu.Lock()
	f.calls = append(f.calls, "update:"+live.Target())
	failure := f.failUpdate
	f.mu.Unlock()

	if failure != nil {
		return failure
	}
	if err := live.Container.Mount(fragment(data, layout)); err != nil {
		return err
	}
	f.mu.Lock()
	f.layouts[live.Target()] = layout
	f.mu.Unlock()
	return nil
}

func (f *fakeBackend) DisposeChart(inst backend.Instance) error {
	live := inst.(*fakeInstance)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "dispose:"+live.Target())
	if !live.disposed {
		live.Container.Unmount()
		live.disposed = true
		delete(f.live, live)
	}
	return f.failDispose[live.Target()]
}

func (f *fakeBackend) liveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.live)
}

func (f *fakeBackend) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeBackend) layoutAt(target string) chart.Layout {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.layouts[target]
}

func (f *fakeBackend) resetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

func fragment(data []chart.Series, layout chart.Layout) []byte {
	traces, _ := json.Marshal(data)
	attrs, _ := json.Marshal(layout)
	return []byte(fmt.Sprintf("<chart data=%s layout=%s>", traces, attrs))
}

func descriptor(name string) chart.Descriptor {
	return chart.Descriptor{
		Data:   []chart.Series{chart.MustSeries(map[string]any{"type": "bar", "name": name, "y": []int{1, 2}})},
		Layout: chart.Layout{"title": strings.ToUpper(name)},
	}
}
