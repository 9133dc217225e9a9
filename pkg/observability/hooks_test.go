package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Transform hooks
	tr := NoopTransformHooks{}
	tr.OnTransformStart(ctx, "dropout", 42)
	tr.OnTransformComplete(ctx, "dropout", time.Second, nil)
	tr.OnSimulateStart(ctx, "both", 100)
	tr.OnSimulateComplete(ctx, "both", 100, time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "listing")
	c.OnCacheMiss(ctx, "result")
	c.OnCacheSet(ctx, "result", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/api/captions")
	h.OnResponse(ctx, "GET", "/api/captions", 200, time.Second)
	h.OnPanic(ctx, "POST", "/api/simulate", "boom")
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Transform().(NoopTransformHooks); !ok {
		t.Error("Transform() should return NoopTransformHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customTransform := &testTransformHooks{}
	SetTransformHooks(customTransform)
	if Transform() != TransformHooks(customTransform) {
		t.Error("SetTransformHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != CacheHooks(customCache) {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != HTTPHooks(customHTTP) {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Nil registrations are ignored
	SetTransformHooks(nil)
	if Transform() != TransformHooks(customTransform) {
		t.Error("SetTransformHooks(nil) should be ignored")
	}

	// Reset restores noop defaults
	Reset()
	if _, ok := Transform().(NoopTransformHooks); !ok {
		t.Error("Reset should restore noop transform hooks")
	}
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	h := &testTransformHooks{}
	SetTransformHooks(h)

	ctx := context.Background()
	Transform().OnSimulateStart(ctx, "dropout", 10)
	Transform().OnSimulateComplete(ctx, "dropout", 10, time.Millisecond, nil)

	if h.simulateStarts != 1 || h.simulateCompletes != 1 {
		t.Errorf("events not delivered: starts=%d completes=%d", h.simulateStarts, h.simulateCompletes)
	}
}

// Test hook implementations that count invocations.

type testTransformHooks struct {
	transformStarts    int
	transformCompletes int
	simulateStarts     int
	simulateCompletes  int
}

func (h *testTransformHooks) OnTransformStart(context.Context, string, int) {
	h.transformStarts++
}
func (h *testTransformHooks) OnTransformComplete(context.Context, string, time.Duration, error) {
	h.transformCompletes++
}
func (h *testTransformHooks) OnSimulateStart(context.Context, string, int) {
	h.simulateStarts++
}
func (h *testTransformHooks) OnSimulateComplete(context.Context, string, int, time.Duration, error) {
	h.simulateCompletes++
}

type testCacheHooks struct{}

func (testCacheHooks) OnCacheHit(context.Context, string)      {}
func (testCacheHooks) OnCacheMiss(context.Context, string)     {}
func (testCacheHooks) OnCacheSet(context.Context, string, int) {}

type testHTTPHooks struct{}

func (testHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (testHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (testHTTPHooks) OnPanic(context.Context, string, string, any)                   {}
