package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnLoadStart(ctx, "mail.toml")
	p.OnLoadComplete(ctx, "mail.toml", 7, time.Second, nil)
	p.OnLayoutStart(ctx, "mail", 7)
	p.OnLayoutComplete(ctx, "mail", time.Second, nil)
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)

	i := NoopInteractionHooks{}
	i.OnResizeStart(0, "root", "cols", 1)
	i.OnResizeEnd(0, "root", "cols", 1)
	i.OnDeltasRejected(0, "root", "rows")

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "artifact", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/layout")
	h.OnResponse(ctx, "POST", "/v1/layout", 200, time.Second)
	h.OnError(ctx, "POST", "/v1/layout", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Interaction().(NoopInteractionHooks); !ok {
		t.Error("Interaction() should return NoopInteractionHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customInteraction := &testInteractionHooks{}
	SetInteractionHooks(customInteraction)
	if Interaction() != customInteraction {
		t.Error("SetInteractionHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
	if _, ok := Interaction().(NoopInteractionHooks); !ok {
		t.Error("Reset() should restore NoopInteractionHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testInteractionHooks{}
	SetInteractionHooks(custom)
	SetInteractionHooks(nil)

	if Interaction() != custom {
		t.Error("SetInteractionHooks(nil) should be ignored")
	}
}

type testPipelineHooks struct{ NoopPipelineHooks }
type testInteractionHooks struct{ NoopInteractionHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
