package driver

import (
	"context"

	"loom/internal/diag"
	"loom/internal/linker"
	"loom/internal/plugin"
	"loom/internal/plugin/builtin"
	"loom/internal/source"
	"loom/internal/trace"
)

// expand loads plugins and expands every module, dependencies first. Modules
// stuck in an include cycle follow in forest order.
func expand(ctx context.Context, res *Result, opts Options, reporter diag.Reporter) error {
	reg := plugin.NewRegistry()
	host := plugin.NewHost(reg, reporter)
	if opts.Builtin {
		host.Init(builtin.Name, builtin.Init, source.Span{})
	}
	for _, path := range opts.Plugins {
		// ошибка уже в диагностиках, остальные плагины грузим дальше
		_ = host.LoadShared(path, source.Span{})
	}
	res.Actions = reg.Names()

	disp := plugin.NewDispatcher(reg, plugin.NewContext(res.AST, res.Types, reporter))
	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx).SpanID

	for _, m := range expansionOrder(res) {
		if err := ctx.Err(); err != nil {
			return err
		}
		span := trace.Begin(tracer, trace.ScopeModule, "expand", parent).WithExtra("module", m.Path)
		mctx := trace.WithSpanContext(ctx, trace.SpanContext{SpanID: span.ID()})
		st := disp.ExpandAll(mctx, m.Program)
		span.End(summary(st))
	}
	res.Expand = disp.Stats()
	return nil
}

func expansionOrder(res *Result) []*linker.Module {
	f := res.Forest
	out := make([]*linker.Module, 0, f.Len())
	done := make(map[int]bool, f.Len())
	if res.Order != nil {
		for _, id := range res.Order.Order {
			out = append(out, f.Modules[id])
			done[int(id)] = true
		}
	}
	for i, m := range f.Modules {
		if !done[i] {
			out = append(out, m)
		}
	}
	return out
}

func summary(st plugin.Stats) string {
	if st.Invocations == 0 {
		return ""
	}
	if st.Failed == 0 && st.Unknown == 0 {
		return "ok"
	}
	return "failures"
}
