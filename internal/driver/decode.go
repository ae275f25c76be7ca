package driver

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"loom/internal/diag"
	"loom/internal/feed"
	"loom/internal/project"
	"loom/internal/source"
	"loom/internal/trace"
)

// Shard is the outcome of decoding one feed file.
type Shard struct {
	Path   string
	Digest project.Digest
	Doc    *feed.Document // nil when the file could not be read or decoded
	Bag    *diag.Bag
	// Duplicate is set when an earlier shard had the same content.
	Duplicate bool
}

// DecodeShards reads every feed concurrently, at most jobs at a time. The
// result is in input order regardless of completion order. Unreadable or
// malformed feeds are reported in their shard's bag; only cancellation
// returns an error.
func DecodeShards(ctx context.Context, paths []string, jobs, maxDiagnostics int) ([]Shard, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	shards := make([]Shard, len(paths))
	if len(paths) == 0 {
		return shards, nil
	}
	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx).SpanID

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			span := trace.Begin(tracer, trace.ScopeModule, "decode", parent).WithExtra("path", path)
			shards[i] = decodeShard(path, maxDiagnostics)
			detail := "ok"
			if shards[i].Doc == nil {
				detail = "failed"
			}
			span.End(detail)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[project.Digest]int, len(shards))
	for i := range shards {
		if shards[i].Doc == nil {
			continue
		}
		if first, ok := seen[shards[i].Digest]; ok {
			shards[i].Duplicate = true
			diag.ReportInfo(diag.BagReporter{Bag: shards[i].Bag}, diag.FeedInfo, source.Span{},
				fmt.Sprintf("feed %s repeats %s, skipped", shards[i].Path, shards[first].Path)).Emit()
			continue
		}
		seen[shards[i].Digest] = i
	}
	return shards, nil
}

func decodeShard(path string, maxDiagnostics int) Shard {
	sh := Shard{Path: path, Bag: diag.NewBag(maxDiagnostics)}
	rep := diag.BagReporter{Bag: sh.Bag}
	data, err := os.ReadFile(path)
	if err != nil {
		diag.ReportError(rep, diag.IOLoadFileError, source.Span{}, fmt.Sprintf("cannot read feed: %v", err)).Emit()
		return sh
	}
	sh.Digest = project.DigestBytes(data)
	doc, err := feed.Decode(bytes.NewReader(data))
	if err != nil {
		diag.ReportError(rep, diag.FeedBadNode, source.Span{}, fmt.Sprintf("%s: %v", path, err)).Emit()
		return sh
	}
	sh.Doc = doc
	return sh
}
