package batch

import (
	"context"
	"fmt"
	"sync"

	"github.com/brogergvhs/panelcut/internal/pages"
	"github.com/brogergvhs/panelcut/internal/segment"
	"github.com/brogergvhs/panelcut/internal/ui"
)

type Logger interface {
	Debugf(format string, args ...any)
	Errorf(format string, args ...any)
}

// PageTracker follows one page through export.
type PageTracker interface {
	segment.ProgressSink
	SetTotal(total int)
	MarkDone()
	Abort()
}

type PageResult struct {
	Page   pages.Page
	Result *segment.Result
	Err    error
}

type Options struct {
	OutputDir  string
	Workers    int
	SkipBroken bool
	// DryRun analyses pages without writing frames.
	DryRun bool
	// Track, if set, is called once per page before its export starts.
	Track func(name string) PageTracker
	Stats *ui.Stats
}

type Runner struct {
	seg  *segment.Segmenter
	log  Logger
	opts Options
}

func New(seg *segment.Segmenter, log Logger, opts Options) *Runner {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Stats == nil {
		opts.Stats = &ui.Stats{}
	}

	return &Runner{seg: seg, log: log, opts: opts}
}

func (r *Runner) Stats() *ui.Stats { return r.opts.Stats }

type loaded struct {
	raster   *segment.Raster
	analysis segment.Analysis
	err      error
	acquired bool
}

// Run decodes and analyses up to Workers pages at a time, but exports them
// one by one in input order so frame numbers follow page order.
//
// Without SkipBroken the first failing page stops the run and its error is
// returned together with the results so far. With SkipBroken failures are
// logged and recorded in the results.
func (r *Runner) Run(ctx context.Context, ps []pages.Page) ([]PageResult, error) {
	slots := make([]chan loaded, len(ps))
	for i := range slots {
		slots[i] = make(chan loaded, 1)
	}

	sem := make(chan struct{}, r.opts.Workers)
	stop := make(chan struct{})
	feederDone := make(chan struct{})
	var wg sync.WaitGroup

	go func() {
		defer close(feederDone)

		for i, p := range ps {
			select {
			case <-stop:
				abandon(slots[i:], context.Canceled)
				return
			default:
			}

			select {
			case <-ctx.Done():
				abandon(slots[i:], ctx.Err())
				return
			case <-stop:
				abandon(slots[i:], context.Canceled)
				return
			case sem <- struct{}{}:
			}

			wg.Add(1)
			go func() {
				defer wg.Done()
				slots[i] <- r.load(p)
			}()
		}
	}()

	defer func() {
		close(stop)
		<-feederDone
		wg.Wait()
	}()

	results := make([]PageResult, 0, len(ps))

	for i, p := range ps {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		l := <-slots[i]
		if l.err != nil && ctx.Err() != nil {
			return results, ctx.Err()
		}

		pr := PageResult{Page: p, Err: l.err}
		if l.err == nil {
			pr.Result, pr.Err = r.export(p, l)
		}
		if l.acquired {
			<-sem
		}

		results = append(results, pr)
		r.record(pr)

		if pr.Err != nil {
			if !r.opts.SkipBroken {
				return results, fmt.Errorf("page %d (%s): %w (use --skip-broken to continue)", p.Index, p.Name, pr.Err)
			}
			r.log.Errorf("Page %d (%s) failed: %v\n", p.Index, p.Name, pr.Err)
		}
	}

	return results, nil
}

func abandon(slots []chan loaded, err error) {
	for _, s := range slots {
		s <- loaded{err: err}
	}
}

func (r *Runner) load(p pages.Page) loaded {
	r.log.Debugf("Loading %s\n", p.Path)

	raster, err := segment.Load(p.Path)
	if err != nil {
		return loaded{err: err, acquired: true}
	}

	return loaded{raster: raster, analysis: r.seg.Analyze(raster), acquired: true}
}

func (r *Runner) export(p pages.Page, l loaded) (*segment.Result, error) {
	if r.opts.DryRun {
		return &segment.Result{
			InputPath:   p.Path,
			OutputDir:   r.opts.OutputDir,
			FramesCount: len(l.analysis.Frames),
			FrameRanges: l.analysis.Frames,
		}, nil
	}

	var sink segment.ProgressSink
	var tracker PageTracker
	if r.opts.Track != nil {
		tracker = r.opts.Track(p.Name)
		tracker.SetTotal(len(l.analysis.Frames))
		sink = tracker
	}

	res, err := r.seg.Export(p.Path, r.opts.OutputDir, l.raster, l.analysis, sink)
	if tracker != nil {
		if err != nil {
			tracker.Abort()
		} else {
			tracker.MarkDone()
		}
	}

	return res, err
}

func (r *Runner) record(pr PageResult) {
	st := r.opts.Stats
	if pr.Result != nil {
		st.FramesDerived.Add(int64(pr.Result.FramesCount))
		st.FramesWritten.Add(int64(len(pr.Result.Written)))
		st.TotalBytes.Add(pr.Result.Bytes)
	}
	if pr.Err != nil {
		st.FailedPages.Add(1)
		return
	}
	st.Pages.Add(1)
}

// Written flattens the frames written by every page, in order.
func Written(results []PageResult) []string {
	var out []string
	for _, pr := range results {
		if pr.Result != nil {
			out = append(out, pr.Result.Written...)
		}
	}
	return out
}
