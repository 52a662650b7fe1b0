package segment

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

type Logger interface {
	Debugf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}

// ProgressSink receives the number of frames handled so far out of total,
// and the bytes written.
type ProgressSink interface {
	Update(done, total int, bytes int64)
}

type Exporter struct {
	Dir            string
	Prefix         string
	MinFrameHeight int
	Counter        *Counter
	Log            Logger
	Progress       ProgressSink
}

func (e *Exporter) FramePath(n int) string {
	return filepath.Join(e.Dir, fmt.Sprintf("%s-%d.png", e.Prefix, n))
}

// Export writes every frame at least MinFrameHeight rows tall and returns
// the written paths in order. On error the frames already written stay on
// disk.
func (e *Exporter) Export(r *Raster, frames []FrameRange) ([]string, int64, error) {
	log := e.Log
	if log == nil {
		log = nopLogger{}
	}
	if e.Counter == nil {
		e.Counter = NewCounter()
	}

	if err := os.MkdirAll(e.Dir, 0755); err != nil {
		return nil, 0, fmt.Errorf("cannot create output folder %s: %w", e.Dir, err)
	}

	files := make([]string, 0, len(frames))
	var total int64

	for i, fr := range frames {
		if h := fr.Height(); h < e.MinFrameHeight {
			log.Debugf("Skipping frame %d %s: height %dpx below %dpx\n", i+1, fr, h, e.MinFrameHeight)
			e.report(i+1, len(frames), total)
			continue
		}

		img, err := r.Crop(fr)
		if err != nil {
			return files, total, err
		}

		var path string
		var written int64
		err = e.Counter.Commit(func(n int) error {
			p := e.FramePath(n)
			w, werr := writePNG(p, img)
			if werr != nil {
				return werr
			}
			path, written = p, w
			return nil
		})
		if err != nil {
			return files, total, err
		}

		files = append(files, path)
		total += written
		log.Debugf("Saved %s (%dx%dpx)\n", path, r.Width(), fr.Height())
		e.report(i+1, len(frames), total)
	}

	return files, total, nil
}

func (e *Exporter) report(done, total int, bytes int64) {
	if e.Progress != nil {
		e.Progress.Update(done, total, bytes)
	}
}

// writePNG removes the file again if encoding or closing fails.
func writePNG(path string, img image.Image) (n int64, err error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("write frame %s: %w", path, err)
	}

	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("write frame %s: %w", path, cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	cw := &countingWriter{w: f}
	if err := imaging.Encode(cw, img, imaging.PNG); err != nil {
		return 0, fmt.Errorf("write frame %s: %w", path, err)
	}

	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
