package segment

import "fmt"

// Analysis holds the intermediate results for one page.
type Analysis struct {
	Width          int
	Height         int
	SeparationRows int
	Regions        []Region
	Significant    []Region
	Frames         []FrameRange
}

// Result describes one processed page. FramesCount counts every derived
// frame range, including ranges later skipped for being too short, so it
// can exceed len(Written).
type Result struct {
	InputPath   string
	OutputDir   string
	FramesCount int
	FrameRanges []FrameRange
	Written     []string
	Bytes       int64
}

type Segmenter struct {
	opts    Options
	counter *Counter
	log     Logger
}

// New returns a Segmenter numbering frames with counter. Pass the same
// counter to every Segmenter of a run.
func New(opts Options, counter *Counter, log Logger) (*Segmenter, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if counter == nil {
		counter = NewCounter()
	}
	if log == nil {
		log = nopLogger{}
	}

	return &Segmenter{opts: opts, counter: counter, log: log}, nil
}

func (s *Segmenter) Options() Options { return s.opts }

func (s *Segmenter) Analyze(r *Raster) Analysis {
	rows := SeparationRows(r, s.opts.Palette())
	regions := GroupRegions(rows)
	significant := SignificantRegions(regions, s.opts.MinGapSize)

	s.log.Debugf("%dx%d: %d separation rows, %d regions, %d significant\n",
		r.Width(), r.Height(), len(rows), len(regions), len(significant))

	return Analysis{
		Width:          r.Width(),
		Height:         r.Height(),
		SeparationRows: len(rows),
		Regions:        regions,
		Significant:    significant,
		Frames:         DeriveFrames(significant, r.Height(), s.opts.MinFrameHeight),
	}
}

// Export writes the frames of an analysed page into outputDir.
func (s *Segmenter) Export(inputPath, outputDir string, r *Raster, a Analysis, progress ProgressSink) (*Result, error) {
	ex := &Exporter{
		Dir:            outputDir,
		Prefix:         s.opts.FilenamePrefix,
		MinFrameHeight: s.opts.MinFrameHeight,
		Counter:        s.counter,
		Log:            s.log,
		Progress:       progress,
	}

	res := &Result{
		InputPath:   inputPath,
		OutputDir:   outputDir,
		FramesCount: len(a.Frames),
		FrameRanges: a.Frames,
	}

	files, bytes, err := ex.Export(r, a.Frames)
	res.Written = files
	res.Bytes = bytes
	if err != nil {
		return res, fmt.Errorf("%s: %w", inputPath, err)
	}

	return res, nil
}

// Split loads inputPath, detects its frames and writes them to outputDir.
func (s *Segmenter) Split(inputPath, outputDir string) (*Result, error) {
	s.log.Debugf("Loading %s\n", inputPath)

	r, err := Load(inputPath)
	if err != nil {
		return nil, err
	}

	a := s.Analyze(r)
	s.log.Debugf("Detected %d frames in %s\n", len(a.Frames), inputPath)

	return s.Export(inputPath, outputDir, r, a, nil)
}
