package ui

import "sync/atomic"

type Stats struct {
	Pages         atomic.Int64
	FailedPages   atomic.Int64
	FramesDerived atomic.Int64
	FramesWritten atomic.Int64
	TotalBytes    atomic.Int64
}

// Skipped is the number of derived frames that were too short to write.
func (s *Stats) Skipped() int64 {
	return s.FramesDerived.Load() - s.FramesWritten.Load()
}
