// Package segment splits long vertical comic pages into panel frames.
// Rows made only of background colours are grouped into separation
// regions; the content between significant regions becomes a frame that
// is cropped at full width and written as a numbered PNG.
package segment
