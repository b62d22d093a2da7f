package ioseed

import (
	"github.com/cheggaaa/pb/v3"
)

// newProgressBar creates a progress bar that disappears when finished.
func newProgressBar(total int64, prefix string) *pb.ProgressBar {
	bar := pb.Full.Start64(total)
	bar.Set("prefix", prefix)
	bar.Set(pb.CleanOnFinish, true)
	return bar
}
