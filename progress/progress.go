// Package progress renders upload progress on a terminal.
package progress

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// New returns a bar for total translations writing to w.
func New(w io.Writer, total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan]"+description+"[reset]"),
		progressbar.OptionOnCompletion(func() {
			_, _ = io.WriteString(w, "\n")
		}),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]▌[reset]",
			SaucerHead:    "[green]▌[reset]",
			SaucerPadding: "░",
			BarStart:      "╢",
			BarEnd:        "╟",
		}))
}

// Discard is a progress sink that renders nothing.
var Discard discard

type discard struct{}

func (discard) Add(int) error { return nil }
func (discard) Finish() error { return nil }
