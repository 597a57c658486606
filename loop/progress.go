package loop

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
)

// Progress is an external sink for completion notifications. A loop calls
// Update once after each task completes, with the number completed so far
// and the total task count (0 when the total is unknown). The loop owns
// the calls, never the presentation.
type Progress interface {
	Update(completed, total int)
}

// nopProgress is the sink used when the caller configures none.
type nopProgress struct{}

func (nopProgress) Update(int, int) {}

// ProgressBar renders loop completions as a terminal progress bar.
type ProgressBar struct {
	bar *progressbar.ProgressBar
}

// NewProgressBar builds a terminal progress bar sized for total tasks
// (-1 for an unknown total) and described by the execution mode.
func NewProgressBar(total int, mode Mode) *ProgressBar {
	if total == 0 {
		total = -1
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetDescription(fmt.Sprintf("%s loop", mode)),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
	)
	return &ProgressBar{bar: bar}
}

// Update advances the bar to the completed count.
func (p *ProgressBar) Update(completed, total int) {
	_ = p.bar.Set(completed)
}

// Describe replaces the bar's description text.
func (p *ProgressBar) Describe(desc string) {
	p.bar.Describe(desc)
}

// Finish fills the bar and moves the cursor past it.
func (p *ProgressBar) Finish() {
	_ = p.bar.Finish()
}
