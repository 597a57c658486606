package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

var (
	okStatus   = color.New(color.FgGreen).SprintFunc()
	failStatus = color.New(color.FgRed, color.Bold).SprintFunc()
)

// renderSummary prints one row per completed command plus a footer line.
func renderSummary(w io.Writer, results []ExecResult) {
	table := tablewriter.NewWriter(w)
	table.Header("#", "Command", "Status", "Time", "Output")

	for i, res := range results {
		status := okStatus("ok")
		if res.ExitCode != 0 {
			status = failStatus(fmt.Sprintf("exit %d", res.ExitCode))
		}
		table.Append(
			strconv.Itoa(i),
			strings.Join(res.Argv, " "),
			status,
			res.Elapsed.Round(time.Millisecond).String(),
			firstLine(res.Output),
		)
	}
	table.Render()

	if failed := countFailed(results); failed > 0 {
		fmt.Fprintf(w, "%s %d of %d commands failed\n", failStatus("✗"), failed, len(results))
	} else {
		fmt.Fprintf(w, "%s %d commands completed\n", okStatus("✓"), len(results))
	}
}

func countFailed(results []ExecResult) int {
	return lo.CountBy(results, func(res ExecResult) bool { return res.ExitCode != 0 })
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	if len(line) > 60 {
		line = line[:57] + "..."
	}
	return line
}
