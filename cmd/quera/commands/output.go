package commands

import (
	"fmt"
	"io"

	"queracli/internal/scrapers/quera"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func scoreColor(score string) text.Color {
	if quera.IsFullScore(score) {
		return text.FgGreen
	}
	return text.FgRed
}

func verdictColors(v quera.Verdict) text.Colors {
	switch v {
	case quera.VERDICT_ACCEPTED:
		return text.Colors{text.FgGreen}
	case quera.VERDICT_WRONG_ANSWER:
		return text.Colors{text.FgRed}
	case quera.VERDICT_TIME_LIMIT:
		return text.Colors{text.FgYellow}
	default:
		return nil
	}
}

func printResult(w io.Writer, res quera.SubmissionResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendRows([]table.Row{
		{"Submission", res.SubmissionId},
		{"Time", res.Timestamp},
		{"File type", res.FileType},
		{"Score", scoreColor(res.Score).Sprint(res.Score)},
	})
	t.SetStyle(table.StyleRounded)
	t.Render()

	lines := res.Lines()
	if len(lines) == 0 {
		return
	}
	fmt.Fprintln(w)
	for _, line := range lines {
		colors := verdictColors(line.Verdict)
		if colors == nil {
			fmt.Fprintln(w, line.Text)
			continue
		}
		fmt.Fprintln(w, colors.Sprint(line.Text))
	}
}
