package main

import (
	"bufio"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/textfix/pkg/textnorm"
)

type checkResult struct {
	Input       string `json:"input"`
	Output      string `json:"output"`
	Changed     bool   `json:"changed"`
	ScoreBefore int    `json:"score_before"`
	ScoreAfter  int    `json:"score_after"`
}

func newCheckCommand(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "check [text...]",
		Short: "Normalize text given as arguments or stdin lines and show the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs := args
			if len(inputs) == 0 {
				lines, err := readLines(cmd.InOrStdin())
				if err != nil {
					return err
				}
				inputs = lines
			}
			if len(inputs) == 0 {
				return errNoInput
			}

			results := make([]checkResult, 0, len(inputs))
			for _, in := range inputs {
				out := textnorm.Normalize(in)
				results = append(results, checkResult{
					Input:       in,
					Output:      out,
					Changed:     out != in,
					ScoreBefore: textnorm.MojibakeScore(in),
					ScoreAfter:  textnorm.MojibakeScore(out),
				})
			}

			if asJSON {
				return writeJSON(cmd, results)
			}
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				rows = append(rows, []string{
					r.Input,
					r.Output,
					strconv.Itoa(r.ScoreBefore) + " → " + strconv.Itoa(r.ScoreAfter),
				})
			}
			_, err := io.WriteString(cmd.OutOrStdout(),
				renderTable([]string{"Input", "Output", "Score"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight})+"\n")
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")
	return cmd
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for sc.Scan() {
		if line := sc.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, sc.Err()
}
