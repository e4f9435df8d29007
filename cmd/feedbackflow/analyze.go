package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spacesedan/feedbackflow/internal/pipeline"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [feedback]",
	Short: "Analyze one piece of feedback and save the result",
	Long: `Analyzes the feedback given as arguments, or read from stdin when no
arguments are given, and prints the sentiment, summary, category and
flagged keywords.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		feedback, err := readFeedback(args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if err := pipeline.ValidateSubmission(feedback); err != nil {
			fmt.Fprintln(out, err.Error())
			return err
		}

		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			fmt.Fprintln(out, pipeline.FailureMessage(err))
			return err
		}
		defer a.close()

		res, err := a.pipeline.Run(cmd.Context(), feedback)
		if err != nil {
			fmt.Fprintln(out, pipeline.FailureMessage(err))
			return err
		}
		renderResult(out, res)
		return nil
	},
}

func readFeedback(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read feedback from stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

func renderResult(w io.Writer, res pipeline.Result) {
	rec := res.Record
	fmt.Fprintf(w, "Feedback Sentiment: %s\n", rec.Sentiment)
	fmt.Fprintf(w, "Summary: %s\n", rec.Summary)
	fmt.Fprintf(w, "Category: %s\n", rec.Category)
	if len(rec.FlaggedKeywords) > 0 {
		fmt.Fprintf(w, "Flagged Keywords: %s\n", strings.Join(rec.FlaggedKeywords, ", "))
	} else {
		fmt.Fprintln(w, "No critical issues found.")
	}

	switch {
	case res.Saved:
		fmt.Fprintln(w, "Feedback Saved Successfully! 🎉")
	case res.SaveErr != nil:
		fmt.Fprintf(w, "Feedback was analyzed but not saved: %s\n", res.SaveErr)
	}
}
