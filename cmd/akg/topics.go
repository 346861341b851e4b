package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kmitl-it/advisorkg/internal/query"
)

func init() {
	rootCmd.AddCommand(topicsCmd)
}

var topicsCmd = &cobra.Command{
	Use:   "topics [topic]",
	Short: "List research topics or the professors under one",
	Long: `Without arguments, list every research topic with its professor
count, most popular first. With a topic, list the professors working
on it ordered by citations.

Examples:
  akg topics
  akg topics "Machine Learning"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTopics,
}

// TopicRow is one topic with its professor count.
type TopicRow struct {
	Topic          string `json:"topic"`
	ProfessorCount int    `json:"professor_count"`
}

func runTopics(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	snap := loadSnapshot(openStore(cfg))
	idx := query.BuildTopicIndex(snap.Professors)

	if len(args) == 1 {
		topic := args[0]
		rows, ok := idx[topic]
		if !ok {
			exitWithError(ExitDataError, "topic %q not found", topic)
		}

		if humanOutput {
			fmt.Printf("%d professors in %q:\n\n", len(rows), topic)
			for _, row := range rows {
				fmt.Printf("  %-30s %5d citations\n", truncateString(row.Name, 30), row.CitationCount)
			}
			return nil
		}
		return outputJSON(rows)
	}

	topics := make([]TopicRow, 0, len(idx))
	for _, label := range idx.Topics() {
		topics = append(topics, TopicRow{Topic: label, ProfessorCount: len(idx[label])})
	}

	if humanOutput {
		if len(topics) == 0 {
			fmt.Println("No topics in cache")
			return nil
		}
		for _, t := range topics {
			fmt.Printf("  %-40s %d\n", t.Topic, t.ProfessorCount)
		}
		return nil
	}
	return outputJSON(topics)
}
