package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/galahad-project/galahad/internal/annotation"
	"github.com/galahad-project/galahad/internal/config"
	"github.com/galahad-project/galahad/internal/format"
	"github.com/galahad-project/galahad/internal/repository"
)

var seedDatasetID string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate a dataset with a small sample corpus",
	Long: "seed creates a dataset (if it doesn't already exist) and fills it with a " +
		"handful of labeled documents, useful for exercising the training and " +
		"prediction endpoints without hand-crafting annotation JSON.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed(cmd)
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedDatasetID, "dataset", "demo", "dataset to seed")
}

func runSeed(cmd *cobra.Command) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	repo := repository.New(cfg.Data.Root)

	exists, err := repo.DatasetExists(seedDatasetID)
	if err != nil {
		return fmt.Errorf("checking dataset %q: %w", seedDatasetID, err)
	}
	if !exists {
		if err := repo.CreateDataset(seedDatasetID); err != nil {
			return fmt.Errorf("creating dataset %q: %w", seedDatasetID, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created dataset %q\n", seedDatasetID)
	}

	docs, err := sampleDocuments()
	if err != nil {
		return fmt.Errorf("building sample documents: %w", err)
	}

	for id, doc := range docs {
		if err := repo.PutDocument(seedDatasetID, id, doc); err != nil {
			return fmt.Errorf("writing document %q: %w", id, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded document %q (%d chars)\n", id, len([]rune(doc.Text)))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "seed complete: %d document(s) in dataset %q\n", len(docs), seedDatasetID)
	return nil
}

// sampleDocuments builds the demo corpus using the same document builders the
// production classifiers are trained and predicted against, so a freshly
// seeded dataset can immediately be used with `train` and `predict`.
func sampleDocuments() (map[string]annotation.Document, error) {
	sentiment, err := format.BuildSentenceClassificationDocument(
		[]string{
			"I love this product, it works perfectly",
			"This is terrible and broke after one day",
			"Absolutely fantastic support team",
			"I hate how slow the shipping was",
		},
		[]string{"positive", "negative", "positive", "negative"},
		0,
	)
	if err != nil {
		return nil, err
	}

	entities, err := format.BuildSpanClassificationRequest(
		[][]string{{"Joe", "waited", "for", "the", "train", "in", "Boston"}},
		[][]format.LabeledSpan{
			{
				{Begin: 0, End: 1, Value: "PERSON"},
				{Begin: 4, End: 5, Value: "VEHICLE"},
				{Begin: 6, End: 7, Value: "LOCATION"},
			},
		},
		0,
	)
	if err != nil {
		return nil, err
	}

	return map[string]annotation.Document{
		"sentiment-examples": sentiment,
		"entity-examples":    entities,
	}, nil
}
