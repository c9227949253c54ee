package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/carlosx8664/skyy-fc/content"
	"github.com/carlosx8664/skyy-fc/dataset"
	"github.com/carlosx8664/skyy-fc/store"
)

func listDocuments(c *cli.Context) error {
	s, err := getStore(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	opts, err := store.BuildQueryOptions(
		c.String("type"),
		c.Int("limit"),
		c.Int("offset"),
		c.String("since"),
	)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Invalid query options: %v", err), ExitUsageError)
	}

	docs, err := s.GetDocuments(opts)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to get documents: %v", err), ExitDataError)
	}

	records := make([]json.RawMessage, 0, len(docs))
	for _, d := range docs {
		r, err := dataset.Record(d)
		if err != nil {
			return cli.Exit(err.Error(), ExitDataError)
		}
		records = append(records, r)
	}

	return outputJSON(map[string]interface{}{
		"count":     len(records),
		"limit":     opts.Limit,
		"offset":    opts.Offset,
		"documents": records,
	})
}

func showDocument(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("Usage: matchday show <document-id>", ExitUsageError)
	}

	s, err := getStore(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	d, err := s.GetDocument(c.Args().Get(0))
	if errors.Is(err, store.ErrNotFound) {
		return cli.Exit(fmt.Sprintf("No document with ID %q", c.Args().Get(0)), ExitDataError)
	}
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to get document: %v", err), ExitDataError)
	}

	r, err := dataset.Record(d)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	return outputJSON(r)
}

func removeDocuments(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("Usage: matchday remove <document-id>...", ExitUsageError)
	}

	s, err := getStore(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	removed := 0
	for _, id := range c.Args().Slice() {
		if _, err := s.GetDocument(id); err != nil {
			continue
		}
		if err := s.DeleteDocument(id); err != nil {
			continue
		}
		removed++
	}

	return outputJSON(map[string]interface{}{
		"removed": removed,
	})
}

func showStats(c *cli.Context) error {
	s, err := getStore(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	counts, err := s.CountByType()
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to count documents: %v", err), ExitDataError)
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	return outputJSON(map[string]interface{}{
		"total":   total,
		"by_type": counts,
	})
}

func importDataset(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("Usage: matchday import <file.ndjson>", ExitUsageError)
	}

	path := c.Args().Get(0)

	file, err := os.Open(path)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to open dataset: %v", err), ExitDataError)
	}
	defer file.Close()

	docs, err := dataset.Parse(file)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to parse dataset: %v", err), ExitDataError)
	}

	s, err := getStore(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	replaced := map[string]int64{}
	if c.Bool("replace") {
		for _, d := range docs {
			if _, done := replaced[d.Type]; done {
				continue
			}
			n, err := s.DeleteType(d.Type)
			if err != nil {
				return cli.Exit(err.Error(), ExitDataError)
			}
			replaced[d.Type] = n
		}
	}

	imported := 0
	skipped := 0
	var errs []string

	for _, d := range docs {
		if err := s.SaveDocument(d); err != nil {
			skipped++
			errs = append(errs, fmt.Sprintf("%s: %v", d.ID, err))
			continue
		}
		imported++
	}

	return outputJSON(map[string]interface{}{
		"success":  skipped == 0,
		"imported": imported,
		"skipped":  skipped,
		"total":    len(docs),
		"replaced": replaced,
		"errors":   errs,
	})
}

func exportDataset(c *cli.Context) error {
	src, release, err := getSource(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer release()

	docs, err := dataset.Collect(c.Context, src, dataset.ExportQueries(content.AllQueries))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to read collections: %v", err), ExitDataError)
	}

	// Determine output destination
	outputPath := c.String("output")
	var writer io.Writer

	if outputPath == "" {
		writer = os.Stdout
	} else {
		file, err := os.Create(outputPath)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Failed to create output file: %v", err), ExitDataError)
		}
		defer file.Close()
		writer = file
	}

	if err := dataset.Generate(writer, docs); err != nil {
		return cli.Exit(fmt.Sprintf("Failed to write dataset: %v", err), ExitDataError)
	}

	// If outputting to file, also return JSON status
	if outputPath != "" {
		return outputJSON(map[string]interface{}{
			"success": true,
			"file":    outputPath,
			"count":   len(docs),
		})
	}

	return nil
}
