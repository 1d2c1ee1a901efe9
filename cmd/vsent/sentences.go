// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/creachadair/vsent"
	"github.com/creachadair/vsent/document"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	outputFormat string
	stripText    bool
)

var sentencesCmd = &cobra.Command{
	Use:   "sentences FILE",
	Short: "List the sentences of a proof script",
	Long: `List the sentences of a proof script, with the position where each
begins and ends. Positions are 0-based line:column pairs. Use "-" to read
from standard input.`,
	Args: cobra.ExactArgs(1),
	RunE: runSentences,
}

func init() {
	sentencesCmd.Flags().StringVar(&outputFormat, "format", "text", "Output format: text, json, yaml")
	sentencesCmd.Flags().BoolVar(&stripText, "strip", false, "Remove comments from sentence text")
}

// A sentenceRecord is the output form of one sentence.
type sentenceRecord struct {
	Start vsent.Position `json:"start" yaml:"start"`
	Stop  vsent.Position `json:"stop" yaml:"stop"`
	Text  string         `json:"text" yaml:"text"`
}

func runSentences(cmd *cobra.Command, args []string) error {
	var data []byte
	var err error
	if args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return err
	}

	recs, err := listSentences(document.SplitLines(string(data)), stripText)
	if err != nil {
		var uerr *vsent.UnmatchedError
		if errors.As(err, &uerr) {
			return fmt.Errorf("%s: %s: %s", args[0], uerr.Pos, uerr.Message())
		}
		return err
	}

	out := cmd.OutOrStdout()
	switch outputFormat {
	case "text":
		for _, r := range recs {
			fmt.Fprintf(out, "%v-%v\t%s\n", r.Start, r.Stop, strings.ReplaceAll(r.Text, "\n", " "))
		}
		return nil
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(recs)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(recs); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format: %s", outputFormat)
	}
}

// listSentences returns a record for each sentence of lines, in order. The
// text of each record omits leading whitespace and, if strip is true,
// comments.
func listSentences(lines [][]byte, strip bool) ([]sentenceRecord, error) {
	var recs []sentenceRecord
	s := vsent.NewScanner(lines)
	for s.Next() == nil {
		text := s.Text()
		if strip {
			text, _ = vsent.StripComments(text)
		}
		sent := s.Sentence()
		recs = append(recs, sentenceRecord{
			Start: sent.Start,
			Stop:  sent.Stop,
			Text:  string(bytes.TrimSpace(text)),
		})
	}
	if errors.Is(s.Err(), vsent.ErrNoSentence) {
		return recs, nil
	}
	return recs, s.Err()
}
