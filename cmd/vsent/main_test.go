// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/creachadair/mds/mtest"
	"github.com/creachadair/vsent"
	"github.com/creachadair/vsent/document"
	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const script = `(* intro *) Lemma t : True.
Proof. exact I. Qed.
`

func TestListSentences(t *testing.T) {
	lines := document.SplitLines(script)

	got, err := listSentences(lines, false)
	if err != nil {
		t.Fatalf("listSentences: unexpected error: %v", err)
	}
	want := []sentenceRecord{
		{Start: vsent.Position{Line: 0, Col: 0}, Stop: vsent.Position{Line: 0, Col: 26}, Text: "(* intro *) Lemma t : True."},
		{Start: vsent.Position{Line: 0, Col: 27}, Stop: vsent.Position{Line: 1, Col: 5}, Text: "Proof."},
		{Start: vsent.Position{Line: 1, Col: 6}, Stop: vsent.Position{Line: 1, Col: 14}, Text: "exact I."},
		{Start: vsent.Position{Line: 1, Col: 15}, Stop: vsent.Position{Line: 1, Col: 19}, Text: "Qed."},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("listSentences: (-want, +got)\n%s", diff)
	}

	stripped, err := listSentences(lines, true)
	if err != nil {
		t.Fatalf("listSentences: unexpected error: %v", err)
	}
	if got, want := stripped[0].Text, "Lemma t : True."; got != want {
		t.Errorf("Stripped text: got %q, want %q", got, want)
	}

	if _, err := listSentences(document.SplitLines("A. (* open"), false); err == nil {
		t.Error("listSentences(unmatched): got nil error, want failure")
	}
}

func runCommand(t *testing.T, input, format string) string {
	t.Helper()
	mtest.Swap(t, &outputFormat, format)
	mtest.Swap(t, &stripText, true)

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&buf)
	if err := runSentences(cmd, []string{"-"}); err != nil {
		t.Fatalf("runSentences: unexpected error: %v", err)
	}
	return buf.String()
}

func TestRunSentences(t *testing.T) {
	t.Run("Text", func(t *testing.T) {
		got := runCommand(t, script, "text")
		want := "0:0-0:26\tLemma t : True.\n0:27-1:5\tProof.\n1:6-1:14\texact I.\n1:15-1:19\tQed.\n"
		if diff := mtest.DiffLines(got, want); diff != "" {
			t.Errorf("Output: (-got, +want)\n%s", diff)
		}
	})

	t.Run("JSON", func(t *testing.T) {
		var recs []sentenceRecord
		if err := json.Unmarshal([]byte(runCommand(t, script, "json")), &recs); err != nil {
			t.Fatalf("Decode output: %v", err)
		}
		if len(recs) != 4 || recs[3].Text != "Qed." {
			t.Errorf("Output: got %+v", recs)
		}
	})

	t.Run("YAML", func(t *testing.T) {
		var recs []sentenceRecord
		if err := yaml.Unmarshal([]byte(runCommand(t, script, "yaml")), &recs); err != nil {
			t.Fatalf("Decode output: %v", err)
		}
		if len(recs) != 4 || recs[1].Stop != (vsent.Position{Line: 1, Col: 5}) {
			t.Errorf("Output: got %+v", recs)
		}
	})

	t.Run("BadFormat", func(t *testing.T) {
		mtest.Swap(t, &outputFormat, "xml")
		cmd := &cobra.Command{}
		cmd.SetIn(strings.NewReader(script))
		cmd.SetOut(new(bytes.Buffer))
		if err := runSentences(cmd, []string{"-"}); err == nil {
			t.Error("runSentences: got nil error, want failure")
		}
	})
}

func TestDryRun(t *testing.T) {
	mtest.Swap(t, &color.NoColor, true)

	ev := &dryRun{reject: regexp.MustCompile(`admit`)}
	doc := document.NewBuffer("Lemma t : True.\nProof. (* todo *) admit. Qed.\n")
	s := vsent.New(ev, doc, nil)
	ctx := context.Background()
	if err := s.Step(ctx, 10); err != nil {
		t.Fatalf("Step: unexpected error: %v", err)
	}
	if n := len(s.Checkpoints()); n != 2 {
		t.Errorf("Checkpoints: got %d, want 2", n)
	}
	rng, ok := s.ErrorRange()
	if !ok {
		t.Fatal("ErrorRange: no error reported")
	}
	want := vsent.Range{Start: vsent.Position{Line: 1, Col: 18}, End: vsent.Position{Line: 1, Col: 23}}
	if rng != want {
		t.Errorf("ErrorRange: got %v, want %v", rng, want)
	}

	var buf bytes.Buffer
	w := &watcher{path: "t.v", sess: s, out: &buf}
	w.report()
	got := buf.String()
	for _, want := range []string{
		"t.v: 2 sentences checked through 2:6",
		`t.v:2:19: at 1:18: Refused: "admit"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Report: got %q, want mention of %q", got, want)
		}
	}
}
