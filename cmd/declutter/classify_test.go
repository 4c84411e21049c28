package main

import (
	"fmt"
	"testing"
	"time"

	"github.com/quietfile/declutter/internal/engine"
	"github.com/quietfile/declutter/internal/learner"
	"github.com/quietfile/declutter/internal/model"
)

func TestSuggestFromPatterns(t *testing.T) {
	now := time.Date(2025, 6, 16, 10, 0, 0, 0, time.UTC)
	l := learner.New(learner.DefaultConfig())

	pattern := func(ext, dest string, conf float64) model.LearnedPattern {
		return model.LearnedPattern{
			ID:              ext + "-" + dest,
			Description:     "." + ext + " files go to " + dest,
			FileExtension:   ext,
			DestinationPath: dest,
			Conditions:      []model.Condition{model.ExtensionEquals(ext)},
			Combinator:      model.CombinatorSingle,
			Confidence:      conf,
		}
	}
	patterns := []model.LearnedPattern{
		pattern("pdf", "Documents/Reports", 0.75),
		pattern("jpg", "Pictures/Camera", 0.5),
		pattern("txt", "Notes", 0.9),
	}

	ruled := model.ResolvedFolder("Archive", "/base/Archive")
	files := []model.File{
		{Name: "report.pdf", Extension: "pdf", Status: model.StatusPending},
		{Name: "photo.jpg", Extension: "jpg", Status: model.StatusPending},
		{Name: "todo.txt", Extension: "txt", Status: model.StatusPending},
		{Name: "old.pdf", Extension: "pdf", Status: model.StatusReady,
			Destination: &ruled, MatchedRuleID: "rule-1", Confidence: 0.5},
	}

	resolver := engine.ResolverFunc(func(displayPath string) (string, error) {
		if displayPath == "Notes" {
			return "", fmt.Errorf("no such folder")
		}
		return "/base/" + displayPath, nil
	})

	got := suggestFromPatterns(l, resolver, files, patterns, 0.7, now)

	if got[0].Status != model.StatusReady {
		t.Fatalf("pdf file status = %s, want ready via pattern", got[0].Status)
	}
	if got[0].Destination == nil || got[0].Destination.Token != "/base/Documents/Reports" {
		t.Errorf("pdf destination = %+v, want resolved Documents/Reports", got[0].Destination)
	}
	if got[0].MatchedRuleID != "" {
		t.Errorf("MatchedRuleID = %q, suggestions must not claim a rule", got[0].MatchedRuleID)
	}
	if got[0].MatchReason != ".pdf files go to Documents/Reports" {
		t.Errorf("MatchReason = %q", got[0].MatchReason)
	}

	if got[1].Status != model.StatusPending {
		t.Errorf("jpg file adopted a pattern below the confidence floor")
	}
	if got[2].Status != model.StatusPending {
		t.Errorf("txt file adopted a destination that failed to resolve")
	}

	if got[3].MatchedRuleID != "rule-1" || got[3].Destination.DisplayPath != "Archive" {
		t.Errorf("rule-matched file was rewritten: %+v", got[3])
	}

	// A pattern the user has rejected away never stands in for a rule.
	patterns[0].RejectionCount = learner.DefaultConfig().MaxPatternRejections
	got = suggestFromPatterns(l, resolver, files, patterns, 0.7, now)
	if got[0].Status != model.StatusPending {
		t.Error("exhausted pattern still classified the file")
	}
}
