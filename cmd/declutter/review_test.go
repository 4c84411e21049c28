package main

import (
	"testing"

	"github.com/quietfile/declutter/internal/config"
	"github.com/quietfile/declutter/internal/learner"
	"github.com/quietfile/declutter/internal/model"
)

func TestReviewCandidates(t *testing.T) {
	positive := func(ext, dest string, conf float64) model.LearnedPattern {
		return model.LearnedPattern{
			ID:              ext + "-" + dest,
			Description:     "." + ext + " files go to " + dest,
			FileExtension:   ext,
			DestinationPath: dest,
			Conditions:      []model.Condition{model.ExtensionEquals(ext)},
			Combinator:      model.CombinatorSingle,
			OccurrenceCount: 3,
			Confidence:      conf,
		}
	}
	negative := func(ext, dest string, conf float64) model.LearnedPattern {
		p := positive(ext, dest, conf)
		p.ID = "neg-" + p.ID
		p.IsNegative = true
		return p
	}

	l := learner.New(config.LearnerConfig())
	stored := []model.LearnedPattern{
		positive("pdf", "Documents/Old", 0.75),
		positive("jpg", "Pictures/Camera", 0.8),
		negative("pdf", "Documents/Old", 0.4),
	}

	got := reviewCandidates(l, stored)
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1: %+v", len(got), got)
	}
	if got[0].FileExtension != "jpg" {
		t.Errorf("kept %s, want the jpg suggestion; the rejected pdf pair must not resurface", got[0].Description)
	}

	// A weak negative does not suppress.
	stored[2].Confidence = 0.2
	got = reviewCandidates(l, stored)
	if len(got) != 2 {
		t.Errorf("got %d candidates, want 2 when the negative is below the floor", len(got))
	}
	for _, p := range got {
		if p.IsNegative {
			t.Error("negative patterns must never be offered for acceptance")
		}
	}
}
