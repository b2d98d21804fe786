// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package fuzzy

import (
	"encoding/json"
	"fmt"
)

// Decision is what the caller should do with an EntityMatchResult
type Decision int

const (
	// DecisionProceed: every match is confident, or nothing matched
	DecisionProceed Decision = iota
	// DecisionConfirm: exactly one match needs a yes/no from the user
	DecisionConfirm
	// DecisionReenter: too many uncertain matches to ask about one
	DecisionReenter
)

func (d Decision) String() string {
	switch d {
	case DecisionProceed:
		return "proceed"
	case DecisionConfirm:
		return "confirm"
	case DecisionReenter:
		return "reenter"
	default:
		return fmt.Sprintf("Decision(%d)", int(d))
	}
}

func (d Decision) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Decision) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for _, candidate := range []Decision{DecisionProceed, DecisionConfirm, DecisionReenter} {
		if candidate.String() == name {
			*d = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown decision %q", name)
}

func (d Decision) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// EntityMatchResult is the outcome of MatchEntities
type EntityMatchResult struct {
	Organizations       []MatchResult `json:"organizations" yaml:"organizations"`
	Facilities          []MatchResult `json:"facilities" yaml:"facilities"`
	NeedsConfirmation   bool          `json:"needs_confirmation" yaml:"needs_confirmation"`
	ConfirmationMessage string        `json:"confirmation_message,omitempty" yaml:"confirmation_message,omitempty"`
	MultipleUncertain   bool          `json:"multiple_uncertain" yaml:"multiple_uncertain"`
	Decision            Decision      `json:"decision" yaml:"decision"`

	// Uncertain is the match awaiting confirmation, set with DecisionConfirm
	Uncertain      *MatchResult `json:"uncertain,omitempty" yaml:"uncertain,omitempty"`
	UncertainLabel string       `json:"uncertain_label,omitempty" yaml:"uncertain_label,omitempty"`
}

type labeled struct {
	label string
	match MatchResult
}

// MatchEntities resolves organizations and facilities in text and
// decides how to proceed. Matches under the ask threshold are dropped;
// those under the auto threshold are uncertain. One uncertain match asks
// for confirmation, two or more ask for re-entry.
func (r *Resolver) MatchEntities(text string) EntityMatchResult {
	finish := r.observer.StartTiming(r.GetComponentName(), "match_entities", "")

	res := EntityMatchResult{
		Organizations: r.keep(r.ExtractOrganizations(text)),
		Facilities:    r.keep(r.ExtractFacilities(text)),
	}

	var uncertain []labeled
	for _, m := range res.Organizations {
		if m.Confidence < r.auto {
			uncertain = append(uncertain, labeled{r.orgLabel, m})
		}
	}
	for _, m := range res.Facilities {
		if m.Confidence < r.auto {
			uncertain = append(uncertain, labeled{r.facLabel, m})
		}
	}

	switch {
	case len(uncertain) >= 2:
		res.Decision = DecisionReenter
		res.MultipleUncertain = true
		res.ConfirmationMessage = MultipleUncertainMarker
	case len(uncertain) == 1:
		u := uncertain[0]
		res.Decision = DecisionConfirm
		res.NeedsConfirmation = true
		res.Uncertain = &u.match
		res.UncertainLabel = u.label
		res.ConfirmationMessage = fmt.Sprintf(r.template, u.label, u.match.Matched)
	default:
		res.Decision = DecisionProceed
	}

	finish(true, map[string]interface{}{
		"content_length": len(text),
		"match_count":    len(res.Organizations) + len(res.Facilities),
		"uncertain":      len(uncertain),
		"decision":       res.Decision.String(),
	})
	return res
}

// keep drops matches below the ask threshold
func (r *Resolver) keep(results []MatchResult) []MatchResult {
	out := make([]MatchResult, 0, len(results))
	for _, m := range results {
		if m.Confidence >= r.ask {
			out = append(out, m)
		}
	}
	return out
}
