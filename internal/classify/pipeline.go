// Package classify turns raw gateway results into validated, categorized POI
// records through a fixed five-stage pipeline: pre-filter, rule-based
// category assignment, validation, category allow-list filter, and optional
// AI-assisted re-classification.
package classify

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/hareeshnagaraj/poiseed/internal/domain/model"
)

// Suggestion is the AI classifier's opinion on a single place. A nil
// suggestion means "no opinion" and is never an error.
type Suggestion struct {
	Category    model.Category
	Confidence  float64
	Reasoning   string
	IsValid     bool
	Alternative model.Category
}

// Classifier is the external AI classification collaborator.
type Classifier interface {
	ClassifyPlace(ctx context.Context, place *model.RawPlace) (*Suggestion, error)
}

// StageIO records input/output counts at one pipeline boundary.
type StageIO struct {
	In  int `json:"in"`
	Out int `json:"out"`
}

// StageCounts is the per-stage diagnostic record for one pipeline run.
type StageCounts struct {
	PreFilter      StageIO `json:"pre_filter"`
	RuleAssign     StageIO `json:"rule_assign"`
	Validate       StageIO `json:"validate"`
	CategoryFilter StageIO `json:"category_filter"`
	AIAssist       StageIO `json:"ai_assist"`
}

// Pipeline holds the pipeline configuration. A nil classifier disables the
// AI stage; a nil allow-list admits every taxonomy category.
type Pipeline struct {
	classifier Classifier
	allowed    map[model.Category]struct{}

	// AI stage pacing: fixed-size concurrent groups with a randomized
	// per-call delay and a longer pause between groups, to stay under the
	// remote service's rate limits.
	groupSize  int
	groupPause time.Duration
	callJitter time.Duration
}

// NewPipeline creates a pipeline. allowedCategories of nil or empty means no
// category filtering.
func NewPipeline(classifier Classifier, allowedCategories []model.Category) *Pipeline {
	var allowed map[model.Category]struct{}
	if len(allowedCategories) > 0 {
		allowed = make(map[model.Category]struct{}, len(allowedCategories))
		for _, c := range allowedCategories {
			allowed[c] = struct{}{}
		}
	}
	return &Pipeline{
		classifier: classifier,
		allowed:    allowed,
		groupSize:  5,
		groupPause: 2 * time.Second,
		callJitter: 300 * time.Millisecond,
	}
}

type candidate struct {
	raw   *model.RawPlace
	place model.ClassifiedPlace
}

// Process runs the full pipeline over a batch of raw places and returns the
// surviving classified records plus per-stage counts.
func (pl *Pipeline) Process(ctx context.Context, raws []model.RawPlace) ([]model.ClassifiedPlace, StageCounts) {
	var counts StageCounts

	// Stage 1: pre-filter global ineligibility.
	counts.PreFilter.In = len(raws)
	var passed []*model.RawPlace
	for i := range raws {
		if eligible(&raws[i]) {
			passed = append(passed, &raws[i])
		} else {
			log.Printf("⚠️ pre-filter dropped %q (tags: %v)", raws[i].Name, raws[i].Tags)
		}
	}
	counts.PreFilter.Out = len(passed)

	// Stage 2: rule-based category assignment. Every survivor gets a
	// category; misc is the fallback.
	counts.RuleAssign.In = len(passed)
	candidates := make([]candidate, 0, len(passed))
	for _, raw := range passed {
		candidates = append(candidates, candidate{raw: raw, place: classifyByRules(raw)})
	}
	counts.RuleAssign.Out = len(candidates)

	// Stage 3: validation against the assigned category.
	counts.Validate.In = len(candidates)
	candidates = filterCandidates(candidates, func(c candidate) bool {
		if validateCategory(c.raw, c.place.Category) {
			return true
		}
		log.Printf("⚠️ validation dropped %q (category: %s)", c.place.Name, c.place.Category)
		return false
	})
	counts.Validate.Out = len(candidates)

	// Stage 4: allow-list filter, applied before the AI stage so remote
	// calls are not spent on already-excluded categories.
	counts.CategoryFilter.In = len(candidates)
	candidates = filterCandidates(candidates, func(c candidate) bool {
		return pl.categoryAllowed(c.place.Category)
	})
	counts.CategoryFilter.Out = len(candidates)

	// Stage 5: optional AI-assisted re-classification.
	counts.AIAssist.In = len(candidates)
	if pl.classifier != nil && len(candidates) > 0 {
		pl.refineWithAI(ctx, candidates)
	}
	counts.AIAssist.Out = len(candidates)

	out := make([]model.ClassifiedPlace, len(candidates))
	for i, c := range candidates {
		out[i] = c.place
	}
	return out, counts
}

func filterCandidates(in []candidate, keep func(candidate) bool) []candidate {
	out := in[:0]
	for _, c := range in {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func (pl *Pipeline) categoryAllowed(cat model.Category) bool {
	if pl.allowed == nil {
		return true
	}
	_, ok := pl.allowed[cat]
	return ok
}

// classifyByRules assigns the best-scoring rule category, defaulting to misc.
// Ties on priority break toward the higher confidence score.
func classifyByRules(p *model.RawPlace) model.ClassifiedPlace {
	bestScore := 0
	var best *CategoryRule
	for i := range categoryRules {
		rule := &categoryRules[i]
		if rule.Category == model.CategoryMisc {
			continue
		}
		score := rule.score(p)
		if score <= 0 {
			continue
		}
		if best == nil || rule.Priority > best.Priority ||
			(rule.Priority == best.Priority && score > bestScore) {
			best = rule
			bestScore = score
		}
	}

	place := model.ClassifiedPlace{
		ExternalID:  p.ExternalID,
		Name:        p.Name,
		Description: describe(p),
		Location:    p.Location,
		Method:      model.MethodRule,
		Rating:      p.Rating,
		PriceLevel:  p.PriceLevel,
	}
	if best == nil {
		place.Category = model.CategoryMisc
		place.Confidence = 0.3
		place.Reasoning = "no rule matched, defaulted to misc"
		return place
	}
	place.Category = best.Category
	place.Confidence = normalizeScore(bestScore)
	place.Reasoning = fmt.Sprintf("rule match for %s (score %d)", best.Category, bestScore)
	return place
}

// normalizeScore maps the integer rule score onto [0,1]. A score of 5
// (two tags and a keyword) or more is full confidence.
func normalizeScore(score int) float64 {
	c := float64(score) / 5.0
	if c > 1 {
		c = 1
	}
	return c
}

// validateCategory re-checks a category assignment: exclusions must not
// fire and at least one positive tag or keyword must match. Misc has no
// positive signal, so it instead requires the place to not be
// generic/address-like.
func validateCategory(p *model.RawPlace, cat model.Category) bool {
	if cat == model.CategoryMisc {
		return !isGenericOrAddressLike(p)
	}
	rule := RuleFor(cat)
	if rule == nil {
		return false
	}
	tags, keywords := rule.matchCounts(p)
	if tags < 0 {
		return false
	}
	return tags+keywords >= 1
}

func describe(p *model.RawPlace) string {
	if v := strings.TrimSpace(p.Vicinity); v != "" {
		return v
	}
	return p.Name
}

// refineWithAI queries the classifier for each candidate in fixed-size
// concurrent groups and applies accepted suggestions in place. A rejected or
// absent suggestion keeps the rule-based result.
func (pl *Pipeline) refineWithAI(ctx context.Context, candidates []candidate) {
	type aiResult struct {
		index      int
		suggestion *Suggestion
	}

	for start := 0; start < len(candidates); start += pl.groupSize {
		end := start + pl.groupSize
		if end > len(candidates) {
			end = len(candidates)
		}
		group := candidates[start:end]

		resultChan := make(chan aiResult, len(group))
		var wg sync.WaitGroup
		for i := range group {
			wg.Add(1)
			go func(idx int, c *candidate) {
				defer wg.Done()
				// Small randomized delay so group members do not hit the
				// service at the same instant.
				time.Sleep(time.Duration(rand.Int63n(int64(pl.callJitter) + 1)))
				suggestion, err := pl.classifier.ClassifyPlace(ctx, c.raw)
				if err != nil {
					log.Printf("⚠️ AI classification for %q failed, keeping rule result: %v", c.raw.Name, err)
					suggestion = nil
				}
				resultChan <- aiResult{index: idx, suggestion: suggestion}
			}(start+i, &candidates[start+i])
		}

		go func() {
			wg.Wait()
			close(resultChan)
		}()

		for result := range resultChan {
			pl.applySuggestion(&candidates[result.index], result.suggestion)
		}

		if end < len(candidates) {
			time.Sleep(pl.groupPause)
		}
	}
}

// applySuggestion accepts the AI category only when it is a valid taxonomy
// member, still passes validation for the new category, and still satisfies
// the allow-list. Otherwise the rule-based result stands.
func (pl *Pipeline) applySuggestion(c *candidate, s *Suggestion) {
	if s == nil || !s.IsValid {
		return
	}
	if !model.IsValidCategory(string(s.Category)) {
		return
	}
	if !validateCategory(c.raw, s.Category) {
		return
	}
	if !pl.categoryAllowed(s.Category) {
		return
	}
	c.place.Category = s.Category
	c.place.Method = model.MethodAI
	if s.Confidence > 0 && s.Confidence <= 1 {
		c.place.Confidence = s.Confidence
	}
	if s.Reasoning != "" {
		c.place.Reasoning = s.Reasoning
	}
}
