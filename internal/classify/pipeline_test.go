package classify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hareeshnagaraj/poiseed/internal/domain/model"
)

func rawPlace(name string, tags ...string) model.RawPlace {
	return model.RawPlace{
		Name:     name,
		Tags:     tags,
		Location: model.Coordinate{Latitude: 37.7749, Longitude: -122.4194},
	}
}

func TestPipelineClassifiesPark(t *testing.T) {
	pl := NewPipeline(nil, nil)

	out, counts := pl.Process(context.Background(), []model.RawPlace{
		rawPlace("Central Park", "park"),
	})

	require.Len(t, out, 1)
	assert.Equal(t, model.CategoryPark, out[0].Category)
	assert.Equal(t, model.MethodRule, out[0].Method)
	assert.Greater(t, out[0].Confidence, 0.0)
	assert.LessOrEqual(t, out[0].Confidence, 1.0)
	assert.Equal(t, 1, counts.PreFilter.In)
	assert.Equal(t, 1, counts.PreFilter.Out)
}

func TestPipelineClassifiesRestaurant(t *testing.T) {
	pl := NewPipeline(nil, nil)

	out, _ := pl.Process(context.Background(), []model.RawPlace{
		rawPlace("Joe's Pizza", "restaurant", "food"),
	})

	require.Len(t, out, 1)
	assert.Equal(t, model.CategoryRestaurant, out[0].Category)
}

func TestPipelineDropsAdministrativeBoundary(t *testing.T) {
	pl := NewPipeline(nil, nil)

	out, counts := pl.Process(context.Background(), []model.RawPlace{
		rawPlace("San Francisco", "locality", "political"),
	})

	assert.Empty(t, out)
	assert.Equal(t, 0, counts.PreFilter.Out)
}

func TestPipelineDropsAddressLikeGenericPlace(t *testing.T) {
	pl := NewPipeline(nil, nil)

	out, counts := pl.Process(context.Background(), []model.RawPlace{
		rawPlace("123 Main St", "establishment", "point_of_interest"),
	})

	assert.Empty(t, out)
	assert.Equal(t, 0, counts.PreFilter.Out)
}

func TestPipelineDropsPlaceholderNames(t *testing.T) {
	pl := NewPipeline(nil, nil)

	out, _ := pl.Process(context.Background(), []model.RawPlace{
		rawPlace("Home", "premise"),
		rawPlace("My Location", "point_of_interest"),
	})

	assert.Empty(t, out)
}

func TestPipelineBarBoostOverridesShopping(t *testing.T) {
	pl := NewPipeline(nil, nil)

	// A bottle shop tagged as a bar-adjacent liquor seller with no competing
	// generic-retail tag should land in bar, not shopping.
	out, _ := pl.Process(context.Background(), []model.RawPlace{
		rawPlace("The Whiskey Vault", "bar", "liquor_store"),
	})

	require.Len(t, out, 1)
	assert.Equal(t, model.CategoryBar, out[0].Category)
}

func TestPipelineCategoryAllowList(t *testing.T) {
	pl := NewPipeline(nil, []model.Category{model.CategoryRestaurant})

	out, counts := pl.Process(context.Background(), []model.RawPlace{
		rawPlace("Central Park", "park"),
		rawPlace("Joe's Pizza", "restaurant", "food"),
	})

	require.Len(t, out, 1)
	assert.Equal(t, model.CategoryRestaurant, out[0].Category)
	assert.Equal(t, 2, counts.CategoryFilter.In)
	assert.Equal(t, 1, counts.CategoryFilter.Out)
}

func TestPipelineMiscFallback(t *testing.T) {
	pl := NewPipeline(nil, nil)

	// A real venue name with a non-generic tag but no rule match lands in
	// misc and survives validation.
	out, _ := pl.Process(context.Background(), []model.RawPlace{
		rawPlace("Oddfellows Hall", "lodge"),
	})

	require.Len(t, out, 1)
	assert.Equal(t, model.CategoryMisc, out[0].Category)
}

// fakeClassifier is a scripted AI collaborator.
type fakeClassifier struct {
	suggestion *Suggestion
	err        error
	calls      int
}

func (f *fakeClassifier) ClassifyPlace(ctx context.Context, place *model.RawPlace) (*Suggestion, error) {
	f.calls++
	return f.suggestion, f.err
}

func fastAIPipeline(c Classifier, allowed []model.Category) *Pipeline {
	pl := NewPipeline(c, allowed)
	pl.callJitter = time.Millisecond
	pl.groupPause = time.Millisecond
	return pl
}

func TestPipelineAcceptsValidAISuggestion(t *testing.T) {
	fake := &fakeClassifier{suggestion: &Suggestion{
		Category:   model.CategoryCafe,
		Confidence: 0.9,
		Reasoning:  "serves coffee",
		IsValid:    true,
	}}
	pl := fastAIPipeline(fake, nil)

	// Tagged cafe and restaurant; rules pick restaurant (more matches), the
	// AI reclassifies to cafe, which still validates against the cafe rule.
	out, _ := pl.Process(context.Background(), []model.RawPlace{
		rawPlace("Blue Bottle", "cafe", "restaurant", "food"),
	})

	require.Len(t, out, 1)
	assert.Equal(t, model.CategoryCafe, out[0].Category)
	assert.Equal(t, model.MethodAI, out[0].Method)
	assert.Equal(t, 0.9, out[0].Confidence)
	assert.Equal(t, 1, fake.calls)
}

func TestPipelineRejectsAISuggestionFailingValidation(t *testing.T) {
	// The AI says beach, but nothing about the place matches the beach rule,
	// so the rule-based result stands.
	fake := &fakeClassifier{suggestion: &Suggestion{
		Category: model.CategoryBeach,
		IsValid:  true,
	}}
	pl := fastAIPipeline(fake, nil)

	out, _ := pl.Process(context.Background(), []model.RawPlace{
		rawPlace("Joe's Pizza", "restaurant", "food"),
	})

	require.Len(t, out, 1)
	assert.Equal(t, model.CategoryRestaurant, out[0].Category)
	assert.Equal(t, model.MethodRule, out[0].Method)
}

func TestPipelineRejectsAISuggestionOutsideAllowList(t *testing.T) {
	fake := &fakeClassifier{suggestion: &Suggestion{
		Category: model.CategoryCafe,
		IsValid:  true,
	}}
	pl := fastAIPipeline(fake, []model.Category{model.CategoryRestaurant})

	out, _ := pl.Process(context.Background(), []model.RawPlace{
		rawPlace("Blue Bottle", "cafe", "restaurant", "food"),
	})

	require.Len(t, out, 1)
	assert.Equal(t, model.CategoryRestaurant, out[0].Category)
}

func TestPipelineClassifierErrorKeepsRuleResult(t *testing.T) {
	fake := &fakeClassifier{err: errors.New("rate limited")}
	pl := fastAIPipeline(fake, nil)

	out, _ := pl.Process(context.Background(), []model.RawPlace{
		rawPlace("Joe's Pizza", "restaurant", "food"),
	})

	require.Len(t, out, 1)
	assert.Equal(t, model.CategoryRestaurant, out[0].Category)
	assert.Equal(t, model.MethodRule, out[0].Method)
}

func TestValidateCategoryMiscRejectsGeneric(t *testing.T) {
	generic := rawPlace("456 Oak Ave", "establishment")
	real := rawPlace("Oddfellows Hall", "lodge")

	assert.False(t, validateCategory(&generic, model.CategoryMisc))
	assert.True(t, validateCategory(&real, model.CategoryMisc))
}

func TestLooksLikeAddress(t *testing.T) {
	assert.True(t, looksLikeAddress("123 Main St"))
	assert.True(t, looksLikeAddress("500 5th Ave Suite 200"))
	assert.False(t, looksLikeAddress("Central Park"))
	assert.False(t, looksLikeAddress("Pier 39")) // number but no street word
}
