package mascot

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
)

type fakeGenerator struct {
	refined   string
	refineErr error
	failURLs  map[string]bool
	generated []string
}

func (f *fakeGenerator) ChatCompletion(model, system, user string, maxTokens int, temperature float64) (string, error) {
	if f.refineErr != nil {
		return "", f.refineErr
	}
	return f.refined, nil
}

func (f *fakeGenerator) GenerateImage(prompt string) (string, error) {
	f.generated = append(f.generated, prompt)
	url := fmt.Sprintf("https://img.example/%d", len(f.generated))
	return url, nil
}

func (f *fakeGenerator) FetchImage(url string) ([]byte, error) {
	if f.failURLs[url] {
		return nil, fmt.Errorf("fetch refused")
	}
	return []byte("png:" + url), nil
}

func TestRunTemplatePrompts(t *testing.T) {
	g := &fakeGenerator{}
	rng := rand.New(rand.NewSource(1))
	batch := Run(g, rng, 3, "")

	if batch.Total != 3 || batch.Succeeded != 3 {
		t.Fatalf("batch = %+v", batch)
	}
	for i, r := range batch.Results {
		if r.SlideIndex != i {
			t.Errorf("result %d has SlideIndex %d", i, r.SlideIndex)
		}
		if r.Image == nil {
			t.Errorf("result %d has no image: %s", i, r.Err)
		}
		if !strings.Contains(r.Prompt, "Wootman") {
			t.Errorf("prompt %d lost the character: %q", i, r.Prompt)
		}
	}
}

func TestRunRefinesWithContext(t *testing.T) {
	g := &fakeGenerator{refined: "A cute cartoon character called 'Wootman' as a botanist, simple minimalist style, PNG transparent background"}
	batch := Run(g, rand.New(rand.NewSource(1)), 2, "photosynthesis")

	for _, r := range batch.Results {
		if r.Prompt != g.refined {
			t.Errorf("expected refined prompt, got %q", r.Prompt)
		}
	}
}

// A refinement failure silently keeps the template prompt.
func TestRunRefineFailureFallsBack(t *testing.T) {
	g := &fakeGenerator{refineErr: fmt.Errorf("llm down")}
	batch := Run(g, rand.New(rand.NewSource(1)), 1, "photosynthesis")

	r := batch.Results[0]
	if r.Image == nil {
		t.Fatalf("generation should have proceeded: %s", r.Err)
	}
	if !strings.Contains(r.Prompt, "simple minimalist style") {
		t.Errorf("expected a template prompt, got %q", r.Prompt)
	}
}

// One failed fetch never stops the rest of the batch.
func TestRunPartialFailure(t *testing.T) {
	g := &fakeGenerator{failURLs: map[string]bool{"https://img.example/2": true}}
	batch := Run(g, rand.New(rand.NewSource(1)), 3, "")

	if batch.Total != 3 {
		t.Errorf("Total = %d, want 3", batch.Total)
	}
	if batch.Succeeded != 2 {
		t.Errorf("Succeeded = %d, want 2", batch.Succeeded)
	}
	if batch.Results[1].Image != nil || batch.Results[1].Err == "" {
		t.Errorf("result 1 should have failed: %+v", batch.Results[1])
	}
	if batch.Results[2].Image == nil {
		t.Errorf("result 2 should have succeeded: %s", batch.Results[2].Err)
	}
}
