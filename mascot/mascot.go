// Package mascot generates overlay character images, one per slide.
package mascot

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// Generator is the image-synthesis boundary, satisfied by *openai.Client.
type Generator interface {
	ChatCompletion(model, system, user string, maxTokens int, temperature float64) (string, error)
	GenerateImage(prompt string) (string, error)
	FetchImage(url string) ([]byte, error)
}

var prompts = []string{
	"A cute cartoon character called 'Wootman' wearing a business suit with glasses, friendly smile, simple minimalist style, PNG transparent background",
	"A cute cartoon character called 'Wootman' wearing casual clothes with a cap, thumbs up pose, simple minimalist style, PNG transparent background",
	"A cute cartoon character called 'Wootman' wearing a lab coat with safety goggles, holding a clipboard, simple minimalist style, PNG transparent background",
	"A cute cartoon character called 'Wootman' wearing a chef's hat and apron, holding a wooden spoon, simple minimalist style, PNG transparent background",
	"A cute cartoon character called 'Wootman' wearing a graduation cap and gown, holding a diploma, simple minimalist style, PNG transparent background",
	"A cute cartoon character called 'Wootman' wearing a superhero cape and mask, heroic pose, simple minimalist style, PNG transparent background",
}

const refineSystem = `You are a creative assistant that generates image prompts for a cute cartoon character called "Wootman" based on educational content context. Always include "simple minimalist style, PNG transparent background" in your response.`

type Result struct {
	SlideIndex int
	Image      []byte // nil when generation failed
	Prompt     string
	Err        string
}

type Batch struct {
	Results   []Result
	Succeeded int
	Total     int
}

// Run generates `count` mascot images. Prompts are drawn from fixed
// templates, refined per item against `context` when one is given. Individual
// failures produce a Result with an error text and the batch continues.
// `rng` controls template selection; nil falls back to the shared source.
func Run(g Generator, rng *rand.Rand, count int, context string) Batch {
	pick := func() string {
		if rng != nil {
			return prompts[rng.Intn(len(prompts))]
		}
		return prompts[rand.Intn(len(prompts))]
	}

	batch := Batch{Total: count}
	for i := 0; i < count; i++ {
		result := Result{SlideIndex: i}

		prompt := pick()
		if context != "" {
			user := fmt.Sprintf(`Based on this educational context: %q, create a single image prompt for Wootman character that would fit this topic. Keep it simple and professional. Start with "A cute cartoon character called 'Wootman'"`, context)
			refined, err := g.ChatCompletion("gpt-3.5-turbo", refineSystem, user, 100, 0.8)
			if err == nil && refined != "" {
				prompt = refined
			}
		}
		result.Prompt = prompt

		image, err := generate(g, prompt)
		if err != nil {
			log.Errorf("mascot image %d failed: %v", i+1, err)
			result.Err = err.Error()
		} else {
			result.Image = image
			batch.Succeeded++
		}
		batch.Results = append(batch.Results, result)
	}
	return batch
}

func generate(g Generator, prompt string) ([]byte, error) {
	url, err := g.GenerateImage(prompt)
	if err != nil {
		return nil, err
	}
	return g.FetchImage(url)
}

var log *logrus.Logger = logrus.New()

func Init(logger *logrus.Logger) error {
	log = logger.WithFields(logrus.Fields{
		"component": "mascot",
	}).Logger
	return nil
}
