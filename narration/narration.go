// Package narration synthesizes one audio clip per slide.
package narration

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Synthesizer is the TTS boundary, satisfied by *elevenlabs.Client.
type Synthesizer interface {
	Synthesize(text, voiceID string) ([]byte, error)
}

type Slide struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Duration int    `json:"duration"`
}

// Result is tagged with the slide index rather than relying on position,
// since any subset of the batch may fail.
type Result struct {
	SlideIndex int
	Title      string
	Audio      []byte // nil when synthesis failed
	Duration   int
	Err        string
}

type Batch struct {
	Results   []Result
	Succeeded int
	Total     int
}

// Run synthesizes narration for every slide. A single slide's failure never
// aborts the batch; its result carries a nil Audio and the error text.
// `concurrency` caps in-flight requests; values below 2 process the slides
// sequentially in order. Results are always ordered by slide index.
func Run(s Synthesizer, voiceID string, slides []Slide, concurrency int) Batch {
	batch := Batch{
		Results: make([]Result, len(slides)),
		Total:   len(slides),
	}

	synthesize := func(i int) {
		slide := slides[i]
		text := fmt.Sprintf("slide %d. %s. %s", i+1, slide.Title, slide.Content)

		result := Result{
			SlideIndex: i,
			Title:      slide.Title,
			Duration:   slide.Duration,
		}
		audio, err := s.Synthesize(text, voiceID)
		if err != nil {
			log.Errorf("narration for slide %d failed: %v", i+1, err)
			result.Err = err.Error()
		} else {
			result.Audio = audio
		}
		batch.Results[i] = result
	}

	if concurrency < 2 {
		for i := range slides {
			synthesize(i)
		}
	} else {
		sem := make(chan struct{}, concurrency)
		var wg sync.WaitGroup
		for i := range slides {
			wg.Add(1)
			sem <- struct{}{}
			go func(i int) {
				defer wg.Done()
				defer func() { <-sem }()
				synthesize(i)
			}(i)
		}
		wg.Wait()
	}

	for i := range batch.Results {
		if batch.Results[i].Err == "" {
			batch.Succeeded++
		}
	}
	return batch
}

var log *logrus.Logger = logrus.New()

func Init(logger *logrus.Logger) error {
	log = logger.WithFields(logrus.Fields{
		"component": "narration",
	}).Logger
	return nil
}
