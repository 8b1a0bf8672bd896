package summarize

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SlideCount is fixed: every summary becomes exactly six slides.
const SlideCount = 6

const slideSeconds = 5

type Slide struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Duration int    `json:"duration"`
}

type Result struct {
	Summary string  `json:"summary"`
	Slides  []Slide `json:"slides"`
}

// Completer is the chat-completion boundary, satisfied by *openai.Client.
type Completer interface {
	ChatCompletion(model, system, user string, maxTokens int, temperature float64) (string, error)
}

const systemPrompt = `You are a summarization expert for educational video production.
Summarize the given text into exactly 6 key points.
Each point will become a slide narrated over about 5 seconds.

Requirements:
- Exactly 6 bullet points
- Each point short enough to read in 5 seconds (30-50 characters)
- Prioritize content with high educational value
- Arrange in logical order
- Keep a polite, instructional tone

Response format (must be JSON):
{
  "summary": "one-line summary of the whole text (under 100 characters)",
  "slides": [
    {
      "title": "slide title",
      "content": "slide content (30-50 characters)",
      "duration": 5
    }
  ]
}`

// Run summarizes `text` into exactly six slides. A response with any other
// slide count is a hard failure.
func Run(c Completer, text string) (Result, error) {
	user := fmt.Sprintf("Summarize the following text into %d slides of %d seconds each:\n\n%s",
		SlideCount, slideSeconds, text)

	content, err := c.ChatCompletion("gpt-3.5-turbo", systemPrompt, user, 1500, 0.3)
	if err != nil {
		return Result{}, err
	}
	return parseResponse(content)
}

func parseResponse(content string) (Result, error) {
	// models like to wrap JSON in markdown fences
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var result Result
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return Result{}, fmt.Errorf("failed to parse summary response: %w", err)
	}

	if len(result.Slides) != SlideCount {
		return Result{}, fmt.Errorf("expected %d slides, got %d", SlideCount, len(result.Slides))
	}
	for i := range result.Slides {
		if result.Slides[i].Duration <= 0 {
			result.Slides[i].Duration = slideSeconds
		}
	}
	return result, nil
}
