package render

import (
	"bytes"
	"fmt"

	"github.com/interview-prep/backend/internal/models"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// md renders GitHub-flavoured markdown. Raw HTML in the source is never
// passed through (goldmark's default without html.WithUnsafe), so authored
// content cannot inject script or style tags.
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
		html.WithXHTML(),
	),
)

func Markdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// Question renders every markdown field of q.
func Question(q models.Question) (*models.RenderedQuestion, error) {
	content, err := Markdown(q.Content)
	if err != nil {
		return nil, err
	}
	example, err := Markdown(q.ExampleAnswer)
	if err != nil {
		return nil, err
	}
	detailed, err := Markdown(q.DetailedContent)
	if err != nil {
		return nil, err
	}
	return &models.RenderedQuestion{
		Question:            q,
		ContentHTML:         content,
		ExampleAnswerHTML:   example,
		DetailedContentHTML: detailed,
	}, nil
}
