package clipper

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"text/template"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"recipe-planner/internal/llm"
	"recipe-planner/internal/logger"
	"recipe-planner/internal/recipe"
)

// DefaultCategory is used when a page does not name a category.
const DefaultCategory = "Інше"

// maxPromptContent caps the page text sent to the LLM, in bytes.
const maxPromptContent = 12000

//go:embed extract_prompt.tmpl
var extractPrompt string

var extractTemplate = template.Must(template.New("extract").Parse(extractPrompt))

// ErrNoRecipe is returned when a page carries no structured recipe and no
// LLM is configured to read it.
var ErrNoRecipe = errors.New("no recipe found on page")

// Source tells how a clipped recipe was extracted.
type Source string

const (
	SourceStructuredData Source = "json-ld"
	SourceLLM            Source = "llm"
)

// Result is a recipe read from a web page.
type Result struct {
	Fields  recipe.Fields
	Source  Source
	Usage   llm.TokenUsage
	Latency time.Duration
}

// Clipper handles fetching and extracting recipes from URLs.
type Clipper struct {
	httpClient *http.Client
	textGen    llm.TextGenerator
	log        *logger.Logger
}

// NewClipper creates a new Clipper instance. textGen may be nil, in which
// case only pages with schema.org recipe data can be clipped.
func NewClipper(textGen llm.TextGenerator, timeout time.Duration, log *logger.Logger) *Clipper {
	return &Clipper{
		httpClient: &http.Client{Timeout: timeout},
		textGen:    textGen,
		log:        log,
	}
}

// ClipURL fetches the page and extracts a recipe from its schema.org data,
// falling back to the LLM when the page has none.
func (c *Clipper) ClipURL(ctx context.Context, url string) (Result, error) {
	doc, err := c.fetch(ctx, url)
	if err != nil {
		return Result{}, fmt.Errorf("failed to fetch content: %w", err)
	}

	if f, ok := extractJSONLD(doc); ok {
		c.log.Info("clipped recipe from structured data", "url", url, "title", f.Title)
		return Result{Fields: finish(f, doc, url), Source: SourceStructuredData}, nil
	}

	if c.textGen == nil {
		return Result{}, ErrNoRecipe
	}

	start := time.Now()
	f, usage, err := c.extractWithLLM(ctx, cleanText(doc))
	if err != nil {
		return Result{}, err
	}
	c.log.Info("clipped recipe with llm", "url", url, "title", f.Title, "prompt_tokens", usage.PromptTokens)
	return Result{
		Fields:  finish(f, doc, url),
		Source:  SourceLLM,
		Usage:   usage,
		Latency: time.Since(start),
	}, nil
}

func (c *Clipper) fetch(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "recipe-planner/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}

// cleanText returns the visible body text with noise removed. The
// document is not modified.
func cleanText(doc *goquery.Document) string {
	body := doc.Find("body").Clone()
	// Remove noise to save LLM tokens
	body.Find("script, style, nav, footer, iframe, ads, .ads, #ads").Remove()

	text := strings.Join(strings.Fields(body.Text()), " ")
	if len(text) > maxPromptContent {
		text = text[:maxPromptContent]
		for !utf8.ValidString(text) {
			text = text[:len(text)-1]
		}
	}
	return text
}

type extractedRecipe struct {
	Title              string   `json:"title"`
	Category           string   `json:"category"`
	Description        string   `json:"description"`
	CookTime           *int     `json:"cookTime"`
	Servings           *int     `json:"servings"`
	CaloriesPerServing *int     `json:"caloriesPerServing"`
	Ingredients        []string `json:"ingredients"`
	Steps              []string `json:"steps"`
}

func (c *Clipper) extractWithLLM(ctx context.Context, content string) (recipe.Fields, llm.TokenUsage, error) {
	var buf bytes.Buffer
	if err := extractTemplate.Execute(&buf, struct{ Content string }{content}); err != nil {
		return recipe.Fields{}, llm.TokenUsage{}, fmt.Errorf("failed to build prompt: %w", err)
	}

	resp, err := c.textGen.GenerateContent(ctx, buf.String())
	if err != nil {
		return recipe.Fields{}, llm.TokenUsage{}, fmt.Errorf("ai extraction failed: %w", err)
	}

	var extracted extractedRecipe
	if err := json.Unmarshal([]byte(stripCodeFence(resp.Content)), &extracted); err != nil {
		return recipe.Fields{}, resp.Usage, fmt.Errorf("failed to parse AI response: %w", err)
	}

	return recipe.Fields{
		Title:              extracted.Title,
		Category:           extracted.Category,
		Description:        extracted.Description,
		CookTime:           positive(extracted.CookTime),
		Servings:           positive(extracted.Servings),
		CaloriesPerServing: positive(extracted.CaloriesPerServing),
		Ingredients:        extracted.Ingredients,
		Steps:              extracted.Steps,
	}, resp.Usage, nil
}

// finish fills gaps the extractor left and normalizes the result.
func finish(f recipe.Fields, doc *goquery.Document, url string) recipe.Fields {
	if strings.TrimSpace(f.Title) == "" {
		f.Title = pageTitle(doc)
	}
	if strings.TrimSpace(f.Category) == "" {
		f.Category = DefaultCategory
	}
	if strings.TrimSpace(f.Description) == "" {
		f.Description = "Джерело: " + url
	}
	return f.Normalize()
}

func pageTitle(doc *goquery.Document) string {
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(og) != "" {
		return og
	}
	return doc.Find("title").First().Text()
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	return strings.TrimSuffix(strings.TrimSpace(s), "```")
}

func positive(n *int) *int {
	if n == nil || *n <= 0 {
		return nil
	}
	return n
}
