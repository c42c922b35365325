package recipe

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrNotFound is returned when a recipe id does not resolve.
	ErrNotFound = errors.New("recipe not found")
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("recipe validation failed")
)

// ValidationError lists the required fields a recipe was missing.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("recipe validation failed: missing %s", strings.Join(e.Missing, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Recipe is one entry of the shared catalog.
type Recipe struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Category           string   `json:"category"`
	CookTime           *int     `json:"cookTime"`
	Servings           *int     `json:"servings"`
	CaloriesPerServing *int     `json:"caloriesPerServing"`
	Description        string   `json:"description"`
	Ingredients        []string `json:"ingredients"`
	Steps              []string `json:"steps"`
}

// Fields are the mutable parts of a recipe, as entered by a user.
type Fields struct {
	Title              string   `json:"title"`
	Category           string   `json:"category"`
	CookTime           *int     `json:"cookTime"`
	Servings           *int     `json:"servings"`
	CaloriesPerServing *int     `json:"caloriesPerServing"`
	Description        string   `json:"description"`
	Ingredients        []string `json:"ingredients"`
	Steps              []string `json:"steps"`
}

// Normalize trims text fields and drops blank ingredient and step lines.
func (f Fields) Normalize() Fields {
	f.Title = strings.TrimSpace(f.Title)
	f.Category = strings.TrimSpace(f.Category)
	f.Description = strings.TrimSpace(f.Description)
	f.Ingredients = cleanLines(f.Ingredients)
	f.Steps = cleanLines(f.Steps)
	return f
}

// Validate requires a title and a category.
func (f Fields) Validate() error {
	var missing []string
	if strings.TrimSpace(f.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(f.Category) == "" {
		missing = append(missing, "category")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// Fields returns the mutable parts of r.
func (r Recipe) Fields() Fields {
	return Fields{
		Title:              r.Title,
		Category:           r.Category,
		CookTime:           r.CookTime,
		Servings:           r.Servings,
		CaloriesPerServing: r.CaloriesPerServing,
		Description:        r.Description,
		Ingredients:        r.Ingredients,
		Steps:              r.Steps,
	}
}

func (r *Recipe) apply(f Fields) {
	r.Title = f.Title
	r.Category = f.Category
	r.CookTime = f.CookTime
	r.Servings = f.Servings
	r.CaloriesPerServing = f.CaloriesPerServing
	r.Description = f.Description
	r.Ingredients = f.Ingredients
	r.Steps = f.Steps
}

// Calories returns the calories per serving, or 0 when unknown.
func (r Recipe) Calories() int {
	if r.CaloriesPerServing == nil {
		return 0
	}
	return *r.CaloriesPerServing
}

// ParseOptionalInt turns user input into an optional number. Blank or
// non-numeric input yields nil. A leading integer is accepted ("30 хв").
func ParseOptionalInt(s string) *int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return nil
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return nil
	}
	return &n
}

// SplitLines splits a multi-line text field into trimmed, non-empty lines.
func SplitLines(text string) []string {
	return cleanLines(strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n"))
}

func cleanLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func intPtr(n int) *int { return &n }
