package recipe

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	categoryPrefix    = "Категорія:"
	cookTimePrefix    = "Час:"
	servingsPrefix    = "Порцій:"
	caloriesPrefix    = "Калорійність:"
	ingredientsHeader = "Інгредієнти:"
	stepsHeader       = "Кроки приготування:"
)

var stepNumber = regexp.MustCompile(`^\d+[.)]\s*`)

// FormatText renders r in the plain-text interchange format.
func FormatText(r Recipe) string {
	var b strings.Builder

	b.WriteString(r.Title)
	b.WriteString("\n" + categoryPrefix + " " + r.Category)
	if r.CookTime != nil {
		fmt.Fprintf(&b, "\n%s %d хв", cookTimePrefix, *r.CookTime)
	}
	if r.Servings != nil {
		fmt.Fprintf(&b, "\n%s %d", servingsPrefix, *r.Servings)
	}
	if r.CaloriesPerServing != nil {
		fmt.Fprintf(&b, "\n%s %d ккал/порція", caloriesPrefix, *r.CaloriesPerServing)
	}
	if r.Description != "" {
		b.WriteString("\n\n" + r.Description)
	}

	b.WriteString("\n\n" + ingredientsHeader)
	for _, ing := range r.Ingredients {
		b.WriteString("\n- " + ing)
	}

	b.WriteString("\n\n" + stepsHeader)
	for i, step := range r.Steps {
		fmt.Fprintf(&b, "\n%d. %s", i+1, step)
	}
	return b.String()
}

type parseState int

const (
	stateTitle parseState = iota
	stateCategory
	stateDescription
	statePreamble
	stateIngredients
	stateSteps
)

// ParseText reads a recipe written in the interchange format. Text with
// section headers is read section by section. Text without them follows
// the short layout: title, then category and description on the two
// lines that follow it, ingredient lines up to the first blank line after
// them, then steps. A result without a title or category
// is a validation error.
func ParseText(text string) (Fields, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	sectioned := hasSectionHeaders(lines)

	var (
		f           Fields
		description []string
		state       = stateTitle
	)

	for _, raw := range lines {
		line := strings.TrimSpace(raw)

		switch state {
		case stateTitle:
			if line == "" {
				continue
			}
			f.Title = line
			state = stateCategory

		case stateCategory:
			if line == "" && sectioned {
				continue
			}
			f.Category = strings.TrimSpace(strings.TrimPrefix(line, categoryPrefix))
			state = statePreamble
			if !sectioned {
				state = stateDescription
			}

		case stateDescription:
			// Positional: a blank line here is an empty description.
			if line != "" {
				description = append(description, line)
			}
			state = statePreamble

		case statePreamble:
			switch {
			case line == "":
			case parseMeta(&f, line):
			case line == ingredientsHeader:
				state = stateIngredients
			case line == stepsHeader:
				state = stateSteps
			case sectioned:
				description = append(description, line)
			default:
				f.Ingredients = append(f.Ingredients, stripBullet(line))
				state = stateIngredients
			}

		case stateIngredients:
			switch {
			case line == stepsHeader:
				state = stateSteps
			case line == "":
				if !sectioned && len(f.Ingredients) > 0 {
					state = stateSteps
				}
			default:
				f.Ingredients = append(f.Ingredients, stripBullet(line))
			}

		case stateSteps:
			if line == "" {
				continue
			}
			f.Steps = append(f.Steps, strings.TrimSpace(stepNumber.ReplaceAllString(line, "")))
		}
	}

	f.Description = strings.Join(description, "\n")
	f = f.Normalize()
	if err := f.Validate(); err != nil {
		return Fields{}, err
	}
	return f, nil
}

func hasSectionHeaders(lines []string) bool {
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == ingredientsHeader || l == stepsHeader {
			return true
		}
	}
	return false
}

func parseMeta(f *Fields, line string) bool {
	switch {
	case strings.HasPrefix(line, cookTimePrefix):
		f.CookTime = ParseOptionalInt(strings.TrimPrefix(line, cookTimePrefix))
	case strings.HasPrefix(line, servingsPrefix):
		f.Servings = ParseOptionalInt(strings.TrimPrefix(line, servingsPrefix))
	case strings.HasPrefix(line, caloriesPrefix):
		f.CaloriesPerServing = ParseOptionalInt(strings.TrimPrefix(line, caloriesPrefix))
	default:
		return false
	}
	return true
}

func stripBullet(line string) string {
	for _, bullet := range []string{"-", "•"} {
		if strings.HasPrefix(line, bullet) {
			return strings.TrimSpace(strings.TrimPrefix(line, bullet))
		}
	}
	return line
}
