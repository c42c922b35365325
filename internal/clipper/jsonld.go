package clipper

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"recipe-planner/internal/recipe"
)

var isoDuration = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:\d+S)?)?$`)

// extractJSONLD looks for a schema.org Recipe in the page's JSON-LD blocks.
func extractJSONLD(doc *goquery.Document) (recipe.Fields, bool) {
	var found map[string]interface{}
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var data interface{}
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return true
		}
		found = findRecipe(data)
		return found == nil
	})
	if found == nil {
		return recipe.Fields{}, false
	}

	f := recipe.Fields{
		Title:       asString(found["name"]),
		Category:    firstString(found["recipeCategory"]),
		Description: asString(found["description"]),
		Ingredients: stringList(found["recipeIngredient"]),
		Steps:       instructions(found["recipeInstructions"]),
		Servings:    recipe.ParseOptionalInt(firstString(found["recipeYield"])),
	}
	if f.Ingredients == nil {
		f.Ingredients = stringList(found["ingredients"])
	}
	for _, key := range []string{"totalTime", "cookTime", "prepTime"} {
		if m := durationMinutes(asString(found[key])); m > 0 {
			f.CookTime = &m
			break
		}
	}
	if nutrition, ok := found["nutrition"].(map[string]interface{}); ok {
		f.CaloriesPerServing = recipe.ParseOptionalInt(asString(nutrition["calories"]))
	}
	return f, f.Title != "" || len(f.Ingredients) > 0
}

// findRecipe walks a decoded JSON-LD value, including arrays and @graph
// containers, and returns the first node typed Recipe.
func findRecipe(v interface{}) map[string]interface{} {
	switch node := v.(type) {
	case []interface{}:
		for _, item := range node {
			if r := findRecipe(item); r != nil {
				return r
			}
		}
	case map[string]interface{}:
		if hasType(node["@type"], "Recipe") {
			return node
		}
		if graph, ok := node["@graph"]; ok {
			return findRecipe(graph)
		}
	}
	return nil
}

func hasType(v interface{}, want string) bool {
	switch t := v.(type) {
	case string:
		return t == want
	case []interface{}:
		for _, item := range t {
			if s, ok := item.(string); ok && s == want {
				return true
			}
		}
	}
	return false
}

func instructions(v interface{}) []string {
	switch t := v.(type) {
	case string:
		return recipe.SplitLines(t)
	case []interface{}:
		var steps []string
		for _, item := range t {
			switch step := item.(type) {
			case string:
				steps = append(steps, step)
			case map[string]interface{}:
				if hasType(step["@type"], "HowToSection") {
					steps = append(steps, instructions(step["itemListElement"])...)
					continue
				}
				if text := asString(step["text"]); text != "" {
					steps = append(steps, text)
				} else if name := asString(step["name"]); name != "" {
					steps = append(steps, name)
				}
			}
		}
		return steps
	}
	return nil
}

func durationMinutes(s string) int {
	m := isoDuration.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(s)))
	if m == nil {
		return 0
	}
	days, _ := strconv.Atoi(m[1])
	hours, _ := strconv.Atoi(m[2])
	minutes, _ := strconv.Atoi(m[3])
	return days*24*60 + hours*60 + minutes
}

func asString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}

func firstString(v interface{}) string {
	if list, ok := v.([]interface{}); ok {
		for _, item := range list {
			if s := asString(item); s != "" {
				return s
			}
		}
		return ""
	}
	return asString(v)
}

func stringList(v interface{}) []string {
	list, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s := asString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
