package recipe

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestFormatText(t *testing.T) {
	r := Recipe{
		Title:              "Tea",
		Category:           "Drink",
		CookTime:           intPtr(5),
		Servings:           intPtr(1),
		CaloriesPerServing: intPtr(2),
		Description:        "Hot and simple.",
		Ingredients:        []string{"water", "tea leaf"},
		Steps:              []string{"boil", "steep"},
	}

	want := strings.Join([]string{
		"Tea",
		"Категорія: Drink",
		"Час: 5 хв",
		"Порцій: 1",
		"Калорійність: 2 ккал/порція",
		"",
		"Hot and simple.",
		"",
		"Інгредієнти:",
		"- water",
		"- tea leaf",
		"",
		"Кроки приготування:",
		"1. boil",
		"2. steep",
	}, "\n")

	if got := FormatText(r); got != want {
		t.Errorf("Expected:\n%s\ngot:\n%s", want, got)
	}
}

func TestFormatTextOmitsEmptyOptionals(t *testing.T) {
	got := FormatText(Recipe{Title: "Tea", Category: "Drink"})
	for _, unwanted := range []string{"Час:", "Порцій:", "Калорійність:"} {
		if strings.Contains(got, unwanted) {
			t.Errorf("Expected %q to be omitted, got:\n%s", unwanted, got)
		}
	}
	if !strings.HasPrefix(got, "Tea\nКатегорія: Drink\n\nІнгредієнти:") {
		t.Errorf("Expected header followed by ingredients section, got:\n%s", got)
	}
}

func TestImportExportRoundTrip(t *testing.T) {
	original := Recipe{
		Title:       "Tea",
		Category:    "Drink",
		Ingredients: []string{"water", "tea leaf"},
		Steps:       []string{"boil", "steep"},
	}

	f, err := ParseText(FormatText(original))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if f.Title != original.Title {
		t.Errorf("Expected title %q, got %q", original.Title, f.Title)
	}
	if f.Category != original.Category {
		t.Errorf("Expected category %q, got %q", original.Category, f.Category)
	}
	if !reflect.DeepEqual(f.Ingredients, original.Ingredients) {
		t.Errorf("Expected ingredients %v, got %v", original.Ingredients, f.Ingredients)
	}
	if !reflect.DeepEqual(f.Steps, original.Steps) {
		t.Errorf("Expected steps %v, got %v", original.Steps, f.Steps)
	}
	if f.Description != "" || f.CookTime != nil || f.Servings != nil || f.CaloriesPerServing != nil {
		t.Errorf("Expected empty optionals, got %+v", f)
	}
}

func TestRoundTripSamples(t *testing.T) {
	for _, sample := range Samples() {
		t.Run(sample.Title, func(t *testing.T) {
			var r Recipe
			r.apply(sample)
			f, err := ParseText(FormatText(r))
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if !reflect.DeepEqual(f, sample) {
				t.Errorf("Expected %+v, got %+v", sample, f)
			}
		})
	}
}

func TestParseText(t *testing.T) {
	t.Run("ShortLayout", func(t *testing.T) {
		text := "\n\nTea\nDrink\nHot drink\n- water\n• tea leaf\n\n1. boil\n2) steep\npour\n"
		f, err := ParseText(text)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if f.Title != "Tea" || f.Category != "Drink" || f.Description != "Hot drink" {
			t.Errorf("Expected header fields, got %+v", f)
		}
		if !reflect.DeepEqual(f.Ingredients, []string{"water", "tea leaf"}) {
			t.Errorf("Expected [water tea leaf], got %v", f.Ingredients)
		}
		if !reflect.DeepEqual(f.Steps, []string{"boil", "steep", "pour"}) {
			t.Errorf("Expected [boil steep pour], got %v", f.Steps)
		}
	})

	t.Run("ShortLayoutBlankDescription", func(t *testing.T) {
		f, err := ParseText("Omelette\nBreakfast\n\negg\nmilk\n\nwhisk\nfry")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if f.Description != "" {
			t.Errorf("Expected empty description, got %q", f.Description)
		}
		if !reflect.DeepEqual(f.Ingredients, []string{"egg", "milk"}) {
			t.Errorf("Expected [egg milk], got %v", f.Ingredients)
		}
		if !reflect.DeepEqual(f.Steps, []string{"whisk", "fry"}) {
			t.Errorf("Expected [whisk fry], got %v", f.Steps)
		}
	})

	t.Run("Metadata", func(t *testing.T) {
		text := "Soup\nКатегорія: Обід\nЧас: 40 хв\nПорцій: 3\nКалорійність: 250 ккал/порція\n\nWarm.\nThick.\n\nІнгредієнти:\n- pumpkin\n\n- cream\n\nКроки приготування:\n1. cook"
		f, err := ParseText(text)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if f.CookTime == nil || *f.CookTime != 40 {
			t.Errorf("Expected cook time 40, got %v", f.CookTime)
		}
		if f.Servings == nil || *f.Servings != 3 {
			t.Errorf("Expected 3 servings, got %v", f.Servings)
		}
		if f.CaloriesPerServing == nil || *f.CaloriesPerServing != 250 {
			t.Errorf("Expected 250 calories, got %v", f.CaloriesPerServing)
		}
		if f.Description != "Warm.\nThick." {
			t.Errorf("Expected two-line description, got %q", f.Description)
		}
		if !reflect.DeepEqual(f.Ingredients, []string{"pumpkin", "cream"}) {
			t.Errorf("Expected blank lines inside a section to be ignored, got %v", f.Ingredients)
		}
	})

	t.Run("MissingCategory", func(t *testing.T) {
		_, err := ParseText("Tea\n\n\n")
		if !errors.Is(err, ErrValidation) {
			t.Errorf("Expected ErrValidation, got %v", err)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := ParseText("   ")
		if !errors.Is(err, ErrValidation) {
			t.Errorf("Expected ErrValidation, got %v", err)
		}
	})
}
