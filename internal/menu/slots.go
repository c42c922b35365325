package menu

import (
	"errors"
	"strings"
)

// ErrUnrecognizedMealLabel is returned when a free-text meal label matches
// no meal.
var ErrUnrecognizedMealLabel = errors.New("unrecognized meal label")

// ErrUnrecognizedDay is returned when a day label matches no weekday.
var ErrUnrecognizedDay = errors.New("unrecognized day")

// Meal identifies one of the three slots of a day.
type Meal int

const (
	Unrecognized Meal = iota
	Breakfast
	Lunch
	Dinner
)

// Meals lists the slots in display order.
var Meals = []Meal{Breakfast, Lunch, Dinner}

func (m Meal) String() string {
	switch m {
	case Breakfast:
		return "Сніданок"
	case Lunch:
		return "Обід"
	case Dinner:
		return "Вечеря"
	default:
		return "unrecognized"
	}
}

var mealPrefixes = []struct {
	prefix string
	meal   Meal
}{
	{"сні", Breakfast},
	{"bre", Breakfast},
	{"об", Lunch},
	{"lun", Lunch},
	{"веч", Dinner},
	{"din", Dinner},
}

// ResolveMeal maps a free-text label to a meal by case-insensitive prefix.
func ResolveMeal(label string) Meal {
	l := strings.ToLower(strings.TrimSpace(label))
	if l == "" {
		return Unrecognized
	}
	for _, p := range mealPrefixes {
		if strings.HasPrefix(l, p.prefix) {
			return p.meal
		}
	}
	return Unrecognized
}

// Day is one of the seven canonical weekday labels.
type Day string

const (
	Monday    Day = "Пн"
	Tuesday   Day = "Вт"
	Wednesday Day = "Ср"
	Thursday  Day = "Чт"
	Friday    Day = "Пт"
	Saturday  Day = "Сб"
	Sunday    Day = "Нд"
)

// Days lists the weekdays in canonical order.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var dayAliases = map[string]Day{
	"mon": Monday,
	"tue": Tuesday,
	"wed": Wednesday,
	"thu": Thursday,
	"fri": Friday,
	"sat": Saturday,
	"sun": Sunday,
}

// ResolveDay accepts a canonical label in any case or an English weekday
// name or abbreviation.
func ResolveDay(label string) (Day, bool) {
	l := strings.ToLower(strings.TrimSpace(label))
	for _, d := range Days {
		if l == strings.ToLower(string(d)) {
			return d, true
		}
	}
	if len(l) >= 3 {
		if d, ok := dayAliases[l[:3]]; ok {
			return d, true
		}
	}
	return "", false
}

// Slots holds the recipe ids chosen for one day. A nil id is an empty slot.
type Slots struct {
	BreakfastID *string `json:"breakfastId"`
	LunchID     *string `json:"lunchId"`
	DinnerID    *string `json:"dinnerId"`
}

// Get returns the recipe id in the given slot.
func (s Slots) Get(m Meal) *string {
	switch m {
	case Breakfast:
		return s.BreakfastID
	case Lunch:
		return s.LunchID
	case Dinner:
		return s.DinnerID
	}
	return nil
}

// Set puts recipeID into the given slot. An empty id clears it.
func (s *Slots) Set(m Meal, recipeID string) {
	var id *string
	if recipeID != "" {
		id = &recipeID
	}
	switch m {
	case Breakfast:
		s.BreakfastID = id
	case Lunch:
		s.LunchID = id
	case Dinner:
		s.DinnerID = id
	}
}

// Clear empties every slot holding recipeID and returns how many it cleared.
func (s *Slots) Clear(recipeID string) int {
	n := 0
	for _, p := range []**string{&s.BreakfastID, &s.LunchID, &s.DinnerID} {
		if *p != nil && **p == recipeID {
			*p = nil
			n++
		}
	}
	return n
}

// IDs returns the non-empty slot ids in breakfast, lunch, dinner order.
func (s Slots) IDs() []string {
	var ids []string
	for _, m := range Meals {
		if id := s.Get(m); id != nil {
			ids = append(ids, *id)
		}
	}
	return ids
}

// Weekly maps every canonical day to its slots.
type Weekly map[Day]Slots

// NewWeekly returns a week with all seven days present and empty.
func NewWeekly() Weekly {
	w := make(Weekly, len(Days))
	for _, d := range Days {
		w[d] = Slots{}
	}
	return w
}

// FillWeekly returns w restricted to the canonical days. A day w lacks
// comes back empty.
func FillWeekly(w Weekly) Weekly {
	out := make(Weekly, len(Days))
	for _, d := range Days {
		out[d] = w[d]
	}
	return out
}
