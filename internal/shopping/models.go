package shopping

// Item is one line of a shopping list.
type Item struct {
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
}

// List is a user's shopping list in display order.
type List []Item

// Remaining counts the unchecked items.
func (l List) Remaining() int {
	n := 0
	for _, it := range l {
		if !it.Checked {
			n++
		}
	}
	return n
}
