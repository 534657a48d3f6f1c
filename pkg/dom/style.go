package dom

// Style is the subset of a node's computed style the engine consumes.
// Implementations must populate every field; the zero value is not a valid
// style (Opacity 0 reads as fully transparent).
type Style struct {
	Display    string
	Visibility string
	Position   string
	OverflowX  string
	OverflowY  string
	Opacity    float64
}

// ClipsOverflow reports whether the element clips overflowing content on
// either axis.
func (s Style) ClipsOverflow() bool {
	return clips(s.OverflowX) || clips(s.OverflowY)
}

func clips(overflow string) bool {
	switch overflow {
	case "hidden", "auto", "scroll":
		return true
	}
	return false
}

// CannotClip reports whether the element generates no clipping box at all.
// Inline and display:contents elements never clip their descendants.
func (s Style) CannotClip() bool {
	return s.Display == "inline" || s.Display == "contents"
}
