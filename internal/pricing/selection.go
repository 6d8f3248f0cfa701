package pricing

// AllSelected reports whether selected covers exactly the loaded option set.
// Order and duplicates are ignored; it is a set comparison.
func AllSelected(selected, options []string) bool {
	if len(options) == 0 {
		return false
	}
	set := make(map[string]bool, len(selected))
	for _, id := range selected {
		set[id] = true
	}
	for _, id := range options {
		if !set[id] {
			return false
		}
	}
	for _, id := range selected {
		found := false
		for _, opt := range options {
			if opt == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// ToggleAll implements the select-all checkbox: when the selection already
// equals the option set it clears, otherwise it selects every option.
func ToggleAll(selected, options []string) []string {
	if AllSelected(selected, options) {
		return []string{}
	}
	out := make([]string, len(options))
	copy(out, options)
	return out
}
