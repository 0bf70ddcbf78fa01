package strcomp

// EqualFold compares ASCII strings case-insensitively. Header names are
// ASCII by grammar, so the 0x20 trick is sufficient.
func EqualFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i]|0x20 != b[i]|0x20 {
			return false
		}
	}

	return true
}
