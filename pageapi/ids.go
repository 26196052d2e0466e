package pageapi

//////////////////////////////////////////////////

// Checks (roughly) if the given string is a valid YouTube channel ID.
func IsValidChannelID(s string) bool {
	return isIDString(s, 6, 64)
}

// Checks (roughly) if the given string is a valid YouTube video ID.
func IsValidVideoID(s string) bool {
	return isIDString(s, 6, 48)
}

// Checks (roughly) if the given string is a valid YouTube playlist ID.
func IsValidPlaylistID(s string) bool {
	return isIDString(s, 10, 64)
}

// Letters, digits, '-' and '_' only, with a length in [min, max].
func isIDString(s string, min int, max int) bool {
	n := len(s)
	if n < min || n > max {
		return false
	}

	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		case r == '-' || r == '_':
		default:
			return false
		}
	}

	return true
}
