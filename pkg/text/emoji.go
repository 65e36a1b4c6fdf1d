package text

// HasEmoji reports whether s contains an emoji sequence: an emoji
// presentation character, a regional indicator pair, a keycap sequence or a
// text-default pictograph forced to emoji presentation with U+FE0F.
func HasEmoji(s string) bool {
	runes := []rune(s)
	for i, r := range runes {
		next := rune(0)
		if i+1 < len(runes) {
			next = runes[i+1]
		}
		switch {
		case isEmojiPresentation(r):
			return true
		case isRegionalIndicator(r) && isRegionalIndicator(next):
			return true
		case isKeycapBase(r) && keycapAt(runes[i+1:]):
			return true
		case next == 0xFE0F && isTextDefaultEmoji(r):
			return true
		}
	}
	return false
}

// IsEmojiGrapheme reports whether a single grapheme cluster renders as
// emoji.
func IsEmojiGrapheme(g string) bool {
	return HasEmoji(g)
}

func isRegionalIndicator(r rune) bool { return r >= 0x1F1E6 && r <= 0x1F1FF }

func isKeycapBase(r rune) bool { return (r >= '0' && r <= '9') || r == '#' || r == '*' }

func keycapAt(rest []rune) bool {
	if len(rest) > 0 && rest[0] == 0xFE0F {
		rest = rest[1:]
	}
	return len(rest) > 0 && rest[0] == 0x20E3
}

// isEmojiPresentation covers the blocks whose characters default to emoji
// presentation.
func isEmojiPresentation(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1F5FF: // misc symbols and pictographs
		return true
	case r >= 0x1F600 && r <= 0x1F64F: // emoticons
		return true
	case r >= 0x1F680 && r <= 0x1F6FF: // transport and map
		return true
	case r >= 0x1F900 && r <= 0x1F9FF: // supplemental symbols and pictographs
		return true
	case r >= 0x1FA70 && r <= 0x1FAFF: // symbols and pictographs extended-A
		return true
	case r >= 0x1F004 && r <= 0x1F0CF: // mahjong, playing cards
		return r == 0x1F004 || r == 0x1F0CF
	case r >= 0x1F18E && r <= 0x1F251: // enclosed alphanumerics and ideographs
		return r == 0x1F18E || (r >= 0x1F191 && r <= 0x1F19A) || r == 0x1F201 ||
			r == 0x1F21A || r == 0x1F22F || (r >= 0x1F232 && r <= 0x1F236) ||
			(r >= 0x1F238 && r <= 0x1F23A) || r == 0x1F250 || r == 0x1F251
	case r >= 0x231A && r <= 0x23FA:
		return r == 0x231A || r == 0x231B || (r >= 0x23E9 && r <= 0x23EC) ||
			r == 0x23F0 || r == 0x23F3
	case r >= 0x25FD && r <= 0x27BF:
		return r == 0x25FD || r == 0x25FE || r == 0x2614 || r == 0x2615 ||
			(r >= 0x2648 && r <= 0x2653) || r == 0x267F || r == 0x2693 ||
			r == 0x26A1 || r == 0x26AA || r == 0x26AB || r == 0x26BD || r == 0x26BE ||
			r == 0x26C4 || r == 0x26C5 || r == 0x26CE || r == 0x26D4 || r == 0x26EA ||
			r == 0x26F2 || r == 0x26F3 || r == 0x26F5 || r == 0x26FA || r == 0x26FD ||
			r == 0x2705 || r == 0x270A || r == 0x270B || r == 0x2728 || r == 0x274C ||
			r == 0x274E || (r >= 0x2753 && r <= 0x2755) || r == 0x2757 ||
			(r >= 0x2795 && r <= 0x2797) || r == 0x27B0 || r == 0x27BF
	case r == 0x2B1B || r == 0x2B1C || r == 0x2B50 || r == 0x2B55:
		return true
	}
	return false
}

// isTextDefaultEmoji covers pictographs that need U+FE0F for emoji
// presentation, such as ❤ or ☀.
func isTextDefaultEmoji(r rune) bool {
	switch {
	case r == 0x00A9 || r == 0x00AE || r == 0x203C || r == 0x2049 || r == 0x2122 || r == 0x2139:
		return true
	case r >= 0x2194 && r <= 0x21AA:
		return true
	case r >= 0x2300 && r <= 0x23FF:
		return true
	case r >= 0x25AA && r <= 0x27BF:
		return true
	case r >= 0x2934 && r <= 0x2935:
		return true
	case r >= 0x2B05 && r <= 0x2B07:
		return true
	case r == 0x3030 || r == 0x303D || r == 0x3297 || r == 0x3299:
		return true
	case r >= 0x1F170 && r <= 0x1F251:
		return true
	}
	return false
}
