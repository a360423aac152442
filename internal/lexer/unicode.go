package lexer

// zeroWidthJoiner lets emoji ZWJ sequences continue an identifier once
// started by an emoji-presentation rune (§4.3 identifier rules).
const zeroWidthJoiner = '‍'

// emojiPresentation approximates the "Emoji_Presentation" Unicode property
// with the ranges actually in everyday use for identifier-leading emoji,
// since the standard library does not expose that property directly.
var emojiPresentation = []struct{ lo, hi rune }{
	{0x1F300, 0x1F5FF}, // misc symbols and pictographs
	{0x1F600, 0x1F64F}, // emoticons
	{0x1F680, 0x1F6FF}, // transport and map symbols
	{0x1F900, 0x1F9FF}, // supplemental symbols and pictographs
	{0x1FA70, 0x1FAFF}, // symbols and pictographs extended-A
	{0x2600, 0x26FF},   // misc symbols
	{0x2700, 0x27BF},   // dingbats
}

func isEmojiPresentation(r rune) bool {
	for _, rg := range emojiPresentation {
		if r >= rg.lo && r <= rg.hi {
			return true
		}
	}
	return false
}
