package telegram

// лимит телеграма на длину сообщения
const MaxMessageLen = 4096

// Truncate cuts text to MaxMessageLen runes.
func Truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxMessageLen {
		return text
	}
	return string(runes[:MaxMessageLen-1]) + "…"
}
