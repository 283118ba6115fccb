package game

// shouldExplainRejection decides whether a rejected submission gets a
// guidance reply or a silent drop. Normal chat traffic is never echoed;
// only a sender who addressed the bot directly has shown enough intent to
// warrant an explanation.
func shouldExplainRejection(text string, addressedToBot bool) bool {
	if text == "" {
		return false
	}
	return addressedToBot
}
