package assistant

import "strings"

// RecommendSubject derives a subject line from the topic based on tone.
func RecommendSubject(topic, tone string) string {
	switch tone {
	case "Formal":
		return "Regarding: " + topic
	case "Casual":
		return "Let's talk about " + topic
	case "Friendly":
		return "A quick note about " + topic
	default:
		return "Subject: " + topic
	}
}

// ResolveSubject returns the user's subject, or a recommended one when the
// answer was empty or the literal "auto".
func ResolveSubject(subject, topic, tone string) string {
	s := strings.TrimSpace(subject)
	if s == "" || strings.EqualFold(s, "auto") {
		return RecommendSubject(topic, tone)
	}
	return subject
}
