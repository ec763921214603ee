package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecommendSubject(t *testing.T) {
	cases := []struct {
		tone string
		want string
	}{
		{"Formal", "Regarding: Q3 report"},
		{"Casual", "Let's talk about Q3 report"},
		{"Friendly", "A quick note about Q3 report"},
		{"", "Subject: Q3 report"},
		{"Sarcastic", "Subject: Q3 report"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RecommendSubject("Q3 report", tc.tone), "tone %q", tc.tone)
	}
}

func TestResolveSubject(t *testing.T) {
	assert.Equal(t, "Regarding: x", ResolveSubject("auto", "x", "Formal"))
	assert.Equal(t, "Regarding: x", ResolveSubject("  AUTO  ", "x", "Formal"))
	assert.Equal(t, "Regarding: x", ResolveSubject("", "x", "Formal"))
	assert.Equal(t, "My subject", ResolveSubject("My subject", "x", "Formal"))
}

func TestComposeBody(t *testing.T) {
	got := ComposeBody("Attached is the report.", "alice@example.com", "Jane Roe", "Developer")
	assert.Equal(t, "Dear Alice,\n\nAttached is the report.\n\nSincerely,\nJane Roe\nDeveloper", got)
}

func TestComposeBodyWithoutAtSign(t *testing.T) {
	got := ComposeBody("Hi.", "bob", "Sam", "Student")
	assert.Equal(t, "Dear Bob,\n\nHi.\n\nSincerely,\nSam\nStudent", got)
}
