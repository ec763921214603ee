package callbacks

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestParseCallbackData(t *testing.T) {
	cases := []struct {
		name    string
		cb      *tele.Callback
		key     string
		payload string
	}{
		{"nil", nil, "", ""},
		{"unique set", &tele.Callback{Unique: "confirm_send_now", Data: "x"}, "confirm_send_now", "x"},
		{"raw with payload", &tele.Callback{Data: "\fdiscard|later"}, "discard", "later"},
		{"raw without payload", &tele.Callback{Data: "\fdone_upload"}, "done_upload", ""},
		{"no prefix", &tele.Callback{Data: "Formal"}, "Formal", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key, payload := ParseCallbackData(tc.cb)
			if key != tc.key || payload != tc.payload {
				t.Fatalf("got (%q, %q), want (%q, %q)", key, payload, tc.key, tc.payload)
			}
		})
	}
}
