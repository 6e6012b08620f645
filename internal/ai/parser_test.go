package ai

import "testing"

func TestParseFields(t *testing.T) {
	text := "Here is my take.\nDECISION: BUY\nCONFIDENCE: 75\nREASON: Strong uptrend with volume\n"
	fields := ParseFields(text)
	if fields["DECISION"] != "BUY" {
		t.Errorf("DECISION = %q, want BUY", fields["DECISION"])
	}
	if fields["CONFIDENCE"] != "75" {
		t.Errorf("CONFIDENCE = %q, want 75", fields["CONFIDENCE"])
	}
	if fields["REASON"] != "Strong uptrend with volume" {
		t.Errorf("REASON = %q", fields["REASON"])
	}
}

func TestParseFieldsIgnoresProseAndKeepsFirst(t *testing.T) {
	text := "Note: prices rose today: sharply\ndecision: SELL\nDECISION: HOLD\n"
	fields := ParseFields(text)
	// "Note" is a single word and parses as a key; spaced keys do not.
	if fields["DECISION"] != "SELL" {
		t.Errorf("first DECISION should win, got %q", fields["DECISION"])
	}
}

func TestParseFieldsEmpty(t *testing.T) {
	if got := ParseFields(""); len(got) != 0 {
		t.Errorf("empty text parsed to %v", got)
	}
	if got := ParseFields("no colon here"); len(got) != 0 {
		t.Errorf("colon-free text parsed to %v", got)
	}
}
