package language

import "testing"

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"en":        "en",
		"EN":        "en",
		"eng":       "en",
		"english":   "en",
		"en-US":     "en",
		"nb":        "nb",
		"nob":       "nb",
		"norwegian": "no",
		"fre":       "fr",
		"xx":        "",
		"":          "",
	}
	for input, want := range cases {
		if got := Normalize(input); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNewPair(t *testing.T) {
	pair, err := NewPair("English", "nb")
	if err != nil {
		t.Fatalf("NewPair returned error: %v", err)
	}
	if pair.Source != "en" || pair.Target != "nb" {
		t.Fatalf("unexpected pair %+v", pair)
	}
}

func TestNewPairRejectsSameLanguage(t *testing.T) {
	if _, err := NewPair("en", "eng"); err == nil {
		t.Fatal("expected error for identical source and target")
	}
}

func TestNewPairRejectsUnknownCode(t *testing.T) {
	if _, err := NewPair("en", "zz"); err == nil {
		t.Fatal("expected error for unknown target")
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName("nb"); got != "Norwegian Bokmål" {
		t.Fatalf("DisplayName(nb) = %q", got)
	}
	if got := DisplayName("klingon"); got != "Klingon" {
		t.Fatalf("DisplayName(klingon) = %q", got)
	}
	if got := DisplayName("xq"); got != "XQ" {
		t.Fatalf("DisplayName(xq) = %q", got)
	}
}

func TestListIncludesDefaults(t *testing.T) {
	var sawEnglish, sawBokmal bool
	for _, info := range List() {
		switch info.Code2 {
		case "en":
			sawEnglish = true
		case "nb":
			sawBokmal = true
		}
	}
	if !sawEnglish || !sawBokmal {
		t.Fatal("expected en and nb in the language list")
	}
}

func TestPairString(t *testing.T) {
	pair, err := NewPair("en", "nb")
	if err != nil {
		t.Fatalf("NewPair returned error: %v", err)
	}
	if got := pair.String(); got != "en>nb" {
		t.Fatalf("expected en>nb, got %q", got)
	}
}
