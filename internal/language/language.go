package language

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	xlang "golang.org/x/text/language"
)

type entry struct {
	code2   string // ISO 639-1 (2-letter)
	code3   string // ISO 639-2 primary (3-letter)
	alt3    string // ISO 639-2 alternate (e.g. "fre" vs "fra")
	display string
	words   []string // Full word forms (e.g. "english")
}

var languages = []entry{
	{"en", "eng", "", "English", []string{"english"}},
	{"nb", "nob", "", "Norwegian Bokmål", []string{"bokmal", "bokmål"}},
	{"nn", "nno", "", "Norwegian Nynorsk", []string{"nynorsk"}},
	{"no", "nor", "", "Norwegian", []string{"norwegian"}},
	{"da", "dan", "", "Danish", []string{"danish"}},
	{"sv", "swe", "", "Swedish", []string{"swedish"}},
	{"fi", "fin", "", "Finnish", []string{"finnish"}},
	{"de", "deu", "ger", "German", []string{"german"}},
	{"fr", "fra", "fre", "French", []string{"french"}},
	{"es", "spa", "", "Spanish", []string{"spanish"}},
	{"it", "ita", "", "Italian", []string{"italian"}},
	{"pt", "por", "", "Portuguese", []string{"portuguese"}},
	{"nl", "nld", "dut", "Dutch", []string{"dutch"}},
	{"pl", "pol", "", "Polish", []string{"polish"}},
	{"ru", "rus", "", "Russian", []string{"russian"}},
	{"uk", "ukr", "", "Ukrainian", []string{"ukrainian"}},
	{"ja", "jpn", "", "Japanese", []string{"japanese"}},
	{"ko", "kor", "", "Korean", []string{"korean"}},
	{"zh", "zho", "chi", "Chinese", []string{"chinese"}},
	{"ar", "ara", "", "Arabic", []string{"arabic"}},
	{"hi", "hin", "", "Hindi", []string{"hindi"}},
	{"tr", "tur", "", "Turkish", []string{"turkish"}},
}

var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
	byWord  map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	byWord = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
		for _, w := range e.words {
			byWord[w] = e
		}
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	// BCP 47 tags such as "en-US" reduce to their base language.
	if idx := strings.IndexAny(code, "-_"); idx > 0 {
		code = code[:idx]
	}
	if e, ok := byCode2[code]; ok {
		return e
	}
	if e, ok := byCode3[code]; ok {
		return e
	}
	if e, ok := byWord[code]; ok {
		return e
	}
	return nil
}

// Normalize converts any recognized language code, 3-letter code, word form,
// or BCP 47 tag to its ISO 639-1 code. Returns empty string for input it
// does not recognize.
func Normalize(code string) string {
	if e := lookup(code); e != nil {
		return e.code2
	}
	return ""
}

// Known reports whether the code maps to a language this build recognizes.
func Known(code string) bool {
	return lookup(code) != nil
}

// DisplayName returns a human-readable language name for any recognized
// code. Unrecognized word-like input is title-cased; short codes are
// uppercased.
func DisplayName(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return "Unknown"
	}
	if e := lookup(trimmed); e != nil {
		return e.display
	}
	if len(trimmed) > 3 {
		return cases.Title(xlang.English).String(strings.ToLower(trimmed))
	}
	return strings.ToUpper(trimmed)
}

// Pair is a validated source/target combination.
type Pair struct {
	Source string
	Target string
}

// NewPair normalizes and validates a translation language pair. Both sides
// must be recognized codes and must differ after normalization.
func NewPair(source, target string) (Pair, error) {
	src := Normalize(source)
	if src == "" {
		return Pair{}, fmt.Errorf("unrecognized source language %q", source)
	}
	tgt := Normalize(target)
	if tgt == "" {
		return Pair{}, fmt.Errorf("unrecognized target language %q", target)
	}
	if src == tgt {
		return Pair{}, fmt.Errorf("source and target language are both %q", src)
	}
	return Pair{Source: src, Target: tgt}, nil
}

// String renders the pair in its canonical "src>tgt" log form.
func (p Pair) String() string {
	return p.Source + ">" + p.Target
}

// Info describes one language known to this build.
type Info struct {
	Code2   string
	Code3   string
	Display string
}

// List returns every known language in table order.
func List() []Info {
	out := make([]Info, 0, len(languages))
	for _, e := range languages {
		out = append(out, Info{Code2: e.code2, Code3: e.code3, Display: e.display})
	}
	return out
}
