package translate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/pelletier/go-toml/v2"
)

const offlineBackendName = "offline"

// ModelInfo describes one installed offline model package.
type ModelInfo struct {
	Source  string
	Target  string
	Name    string
	Version string
	Path    string
}

// ModelCatalog locates offline model packages on disk. A package is a
// directory named "<source>_<target>" containing a model.toml manifest and
// a lexicon.tsv translation table.
type ModelCatalog struct {
	root string
}

// OpenCatalog returns a catalog rooted at dir. The directory does not need
// to exist; an absent catalog simply has no models installed.
func OpenCatalog(dir string) *ModelCatalog {
	return &ModelCatalog{root: strings.TrimSpace(dir)}
}

type modelManifest struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	Source  string `toml:"source_lang"`
	Target  string `toml:"target_lang"`
}

// Lookup returns the package directory for a language pair, or an error
// when no model is installed.
func (c *ModelCatalog) Lookup(source, target string) (string, error) {
	if c.root == "" {
		return "", fmt.Errorf("model catalog directory not configured")
	}
	dir := filepath.Join(c.root, source+"_"+target)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("no model installed for %s_%s", source, target)
	}
	return dir, nil
}

// List enumerates installed model packages in pair order.
func (c *ModelCatalog) List() ([]ModelInfo, error) {
	if c.root == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(c.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read model catalog: %w", err)
	}

	var models []ModelInfo
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		source, target, ok := strings.Cut(entry.Name(), "_")
		if !ok || source == "" || target == "" {
			continue
		}
		model := ModelInfo{Source: source, Target: target, Path: filepath.Join(c.root, entry.Name())}
		if raw, err := os.ReadFile(filepath.Join(model.Path, "model.toml")); err == nil {
			var manifest modelManifest
			if err := toml.Unmarshal(raw, &manifest); err == nil {
				model.Name = manifest.Name
				model.Version = manifest.Version
			}
		}
		models = append(models, model)
	}
	sort.Slice(models, func(i, j int) bool {
		if models[i].Source != models[j].Source {
			return models[i].Source < models[j].Source
		}
		return models[i].Target < models[j].Target
	})
	return models, nil
}

// OfflineBackend translates using locally installed model packages. Engine
// inference is not safe for concurrent use, so a single mutex serializes
// every call; API-mode callers are unaffected.
type OfflineBackend struct {
	catalog *ModelCatalog

	mu      sync.Mutex
	engines map[string]*lexiconEngine
}

// NewOfflineBackend constructs an offline backend over the given catalog.
func NewOfflineBackend(catalog *ModelCatalog) *OfflineBackend {
	return &OfflineBackend{
		catalog: catalog,
		engines: make(map[string]*lexiconEngine),
	}
}

// Name identifies this variant for telemetry.
func (b *OfflineBackend) Name() string { return offlineBackendName }

// Translate runs local inference for one segment. The whole call holds the
// backend lock: engines keep mutable lookup state that must not be shared.
func (b *OfflineBackend) Translate(ctx context.Context, text, source, target string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	engine, err := b.engineLocked(source, target)
	if err != nil {
		return "", err
	}
	return engine.translate(text), nil
}

func (b *OfflineBackend) engineLocked(source, target string) (*lexiconEngine, error) {
	key := source + "_" + target
	if engine, ok := b.engines[key]; ok {
		return engine, nil
	}
	dir, err := b.catalog.Lookup(source, target)
	if err != nil {
		return nil, &BackendError{Kind: KindModelMissing, Backend: offlineBackendName, Err: err}
	}
	engine, err := loadLexiconEngine(filepath.Join(dir, "lexicon.tsv"))
	if err != nil {
		return nil, &BackendError{Kind: KindModelMissing, Backend: offlineBackendName, Err: err}
	}
	b.engines[key] = engine
	return engine, nil
}

// lexiconEngine is a phrase-table translator. Each lexicon.tsv line maps a
// source phrase to its translation; longest phrase match wins, unknown
// words pass through unchanged.
type lexiconEngine struct {
	phrases   map[string]string
	maxTokens int
}

func loadLexiconEngine(path string) (*lexiconEngine, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	engine := &lexiconEngine{phrases: make(map[string]string), maxTokens: 1}
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		source, target, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(source))
		if key == "" {
			continue
		}
		engine.phrases[key] = strings.TrimSpace(target)
		if n := len(strings.Fields(key)); n > engine.maxTokens {
			engine.maxTokens = n
		}
	}
	if len(engine.phrases) == 0 {
		return nil, fmt.Errorf("lexicon %s contains no entries", path)
	}
	return engine, nil
}

func (e *lexiconEngine) translate(text string) string {
	tokens := tokenize(text)
	var out strings.Builder
	for i := 0; i < len(tokens); {
		if !tokens[i].word {
			out.WriteString(tokens[i].value)
			i++
			continue
		}
		matched := false
		for span := e.maxTokens; span >= 1; span-- {
			phrase, width, ok := joinWords(tokens, i, span)
			if !ok {
				continue
			}
			if replacement, found := e.phrases[strings.ToLower(phrase)]; found {
				out.WriteString(matchCase(phrase, replacement))
				i += width
				matched = true
				break
			}
		}
		if !matched {
			out.WriteString(tokens[i].value)
			i++
		}
	}
	return out.String()
}

type token struct {
	value string
	word  bool
}

func tokenize(text string) []token {
	var tokens []token
	var current strings.Builder
	currentWord := false
	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, token{value: current.String(), word: currentWord})
			current.Reset()
		}
	}
	for _, r := range text {
		isWord := unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\''
		if current.Len() > 0 && isWord != currentWord {
			flush()
		}
		currentWord = isWord
		current.WriteRune(r)
	}
	flush()
	return tokens
}

// joinWords joins `count` word tokens starting at index i, spanning the
// separators between them. Returns the joined phrase and the number of
// tokens consumed.
func joinWords(tokens []token, i, count int) (string, int, bool) {
	var b strings.Builder
	words := 0
	j := i
	for ; j < len(tokens); j++ {
		if tokens[j].word {
			words++
		} else if strings.TrimSpace(tokens[j].value) != "" || words == 0 {
			// Only plain whitespace may sit inside a phrase.
			break
		}
		b.WriteString(tokens[j].value)
		if words == count {
			j++
			break
		}
	}
	if words != count {
		return "", 0, false
	}
	return b.String(), j - i, true
}

// matchCase carries an initial capital from the source phrase onto the
// replacement so sentence starts survive translation.
func matchCase(source, replacement string) string {
	if source == "" || replacement == "" {
		return replacement
	}
	first := []rune(source)[0]
	if unicode.IsUpper(first) {
		runes := []rune(replacement)
		runes[0] = unicode.ToUpper(runes[0])
		return string(runes)
	}
	return replacement
}
