package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// SampleSRT is a small well-formed subtitle document used across tests.
const SampleSRT = "1\n00:00:01,000 --> 00:00:02,500\nHello world\n\n2\n00:00:03,000 --> 00:00:04,000\n<i>Goodbye</i> cruel world\n"

// WriteSRT writes subtitle content to path, creating parent directories.
func WriteSRT(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteModel lays out an offline model package under modelDir for the
// given language pair. Each entry maps a source phrase to its
// translation in the package lexicon.
func WriteModel(t testing.TB, modelDir, source, target string, entries map[string]string) {
	t.Helper()

	dir := filepath.Join(modelDir, source+"_"+target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir model dir: %v", err)
	}

	manifest := "name = \"" + source + "-" + target + " test model\"\n" +
		"version = \"1.0\"\n" +
		"source_lang = \"" + source + "\"\n" +
		"target_lang = \"" + target + "\"\n"
	if err := os.WriteFile(filepath.Join(dir, "model.toml"), []byte(manifest), 0o644); err != nil {
		t.Fatalf("write model manifest: %v", err)
	}

	var lexicon string
	for phrase, translation := range entries {
		lexicon += phrase + "\t" + translation + "\n"
	}
	if err := os.WriteFile(filepath.Join(dir, "lexicon.tsv"), []byte(lexicon), 0o644); err != nil {
		t.Fatalf("write model lexicon: %v", err)
	}
}
