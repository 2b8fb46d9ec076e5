package translate

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func writeModel(t *testing.T, root, source, target string, lexicon string) {
	t.Helper()
	dir := filepath.Join(root, source+"_"+target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir model dir: %v", err)
	}
	manifest := "name = \"" + source + "-" + target + " test model\"\nversion = \"1.0\"\nsource_lang = \"" + source + "\"\ntarget_lang = \"" + target + "\"\n"
	if err := os.WriteFile(filepath.Join(dir, "model.toml"), []byte(manifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "lexicon.tsv"), []byte(lexicon), 0o644); err != nil {
		t.Fatalf("write lexicon: %v", err)
	}
}

func TestOfflineBackendTranslate(t *testing.T) {
	root := t.TempDir()
	writeModel(t, root, "en", "nb", "hello\thei\nworld\tverden\ngood morning\tgod morgen\n")

	backend := NewOfflineBackend(OpenCatalog(root))
	got, err := backend.Translate(context.Background(), "Hello world", "en", "nb")
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if got != "Hei verden" {
		t.Fatalf("expected %q, got %q", "Hei verden", got)
	}
}

func TestOfflineBackendPhraseMatch(t *testing.T) {
	root := t.TempDir()
	writeModel(t, root, "en", "nb", "good morning\tgod morgen\ngood\tgod\nmorning\tmorgen\n")

	backend := NewOfflineBackend(OpenCatalog(root))
	got, err := backend.Translate(context.Background(), "good morning", "en", "nb")
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if got != "god morgen" {
		t.Fatalf("expected longest-phrase match, got %q", got)
	}
}

func TestOfflineBackendUnknownWordsPassThrough(t *testing.T) {
	root := t.TempDir()
	writeModel(t, root, "en", "nb", "hello\thei\n")

	backend := NewOfflineBackend(OpenCatalog(root))
	got, err := backend.Translate(context.Background(), "hello zyzzyva!", "en", "nb")
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if got != "hei zyzzyva!" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestOfflineBackendModelMissing(t *testing.T) {
	backend := NewOfflineBackend(OpenCatalog(t.TempDir()))
	_, err := backend.Translate(context.Background(), "hello", "en", "de")
	if !IsModelMissing(err) {
		t.Fatalf("expected model-missing error, got %v", err)
	}
}

func TestOfflineBackendConcurrentCalls(t *testing.T) {
	root := t.TempDir()
	writeModel(t, root, "en", "nb", "hello\thei\n")

	backend := NewOfflineBackend(OpenCatalog(root))
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := backend.Translate(context.Background(), "hello", "en", "nb")
			if err != nil || got != "hei" {
				t.Errorf("concurrent translate: got %q err %v", got, err)
			}
		}()
	}
	wg.Wait()
}

func TestCatalogList(t *testing.T) {
	root := t.TempDir()
	writeModel(t, root, "en", "nb", "hello\thei\n")
	writeModel(t, root, "de", "en", "hallo\thello\n")

	models, err := OpenCatalog(root).List()
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("expected 2 models, got %d", len(models))
	}
	if models[0].Source != "de" || models[1].Source != "en" {
		t.Fatalf("unexpected order: %+v", models)
	}
	if models[1].Name != "en-nb test model" || models[1].Version != "1.0" {
		t.Fatalf("manifest not read: %+v", models[1])
	}
}

func TestCatalogListMissingRoot(t *testing.T) {
	models, err := OpenCatalog(filepath.Join(t.TempDir(), "absent")).List()
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(models) != 0 {
		t.Fatalf("expected no models, got %d", len(models))
	}
}
