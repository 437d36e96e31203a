package service

import (
	"image"
	_ "image/jpeg"
	"os"
	"testing"

	"github.com/Eamse/gaon/internal/storage"
)

func decodeSize(t *testing.T, path string) (int, int) {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("failed to decode %s: %v", path, err)
	}
	return cfg.Width, cfg.Height
}

func TestGenerateSizesResizesLargeSource(t *testing.T) {
	dirs := setupScratch(t)
	filename := "wide.jpg"
	writeTestJPEG(t, dirs.PathFor(storage.VariantOriginal, filename), 3000, 2000)

	set, err := GenerateSizes(dirs.PathFor(storage.VariantOriginal, filename), filename, dirs)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if set.SourceWidth != 3000 || set.SourceHeight != 2000 {
		t.Fatalf("unexpected source size %dx%d", set.SourceWidth, set.SourceHeight)
	}

	expected := map[storage.Variant]int{
		storage.VariantLarge:  1600,
		storage.VariantMedium: 1000,
		storage.VariantThumb:  400,
	}
	for variant, wantWidth := range expected {
		width, height := decodeSize(t, set.Paths[variant])
		if width != wantWidth {
			t.Fatalf("%s width = %d, want %d", variant, width, wantWidth)
		}
		if height <= 0 || height >= 2000 {
			t.Fatalf("%s height = %d, expected scaled down", variant, height)
		}
	}
}

func TestGenerateSizesNeverUpscales(t *testing.T) {
	dirs := setupScratch(t)
	filename := "small.jpg"
	writeTestJPEG(t, dirs.PathFor(storage.VariantOriginal, filename), 300, 200)

	set, err := GenerateSizes(dirs.PathFor(storage.VariantOriginal, filename), filename, dirs)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	for _, variant := range storage.Variants {
		width, height := decodeSize(t, set.Paths[variant])
		if width != 300 || height != 200 {
			t.Fatalf("%s resized to %dx%d, expected source size kept", variant, width, height)
		}
	}
}

func TestGenerateSizesRejectsBrokenSource(t *testing.T) {
	dirs := setupScratch(t)
	filename := "broken.jpg"
	path := dirs.PathFor(storage.VariantOriginal, filename)
	if err := os.WriteFile(path, []byte("this is not an image"), 0o644); err != nil {
		t.Fatalf("failed to write broken file: %v", err)
	}

	if _, err := GenerateSizes(path, filename, dirs); err == nil {
		t.Fatalf("expected decode error for broken source")
	}
}

func TestScratchDirsPaths(t *testing.T) {
	dirs := NewScratchDirs("/tmp/scratch")

	if got := dirs.PathFor(storage.VariantOriginal, "a.jpg"); got != "/tmp/scratch/original/a.jpg" {
		t.Fatalf("unexpected original path %q", got)
	}
	if got := dirs.PathFor(storage.VariantThumb, "a.jpg"); got != "/tmp/scratch/thumb/a.jpg" {
		t.Fatalf("unexpected thumb path %q", got)
	}
	if paths := dirs.AllPaths("a.jpg"); len(paths) != 4 {
		t.Fatalf("expected 4 scratch paths, got %d", len(paths))
	}
}

func TestDerivativeContentType(t *testing.T) {
	cases := map[string]string{
		"photo.jpg":  "image/jpeg",
		"photo.jpeg": "image/jpeg",
		"photo.PNG":  "image/png",
		"photo.gif":  "image/gif",
		"photo.webp": "image/jpeg",
		"photo.heic": "image/jpeg",
	}
	for filename, want := range cases {
		if got := DerivativeContentType(filename); got != want {
			t.Fatalf("DerivativeContentType(%q) = %q, want %q", filename, got, want)
		}
	}
}
