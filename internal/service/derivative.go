package service

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/Eamse/gaon/internal/storage"
)

// DerivativeSpec 파생 이미지 한 종류의 목표 폭과 인코딩 품질.
type DerivativeSpec struct {
	Variant  storage.Variant
	MaxWidth int
	Quality  int
}

// derivativeSpecs large/medium/thumb 고정 규격.
var derivativeSpecs = []DerivativeSpec{
	{Variant: storage.VariantLarge, MaxWidth: 1600, Quality: 82},
	{Variant: storage.VariantMedium, MaxWidth: 1000, Quality: 84},
	{Variant: storage.VariantThumb, MaxWidth: 400, Quality: 86},
}

// ScratchDirs holds the four local scratch directories the pipeline writes
// to before uploading. Filenames are unique per upload, so concurrent
// requests never collide on paths.
type ScratchDirs struct {
	Original string
	Large    string
	Medium   string
	Thumb    string
}

// NewScratchDirs lays out the scratch tree under root.
func NewScratchDirs(root string) ScratchDirs {
	return ScratchDirs{
		Original: filepath.Join(root, "original"),
		Large:    filepath.Join(root, "large"),
		Medium:   filepath.Join(root, "medium"),
		Thumb:    filepath.Join(root, "thumb"),
	}
}

// Ensure creates the scratch directories if missing.
func (d ScratchDirs) Ensure() error {
	for _, dir := range []string{d.Original, d.Large, d.Medium, d.Thumb} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create scratch dir %s: %w", dir, err)
		}
	}
	return nil
}

// PathFor returns the scratch path of the given variant for a filename.
func (d ScratchDirs) PathFor(variant storage.Variant, filename string) string {
	switch variant {
	case storage.VariantLarge:
		return filepath.Join(d.Large, filename)
	case storage.VariantMedium:
		return filepath.Join(d.Medium, filename)
	case storage.VariantThumb:
		return filepath.Join(d.Thumb, filename)
	default:
		return filepath.Join(d.Original, filename)
	}
}

// AllPaths returns the original plus the three derivative scratch paths.
func (d ScratchDirs) AllPaths(filename string) []string {
	return []string{
		filepath.Join(d.Original, filename),
		filepath.Join(d.Large, filename),
		filepath.Join(d.Medium, filename),
		filepath.Join(d.Thumb, filename),
	}
}

// DerivativeSet 파생본 생성 결과. Paths는 variant별 로컬 경로.
type DerivativeSet struct {
	SourceWidth  int
	SourceHeight int
	Paths        map[storage.Variant]string
}

// GenerateSizes decodes the source once (EXIF orientation applied) and
// writes the three resized derivatives concurrently. Widths never exceed
// the target or the source width. The output format follows the source
// extension family: png stays png at max compression, gif stays gif,
// everything else is encoded as JPEG at the variant quality. A decode
// failure fails the whole generation.
func GenerateSizes(sourcePath, filename string, dirs ScratchDirs) (*DerivativeSet, error) {
	src, err := imaging.Open(sourcePath, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filename, err)
	}

	bounds := src.Bounds()
	set := &DerivativeSet{
		SourceWidth:  bounds.Dx(),
		SourceHeight: bounds.Dy(),
		Paths:        make(map[storage.Variant]string, len(derivativeSpecs)),
	}

	ext := strings.ToLower(filepath.Ext(filename))
	for _, spec := range derivativeSpecs {
		set.Paths[spec.Variant] = dirs.PathFor(spec.Variant, filename)
	}

	var g errgroup.Group
	for _, spec := range derivativeSpecs {
		g.Go(func() error {
			resized := resizeToFit(src, spec.MaxWidth)
			if err := encodeVariant(resized, set.Paths[spec.Variant], ext, spec.Quality); err != nil {
				return fmt.Errorf("%s: %w", spec.Variant, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return set, nil
}

// resizeToFit scales the image down to maxWidth preserving aspect ratio.
// Images already narrower than maxWidth are returned untouched.
func resizeToFit(src image.Image, maxWidth int) image.Image {
	if src.Bounds().Dx() <= maxWidth {
		return src
	}
	return imaging.Resize(src, maxWidth, 0, imaging.Lanczos)
}

// encodeVariant writes the image using the format family of the source
// extension.
func encodeVariant(img image.Image, dst, ext string, quality int) error {
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer f.Close()

	switch ext {
	case ".png":
		err = imaging.Encode(f, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
	case ".gif":
		err = imaging.Encode(f, img, imaging.GIF)
	default:
		err = imaging.Encode(f, img, imaging.JPEG, imaging.JPEGQuality(clampQuality(quality)))
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", dst, err)
	}
	return nil
}

// DerivativeContentType returns the MIME type the derivatives of a file
// are encoded with. It follows the same extension family rule as
// encodeVariant: webp or heic sources come back as image/jpeg because
// that is what their derivatives contain.
func DerivativeContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}

func clampQuality(quality int) int {
	if quality < 1 {
		return 1
	}
	if quality > 100 {
		return 100
	}
	return quality
}
