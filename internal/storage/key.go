package storage

import (
	"fmt"
	"path"
)

// Variant 파생 이미지 종류. 빈 문자열은 원본을 의미한다.
type Variant string

const (
	VariantOriginal Variant = ""
	VariantLarge    Variant = "large"
	VariantMedium   Variant = "medium"
	VariantThumb    Variant = "thumb"
)

// Variants lists the three derivative sizes in generation order.
var Variants = []Variant{VariantLarge, VariantMedium, VariantThumb}

// ProjectImageKey builds the object key for a project-owned image.
// Originals live at projects/<id>/<filename>, derivatives one level deeper:
// projects/<id>/<variant>/<filename>.
func ProjectImageKey(projectID uint, variant Variant, filename string) string {
	if variant == VariantOriginal {
		return fmt.Sprintf("projects/%d/%s", projectID, filename)
	}
	return fmt.Sprintf("projects/%d/%s/%s", projectID, variant, filename)
}

// GalleryImageKey builds the object key for a standalone gallery image.
// All four sizes are namespaced by variant: uploads/<variant>/<filename>.
func GalleryImageKey(variant Variant, filename string) string {
	if variant == VariantOriginal {
		return fmt.Sprintf("uploads/original/%s", filename)
	}
	return fmt.Sprintf("uploads/%s/%s", variant, filename)
}

// GalleryDetailKey builds the object key for a detail image attached to a
// gallery image. The record IDs keep the key unique; derivatives carry a
// _variant suffix before the extension.
func GalleryDetailKey(galleryImageID, detailID uint, variant Variant, originalName string) string {
	ext := path.Ext(originalName)
	if variant == VariantOriginal {
		return fmt.Sprintf("uploads/gallery/%d/%d%s", galleryImageID, detailID, ext)
	}
	return fmt.Sprintf("uploads/gallery/%d/%d_%s%s", galleryImageID, detailID, variant, ext)
}
