package storage

import "context"

// UploadResult 업로드 성공 결과. URL은 공개 base URL이 설정되지 않은 경우
// 빈 문자열일 수 있으므로 호출자는 Key를 기준으로 다뤄야 한다.
type UploadResult struct {
	Key string
	URL string
}

// Client is the object-storage surface the ingestion pipeline depends on.
// Delete is best-effort by convention: it returns its error so callers can
// decide, and every current caller logs and moves on.
type Client interface {
	// Upload reads the local file and puts it under key, returning the
	// key and, when a public base URL is configured, the public URL.
	Upload(ctx context.Context, localPath, key, contentType string) (UploadResult, error)
	// Delete removes an object identified by a full public URL or a bare
	// key. A nil error does not guarantee the object existed.
	Delete(ctx context.Context, urlOrKey string) error
}
