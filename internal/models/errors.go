package models

import "errors"

var (
	// ErrDocumentNotFound 文档不存在错误
	ErrDocumentNotFound = errors.New("document not found")

	// ErrCollectionFull 文档集合已达到上限
	ErrCollectionFull = errors.New("maximum number of documents reached")

	// ErrPreviewNotFound 预览会话不存在或已过期
	ErrPreviewNotFound = errors.New("preview session not found")
)
