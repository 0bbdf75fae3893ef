package middleware

import (
	"Blips/internal/model"
	"Blips/internal/pkg/consts"
	"Blips/internal/pkg/response"
	"Blips/internal/pkg/storage"
	"Blips/internal/service"
	"errors"
	"io"
	log "log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const uploadField = "file"

// multipart framing on top of the file itself
const multipartOverhead = 1 << 20

// UploadMiddleware stores the multipart "file" field under the prefix of its content type
// and hands a *service.UploadedFile to the handler. The content type comes from the
// contentType query/form value or is inferred from the sniffed MIME type.
func UploadMiddleware(store storage.Storage, registry service.UploadRegistry, maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+multipartOverhead)

		fh, err := c.FormFile(uploadField)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
				abort(c, service.ErrFileTooLarge)
				return
			}
			abort(c, service.ErrFileRequired)
			return
		}
		if fh.Size > maxBytes {
			abort(c, service.ErrFileTooLarge)
			return
		}

		file, err := fh.Open()
		if err != nil {
			abort(c, err)
			return
		}
		defer file.Close()

		mimeType, sniffedExt, err := sniff(file)
		if err != nil {
			abort(c, err)
			return
		}

		contentType, err := resolveContentType(c, mimeType)
		if err != nil {
			abort(c, err)
			return
		}

		uid, _ := c.Get(consts.UserIDKey)
		userID, _ := uid.(primitive.ObjectID)
		key := storage.ObjectKey(contentType.Prefix(), userID.Hex(), storedExt(fh.Filename, mimeType, sniffedExt))

		ctx := c.Request.Context()
		if err = store.Put(ctx, key, file, fh.Size, mimeType); err != nil {
			abort(c, err)
			return
		}
		if registry != nil {
			if err = registry.Track(ctx, key, mimeType); err != nil {
				log.WarnContext(ctx, "track upload failed", "key", key, "err", err)
			}
		}

		c.Set(consts.UploadedFileKey, &service.UploadedFile{
			Key:          key,
			MimeType:     mimeType,
			OriginalName: fh.Filename,
			Size:         fh.Size,
			ContentType:  contentType,
		})
		c.Next()
	}
}

func sniff(file multipart.File) (string, string, error) {
	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return "", "", err
	}
	if _, err = file.Seek(0, io.SeekStart); err != nil {
		return "", "", err
	}
	mimeType, _, _ := strings.Cut(mtype.String(), ";")
	return mimeType, mtype.Extension(), nil
}

// storedExt keeps the client extension only when it maps to the sniffed MIME type, since
// /uploads is served with a content type derived from the key
func storedExt(filename, mimeType, sniffedExt string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != "" {
		byExt, _, _ := strings.Cut(mime.TypeByExtension(ext), ";")
		if strings.EqualFold(byExt, mimeType) {
			return ext
		}
	}
	return sniffedExt
}

// resolveContentType an explicit type must agree with the MIME category. Without one,
// image/* maps to image and video/* to short.
func resolveContentType(c *gin.Context, mimeType string) (model.ContentType, error) {
	raw := c.Query("contentType")
	if raw == "" {
		raw = c.PostForm("contentType")
	}
	raw = strings.ToLower(strings.TrimSpace(raw))

	if raw == "" {
		switch {
		case strings.HasPrefix(mimeType, consts.MimePrefixImage):
			return model.ContentTypeImage, nil
		case strings.HasPrefix(mimeType, consts.MimePrefixVideo):
			return model.ContentTypeShort, nil
		}
		return "", service.ErrFileTypeUnsupported
	}

	contentType := model.ContentType(raw)
	if !contentType.Valid() {
		return "", service.ErrContentTypeInvalid
	}
	prefix := consts.MimePrefixImage
	if contentType.IsVideo() {
		prefix = consts.MimePrefixVideo
	}
	if !strings.HasPrefix(mimeType, prefix) {
		return "", service.ErrFileTypeMismatch
	}
	return contentType, nil
}

func abort(c *gin.Context, err error) {
	response.Error(c, err)
	c.Abort()
}
