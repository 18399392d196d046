// Package upload ingests client files into the object store.
//
// Each file of a batch is sanitised, typed and written on its own. A failing
// file is reported in its result and does not stop the rest of the batch.
package upload

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/Cameron831/CloudStreamer/errors"
	"github.com/Cameron831/CloudStreamer/internal/validation"
	"github.com/Cameron831/CloudStreamer/streamtypes"
)

// DefaultContentType is used when neither content nor extension identify a file.
const DefaultContentType = "application/octet-stream"

// sniffLen is how much of a file is inspected for content detection.
const sniffLen = 3072

// Uploader writes upload batches to a store.
type Uploader struct {
	store  streamtypes.ObjectWriter
	logger *slog.Logger
}

// New creates a new Uploader instance. A nil logger disables logging.
func New(store streamtypes.ObjectWriter, logger *slog.Logger) *Uploader {
	return &Uploader{
		store:  store,
		logger: logger,
	}
}

// Upload writes every file under folder in bucket and returns one result per file,
// in input order.
func (u *Uploader) Upload(
	ctx context.Context,
	bucket, folder string,
	files []streamtypes.UploadFile,
) []streamtypes.UploadResult {
	folder = validation.SanitizeFolder(folder)

	results := make([]streamtypes.UploadResult, 0, len(files))
	for _, f := range files {
		res := u.uploadOne(ctx, bucket, folder, f)
		if u.logger != nil {
			if res.Err != nil {
				u.logger.WarnContext(ctx, "upload failed",
					"bucket", bucket,
					"filename", f.Filename,
					"error", res.Err,
				)
			} else {
				u.logger.InfoContext(ctx, "uploaded object",
					"bucket", bucket,
					"key", res.Key,
					"size", res.Size,
				)
			}
		}
		results = append(results, res)
	}
	return results
}

func (u *Uploader) uploadOne(
	ctx context.Context,
	bucket, folder string,
	f streamtypes.UploadFile,
) streamtypes.UploadResult {
	res := streamtypes.UploadResult{Filename: f.Filename, Size: f.Size}

	name, err := validation.SecureFilename(f.Filename)
	if err != nil {
		res.Err = err
		return res
	}
	res.Key = validation.ObjectKey(folder, name)

	if f.Open == nil {
		res.Err = errors.NewObjectError("upload", bucket, res.Key, errors.ErrInvalidInput).
			WithMessage("file has no content")
		return res
	}

	body, err := f.Open()
	if err != nil {
		res.Err = errors.NewObjectError("upload", bucket, res.Key, err)
		return res
	}
	defer body.Close()

	contentType, reader, err := DetectContentType(body, name)
	if err != nil {
		res.Err = errors.NewObjectError("upload", bucket, res.Key, err)
		return res
	}

	id := streamtypes.ObjectIdentity{Bucket: bucket, Key: res.Key}
	if err := u.store.PutObject(ctx, id, reader, f.Size, contentType); err != nil {
		res.Err = errors.NewObjectError("upload", bucket, res.Key, err)
	}
	return res
}

// DetectContentType sniffs the leading bytes of r, falling back to the
// extension of filename. The returned reader yields the full, unconsumed content.
// A seekable r is rewound and returned as is, so stores can send it without
// buffering.
func DetectContentType(r io.Reader, filename string) (string, io.Reader, error) {
	seeker, seekable := r.(io.ReadSeeker)
	var offset int64
	if seekable {
		var err error
		if offset, err = seeker.Seek(0, io.SeekCurrent); err != nil {
			return "", nil, err
		}
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", nil, err
	}
	head = head[:n]

	var rest io.Reader
	if seekable {
		if _, err := seeker.Seek(offset, io.SeekStart); err != nil {
			return "", nil, err
		}
		rest = r
	} else {
		rest = io.MultiReader(bytes.NewReader(head), r)
	}

	if n > 0 {
		if mt := mimetype.Detect(head); mt != nil && !mt.Is(DefaultContentType) && !mt.Is("text/plain") {
			return mt.String(), rest, nil
		}
	}

	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" {
		if byExt := mime.TypeByExtension(ext); byExt != "" {
			return byExt, rest, nil
		}
	}
	if n > 0 {
		return mimetype.Detect(head).String(), rest, nil
	}
	return DefaultContentType, rest, nil
}
