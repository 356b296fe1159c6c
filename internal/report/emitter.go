package report

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Artifact is one serialized report ready for delivery.
type Artifact struct {
	Filename    string
	ContentType string
	Format      Format
	Body        []byte
}

// Emitter delivers an artifact: an http download, a file on disk, an email.
type Emitter interface {
	Emit(ctx context.Context, a *Artifact) error
}

type EmitterFunc func(ctx context.Context, a *Artifact) error

func (f EmitterFunc) Emit(ctx context.Context, a *Artifact) error {
	return f(ctx, a)
}

// DirEmitter writes artifacts into a directory, creating it when missing.
type DirEmitter struct {
	Dir string
}

func (d DirEmitter) Emit(ctx context.Context, a *Artifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(d.Dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(d.Dir, filepath.Base(a.Filename))
	if err := os.WriteFile(path, a.Body, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// MultiEmitter emits to each emitter in order and stops at the first error.
func MultiEmitter(emitters ...Emitter) Emitter {
	return EmitterFunc(func(ctx context.Context, a *Artifact) error {
		for _, e := range emitters {
			if err := e.Emit(ctx, a); err != nil {
				return err
			}
		}
		return nil
	})
}

// DataURI encodes a as a data: URI. Binary pdf bodies are base64 encoded,
// text formats are percent-encoded.
func DataURI(a *Artifact) string {
	mediaType := strings.ReplaceAll(a.ContentType, " ", "")
	if a.Format == FormatPDF {
		return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(a.Body)
	}
	return "data:" + mediaType + "," + encodeURIComponent(a.Body)
}

const uriUnreserved = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_.!~*'()"

func encodeURIComponent(b []byte) string {
	const hex = "0123456789ABCDEF"
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		if strings.IndexByte(uriUnreserved, c) >= 0 {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(hex[c>>4])
		sb.WriteByte(hex[c&0x0f])
	}
	return sb.String()
}
