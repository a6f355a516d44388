package webform

import (
	"context"
	"fmt"
	"io"
)

// UploadFunc stages a file and returns the attachment id the submission will
// reference.
type UploadFunc func(ctx context.Context, filename string, r io.Reader) (string, error)

// RemoveFunc discards a previously staged attachment.
type RemoveFunc func(ctx context.Context, attachmentID string) error

// Uploader is the attachment pipeline a live client-facing form stages files
// through. It is an external collaborator; this package never implements it.
type Uploader interface {
	UploadTemp(ctx context.Context, filename string, r io.Reader) (string, error)
	RemoveTemp(ctx context.Context, attachmentID string) error
}

// ConfirmFunc asks the user to confirm a destructive action. Returning false
// aborts without error.
type ConfirmFunc func(ctx context.Context, message string) (bool, error)

const removeConfirmMessage = "This file will only be removed once the form is submitted successfully. Remove it?"

// clientUploadFuncs wires the real attachment pipeline, with removal gated
// behind a confirmation prompt.
func clientUploadFuncs(uploader Uploader, confirm ConfirmFunc) (UploadFunc, RemoveFunc, error) {
	if uploader == nil {
		return nil, nil, fmt.Errorf("webform: client mode requires an uploader")
	}

	upload := func(ctx context.Context, filename string, r io.Reader) (string, error) {
		return uploader.UploadTemp(ctx, filename, r)
	}
	remove := func(ctx context.Context, attachmentID string) error {
		if confirm != nil {
			ok, err := confirm(ctx, removeConfirmMessage)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
		}
		return uploader.RemoveTemp(ctx, attachmentID)
	}
	return upload, remove, nil
}

// previewUploadFuncs echo the filename without touching any pipeline. The
// internal template editor preview compiles the same schema as the live form;
// these keep the preview inert.
func previewUploadFuncs() (UploadFunc, RemoveFunc) {
	upload := func(_ context.Context, filename string, _ io.Reader) (string, error) {
		return filename, nil
	}
	remove := func(_ context.Context, _ string) error {
		return nil
	}
	return upload, remove
}
