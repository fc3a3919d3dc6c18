package utils

import (
	"io"
)

// maxDrain bounds how much of an unread body is discarded before closing.
const maxDrain = 64 << 10

// DrainClose discards what is left of an HTTP body and closes it so the
// underlying connection can be reused. Errors are ignored.
func DrainClose(rc io.ReadCloser) {
	if rc == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, maxDrain))
	_ = rc.Close()
}
