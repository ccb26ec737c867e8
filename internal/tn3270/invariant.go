//go:build !tndebug

package tn3270

import "github.com/stesla/tnscope/internal/dissect"

func overrun(t dissect.Tree, off, n, consumed int, name string) {
	t.Diag(dissect.SeverityError, off, n, "Decoder overran %s: consumed %d of %d bytes", name, consumed, n)
}
