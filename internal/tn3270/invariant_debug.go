//go:build tndebug

package tn3270

import (
	"fmt"

	"github.com/stesla/tnscope/internal/dissect"
)

func overrun(_ dissect.Tree, _, n, consumed int, name string) {
	panic(fmt.Sprintf("tn3270: %s handler consumed %d of %d bytes", name, consumed, n))
}
