//go:build wasip1

package guest

import "github.com/wasmkit/calchost/pkg/abi"

// The export shim only moves values across the boundary. Each parameter is
// lifted from its wire word, the result is lowered back, and everything in
// between is plain Go.

//go:wasmexport add
func exportAdd(a, b abi.Word) abi.Word {
	return abi.AsWord(impl.Add(abi.U32(a), abi.U32(b)))
}
