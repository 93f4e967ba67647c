// Package guest implements the component side of the calculator world.
// Built for wasip1 it exports the world's functions directly; on other
// targets only the pure arithmetic is available, which keeps the package
// testable on the host.
package guest

// Adder is the behavior the calculator world's add export delegates to.
type Adder interface {
	Add(a, b uint32) uint32
}

// WrappingAdder is the default implementation. Addition wraps modulo 2^32,
// matching native unsigned overflow.
type WrappingAdder struct{}

// Add returns a+b with wraparound on overflow.
func (WrappingAdder) Add(a, b uint32) uint32 {
	return a + b
}

var impl Adder = WrappingAdder{}

// Register replaces the implementation backing the exports. It must be
// called before the component receives its first call, typically from an
// init function.
func Register(a Adder) {
	if a == nil {
		panic("guest: Register called with nil Adder")
	}
	impl = a
}
