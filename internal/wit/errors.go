package wit

import "fmt"

// MalformedError occurs when the blob cannot be parsed. Offset is the byte
// position the parser had reached.
type MalformedError struct {
	Offset int
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed interface descriptor at byte %d: %s", e.Offset, e.Reason)
}

// UnsupportedVersionError occurs when the blob header or the encoding
// section declares a scheme this package does not read.
type UnsupportedVersionError struct {
	What string
	Got  uint32
	Want uint32
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported descriptor %s %d (want %d)", e.What, e.Got, e.Want)
}

// InvalidDescriptorError occurs when a decoded or caller-built descriptor
// violates a structural requirement.
type InvalidDescriptorError struct {
	Field  string
	Reason string
}

func (e *InvalidDescriptorError) Error() string {
	return fmt.Sprintf("invalid interface descriptor (%s): %s", e.Field, e.Reason)
}
