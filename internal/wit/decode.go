package wit

import (
	"encoding/binary"
	"fmt"
)

// Binary layout constants. The blob reuses the Wasm section framing: a
// header, then sections of (id byte, LEB128 size, payload).
const (
	componentVersion = 0x000d // header version, little-endian u16
	componentLayer   = 0x0001 // layer 1 marks a component, not a core module

	sectionCustom = 0x00
	sectionType   = 0x07
	sectionExport = 0x0b

	formComponent = 0x41 // component type
	formFunc      = 0x40 // function type

	declType   = 0x01 // type declaration inside a component type
	declExport = 0x04 // export declaration inside a component type

	nameKindPlain = 0x00 // bare export name
	nameKindID    = 0x01 // fully qualified interface/world ID

	sortFunc      = 0x01
	sortType      = 0x03
	sortComponent = 0x04

	resultSingle = 0x00 // one unnamed result follows
	resultNamed  = 0x01 // vector of named results follows

	encodingSectionName  = "wit-component-encoding"
	producersSectionName = "producers"
)

var headerMagic = [4]byte{0x00, 'a', 's', 'm'}

// Decode parses an encoded world blob. The input is the payload of a
// component-type custom section, exactly as embedded by bindings tooling.
func Decode(data []byte) (*Descriptor, error) {
	r := &reader{buf: data}

	var magic [4]byte
	if err := r.read(magic[:]); err != nil {
		return nil, err
	}
	if magic != headerMagic {
		return nil, &MalformedError{Offset: 0, Reason: "bad magic, not a component blob"}
	}
	version, err := r.u16()
	if err != nil {
		return nil, err
	}
	layer, err := r.u16()
	if err != nil {
		return nil, err
	}
	if version != componentVersion {
		return nil, &UnsupportedVersionError{What: "binary version", Got: uint32(version), Want: componentVersion}
	}
	if layer != componentLayer {
		return nil, &UnsupportedVersionError{What: "layer", Got: uint32(layer), Want: componentLayer}
	}

	d := &Descriptor{}
	sawEncoding := false
	sawTypes := false

	for !r.done() {
		id, err := r.byte()
		if err != nil {
			return nil, err
		}
		size, err := r.uleb()
		if err != nil {
			return nil, err
		}
		payload, err := r.slice(int(size))
		if err != nil {
			return nil, err
		}
		sec := &reader{buf: payload, base: r.pos - len(payload)}

		switch id {
		case sectionCustom:
			name, err := sec.name()
			if err != nil {
				return nil, err
			}
			switch name {
			case encodingSectionName:
				ver, err := sec.byte()
				if err != nil {
					return nil, err
				}
				if ver != EncodingVersion {
					return nil, &UnsupportedVersionError{What: "encoding version", Got: uint32(ver), Want: EncodingVersion}
				}
				sawEncoding = true
			case producersSectionName:
				fields, err := decodeProducers(sec)
				if err != nil {
					return nil, err
				}
				d.Producers = fields
			}
			// Other custom sections are opaque; skip them.
		case sectionType:
			if err := decodeTypeSection(sec, d); err != nil {
				return nil, err
			}
			sawTypes = true
		case sectionExport:
			if err := decodeExportSection(sec, d); err != nil {
				return nil, err
			}
		default:
			// Sections this package does not model are skipped whole.
		}
	}

	if !sawEncoding {
		return nil, &MalformedError{Offset: len(data), Reason: "missing " + encodingSectionName + " section"}
	}
	if !sawTypes {
		return nil, &MalformedError{Offset: len(data), Reason: "missing component type section"}
	}
	if d.WorldName == "" {
		// No type export section; fall back to the tail of the world ID.
		for i := len(d.WorldID) - 1; i >= 0; i-- {
			if d.WorldID[i] == '/' {
				d.WorldName = d.WorldID[i+1:]
				break
			}
		}
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// decodeTypeSection parses the single component type: an outer component
// type exporting the world ID as a nested component type, which in turn
// declares one function type and export per operation.
func decodeTypeSection(r *reader, d *Descriptor) error {
	count, err := r.uleb()
	if err != nil {
		return err
	}
	if count != 1 {
		return r.fail(fmt.Sprintf("expected exactly one component type, found %d", count))
	}
	form, err := r.byte()
	if err != nil {
		return err
	}
	if form != formComponent {
		return r.fail(fmt.Sprintf("expected component type form, found %#x", form))
	}

	decls, err := r.uleb()
	if err != nil {
		return err
	}
	for i := uint32(0); i < decls; i++ {
		decl, err := r.byte()
		if err != nil {
			return err
		}
		switch decl {
		case declType:
			inner, err := r.byte()
			if err != nil {
				return err
			}
			if inner != formComponent {
				return r.fail(fmt.Sprintf("expected nested component type, found %#x", inner))
			}
			funcs, err := decodeWorldType(r)
			if err != nil {
				return err
			}
			d.Functions = funcs
		case declExport:
			kind, err := r.byte()
			if err != nil {
				return err
			}
			name, err := r.name()
			if err != nil {
				return err
			}
			sort, err := r.byte()
			if err != nil {
				return err
			}
			if _, err := r.uleb(); err != nil { // type index
				return err
			}
			if sort == sortComponent && kind == nameKindID {
				d.WorldID = name
			}
		default:
			return r.fail(fmt.Sprintf("unsupported declaration %#x in component type", decl))
		}
	}
	return nil
}

// decodeWorldType parses the nested component type's declarations: function
// types interleaved with the exports that name them.
func decodeWorldType(r *reader) ([]Function, error) {
	decls, err := r.uleb()
	if err != nil {
		return nil, err
	}
	var types []Function
	exported := make(map[uint32]bool)
	var funcs []Function

	for i := uint32(0); i < decls; i++ {
		decl, err := r.byte()
		if err != nil {
			return nil, err
		}
		switch decl {
		case declType:
			fn, err := decodeFuncType(r)
			if err != nil {
				return nil, err
			}
			types = append(types, fn)
		case declExport:
			kind, err := r.byte()
			if err != nil {
				return nil, err
			}
			if kind != nameKindPlain {
				return nil, r.fail(fmt.Sprintf("unexpected export name kind %#x for function", kind))
			}
			name, err := r.name()
			if err != nil {
				return nil, err
			}
			sort, err := r.byte()
			if err != nil {
				return nil, err
			}
			idx, err := r.uleb()
			if err != nil {
				return nil, err
			}
			if sort != sortFunc {
				return nil, r.fail(fmt.Sprintf("unexpected export sort %#x for %q", sort, name))
			}
			if int(idx) >= len(types) {
				return nil, r.fail(fmt.Sprintf("export %q references undeclared type %d", name, idx))
			}
			if exported[idx] {
				return nil, r.fail(fmt.Sprintf("type %d exported twice", idx))
			}
			exported[idx] = true
			fn := types[idx]
			fn.Name = name
			funcs = append(funcs, fn)
		default:
			return nil, r.fail(fmt.Sprintf("unsupported declaration %#x in world type", decl))
		}
	}
	return funcs, nil
}

func decodeFuncType(r *reader) (Function, error) {
	form, err := r.byte()
	if err != nil {
		return Function{}, err
	}
	if form != formFunc {
		return Function{}, r.fail(fmt.Sprintf("expected function type form, found %#x", form))
	}
	nparams, err := r.uleb()
	if err != nil {
		return Function{}, err
	}
	fn := Function{}
	for i := uint32(0); i < nparams; i++ {
		name, err := r.name()
		if err != nil {
			return Function{}, err
		}
		kind, err := r.valtype()
		if err != nil {
			return Function{}, err
		}
		fn.Params = append(fn.Params, Param{Name: name, Kind: kind})
	}
	spec, err := r.byte()
	if err != nil {
		return Function{}, err
	}
	switch spec {
	case resultSingle:
		kind, err := r.valtype()
		if err != nil {
			return Function{}, err
		}
		fn.Result = &kind
	case resultNamed:
		n, err := r.uleb()
		if err != nil {
			return Function{}, err
		}
		if n != 0 {
			return Function{}, r.fail("named results are not supported")
		}
	default:
		return Function{}, r.fail(fmt.Sprintf("unsupported result spec %#x", spec))
	}
	return fn, nil
}

// decodeExportSection records the short name the world type is exported
// under.
func decodeExportSection(r *reader, d *Descriptor) error {
	count, err := r.uleb()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		if _, err := r.byte(); err != nil { // name kind
			return err
		}
		name, err := r.name()
		if err != nil {
			return err
		}
		sort, err := r.byte()
		if err != nil {
			return err
		}
		if _, err := r.uleb(); err != nil { // sort index
			return err
		}
		opt, err := r.byte()
		if err != nil {
			return err
		}
		if opt != 0 {
			return r.fail("ascribed export types are not supported")
		}
		if sort == sortType && d.WorldName == "" {
			d.WorldName = name
		}
	}
	return nil
}

func decodeProducers(r *reader) ([]ProducerField, error) {
	nfields, err := r.uleb()
	if err != nil {
		return nil, err
	}
	fields := make([]ProducerField, 0, nfields)
	for i := uint32(0); i < nfields; i++ {
		fname, err := r.name()
		if err != nil {
			return nil, err
		}
		nentries, err := r.uleb()
		if err != nil {
			return nil, err
		}
		field := ProducerField{Name: fname}
		for j := uint32(0); j < nentries; j++ {
			name, err := r.name()
			if err != nil {
				return nil, err
			}
			version, err := r.name()
			if err != nil {
				return nil, err
			}
			field.Entries = append(field.Entries, ProducerEntry{Name: name, Version: version})
		}
		fields = append(fields, field)
	}
	return fields, nil
}

// reader is a bounds-checked cursor over the blob. base offsets error
// positions when reading a section payload slice.
type reader struct {
	buf  []byte
	pos  int
	base int
}

func (r *reader) done() bool { return r.pos >= len(r.buf) }

func (r *reader) fail(reason string) error {
	return &MalformedError{Offset: r.base + r.pos, Reason: reason}
}

func (r *reader) byte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, r.fail("unexpected end of input")
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) read(dst []byte) error {
	if r.pos+len(dst) > len(r.buf) {
		return r.fail("unexpected end of input")
	}
	copy(dst, r.buf[r.pos:])
	r.pos += len(dst)
	return nil
}

func (r *reader) slice(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.buf) {
		return nil, r.fail(fmt.Sprintf("section size %d exceeds input", n))
	}
	s := r.buf[r.pos : r.pos+n]
	r.pos += n
	return s, nil
}

func (r *reader) u16() (uint16, error) {
	var b [2]byte
	if err := r.read(b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

// uleb reads an unsigned LEB128 value capped at 32 bits.
func (r *reader) uleb() (uint32, error) {
	var result uint32
	var shift uint
	for {
		b, err := r.byte()
		if err != nil {
			return 0, err
		}
		if shift == 28 && b > 0x0f {
			return 0, r.fail("LEB128 value overflows 32 bits")
		}
		result |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
}

// name reads a LEB128 length-prefixed UTF-8 string.
func (r *reader) name() (string, error) {
	n, err := r.uleb()
	if err != nil {
		return "", err
	}
	s, err := r.slice(int(n))
	if err != nil {
		return "", err
	}
	return string(s), nil
}

func (r *reader) valtype() (ValueKind, error) {
	b, err := r.byte()
	if err != nil {
		return 0, err
	}
	k := ValueKind(b)
	if !k.valid() {
		return 0, r.fail(fmt.Sprintf("unknown value type %#x", b))
	}
	return k, nil
}
