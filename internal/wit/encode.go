package wit

import "bytes"

// Encode renders the descriptor in the binary form bindings tooling embeds,
// byte-compatible with wit-component's encoded-world output for the shapes
// this package models. Sections are emitted in the fixed order: encoding
// marker, types, type export, producers.
func Encode(d *Descriptor) ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	out.Write(headerMagic[:])
	out.Write([]byte{componentVersion & 0xff, componentVersion >> 8})
	out.Write([]byte{componentLayer & 0xff, componentLayer >> 8})

	var enc bytes.Buffer
	writeName(&enc, encodingSectionName)
	enc.WriteByte(EncodingVersion)
	enc.WriteByte(0x00) // reserved
	writeSection(&out, sectionCustom, enc.Bytes())

	types, err := encodeTypeSection(d)
	if err != nil {
		return nil, err
	}
	writeSection(&out, sectionType, types)

	// Validate guarantees a non-empty WorldName, so the export section is
	// always present in encoded output; only Decode tolerates its absence.
	var exp bytes.Buffer
	writeULEB(&exp, 1)
	exp.WriteByte(nameKindPlain)
	writeName(&exp, d.WorldName)
	exp.WriteByte(sortType)
	writeULEB(&exp, 0)
	exp.WriteByte(0x00) // no ascribed type
	writeSection(&out, sectionExport, exp.Bytes())

	if len(d.Producers) > 0 {
		var prod bytes.Buffer
		writeName(&prod, producersSectionName)
		writeULEB(&prod, uint32(len(d.Producers)))
		for _, f := range d.Producers {
			writeName(&prod, f.Name)
			writeULEB(&prod, uint32(len(f.Entries)))
			for _, e := range f.Entries {
				writeName(&prod, e.Name)
				writeName(&prod, e.Version)
			}
		}
		writeSection(&out, sectionCustom, prod.Bytes())
	}

	return out.Bytes(), nil
}

func encodeTypeSection(d *Descriptor) ([]byte, error) {
	var inner bytes.Buffer
	writeULEB(&inner, uint32(2*len(d.Functions)))
	for i, fn := range d.Functions {
		inner.WriteByte(declType)
		inner.WriteByte(formFunc)
		writeULEB(&inner, uint32(len(fn.Params)))
		for _, p := range fn.Params {
			if !p.Kind.valid() {
				return nil, &InvalidDescriptorError{Field: "functions", Reason: "unknown parameter type in " + fn.Name}
			}
			writeName(&inner, p.Name)
			inner.WriteByte(byte(p.Kind))
		}
		if fn.Result != nil {
			if !fn.Result.valid() {
				return nil, &InvalidDescriptorError{Field: "functions", Reason: "unknown result type in " + fn.Name}
			}
			inner.WriteByte(resultSingle)
			inner.WriteByte(byte(*fn.Result))
		} else {
			inner.WriteByte(resultNamed)
			writeULEB(&inner, 0)
		}

		inner.WriteByte(declExport)
		inner.WriteByte(nameKindPlain)
		writeName(&inner, fn.Name)
		inner.WriteByte(sortFunc)
		writeULEB(&inner, uint32(i))
	}

	var sec bytes.Buffer
	writeULEB(&sec, 1) // one top-level type
	sec.WriteByte(formComponent)
	writeULEB(&sec, 2) // the world type and its export
	sec.WriteByte(declType)
	sec.WriteByte(formComponent)
	sec.Write(inner.Bytes())
	sec.WriteByte(declExport)
	sec.WriteByte(nameKindID)
	writeName(&sec, d.WorldID)
	sec.WriteByte(sortComponent)
	writeULEB(&sec, 0)
	return sec.Bytes(), nil
}

func writeSection(out *bytes.Buffer, id byte, payload []byte) {
	out.WriteByte(id)
	writeULEB(out, uint32(len(payload)))
	out.Write(payload)
}

func writeName(out *bytes.Buffer, s string) {
	writeULEB(out, uint32(len(s)))
	out.WriteString(s)
}

func writeULEB(out *bytes.Buffer, v uint32) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		out.WriteByte(b)
		if v == 0 {
			return
		}
	}
}
