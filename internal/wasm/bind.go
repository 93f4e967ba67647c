package wasm

import (
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wasmkit/calchost/internal/wit"
)

// ValidateBinding checks that every function the descriptor declares is
// exported by the compiled module with the core signature the declared
// types lower to. The guest cannot observe a mismatch; the host rejects
// the module before anything is instantiated.
func ValidateBinding(moduleName string, compiled wazero.CompiledModule, descriptor *wit.Descriptor) error {
	exports := compiled.ExportedFunctions()

	for _, fn := range descriptor.Functions {
		def, ok := exports[fn.Name]
		if !ok {
			return &BindingMismatchError{
				ModuleName: moduleName,
				Function:   fn.Name,
				Reason:     "declared in descriptor but not exported",
			}
		}

		wantParams, wantResults, err := flatten(fn)
		if err != nil {
			return &BindingMismatchError{
				ModuleName: moduleName,
				Function:   fn.Name,
				Reason:     err.Error(),
			}
		}

		if !typesEqual(def.ParamTypes(), wantParams) {
			return &BindingMismatchError{
				ModuleName: moduleName,
				Function:   fn.Name,
				Reason: fmt.Sprintf("parameter types %s do not match descriptor %s",
					formatTypes(def.ParamTypes()), formatTypes(wantParams)),
			}
		}
		if !typesEqual(def.ResultTypes(), wantResults) {
			return &BindingMismatchError{
				ModuleName: moduleName,
				Function:   fn.Name,
				Reason: fmt.Sprintf("result types %s do not match descriptor %s",
					formatTypes(def.ResultTypes()), formatTypes(wantResults)),
			}
		}
	}
	return nil
}

// flatten lowers a descriptor function signature to core value types.
func flatten(fn wit.Function) (params, results []api.ValueType, err error) {
	for _, p := range fn.Params {
		vt, err := coreValueType(p.Kind)
		if err != nil {
			return nil, nil, fmt.Errorf("parameter %s: %w", p.Name, err)
		}
		params = append(params, vt)
	}
	if fn.Result != nil {
		vt, err := coreValueType(*fn.Result)
		if err != nil {
			return nil, nil, fmt.Errorf("result: %w", err)
		}
		results = append(results, vt)
	}
	return params, results, nil
}

func coreValueType(k wit.ValueKind) (api.ValueType, error) {
	core, ok := k.Core()
	if !ok {
		return 0, fmt.Errorf("type %s does not lower to a single core value", k)
	}
	switch core {
	case wit.CoreI32:
		return api.ValueTypeI32, nil
	case wit.CoreI64:
		return api.ValueTypeI64, nil
	case wit.CoreF32:
		return api.ValueTypeF32, nil
	case wit.CoreF64:
		return api.ValueTypeF64, nil
	}
	return 0, fmt.Errorf("unhandled core type %s", core)
}

func typesEqual(a, b []api.ValueType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func formatTypes(types []api.ValueType) string {
	s := "("
	for i, t := range types {
		if i > 0 {
			s += ", "
		}
		s += api.ValueTypeName(t)
	}
	return s + ")"
}
