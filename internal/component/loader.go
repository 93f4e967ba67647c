package component

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/wasmkit/calchost/internal/wasm"
)

// Loader handles loading components from disk.
type Loader struct {
	runtime      *wasm.Runtime
	moduleLoader *wasm.ModuleLoader
	logger       *zap.Logger
}

// NewLoader creates a new component loader.
func NewLoader(runtime *wasm.Runtime, logger *zap.Logger) *Loader {
	return &Loader{
		runtime:      runtime,
		moduleLoader: wasm.NewModuleLoader(runtime, logger),
		logger:       logger.With(zap.String("component", "component-loader")),
	}
}

// Load loads a single component from a directory. Besides compiling the
// binary, this cross-checks the manifest's declared world against the
// world encoded in the binary's interface descriptor.
func (l *Loader) Load(ctx context.Context, dir string) (*Component, error) {
	l.logger.Debug("Loading component", zap.String("dir", dir))

	manifest, err := ParseManifest(dir)
	if err != nil {
		return nil, err
	}

	l.logger.Info("Loading component",
		zap.String("name", manifest.Name),
		zap.String("version", manifest.Version),
		zap.String("world", manifest.World),
	)

	// Compile Wasm module (uses internal caching). Descriptor extraction
	// and binding validation happen inside the module loader.
	compiled, err := l.moduleLoader.LoadModuleFromFile(ctx, manifest.WasmPath())
	if err != nil {
		return nil, &LoadError{
			ComponentName: manifest.Name,
			Err:           err,
		}
	}

	if compiled.Descriptor.WorldID != manifest.World {
		return nil, &WorldMismatchError{
			ComponentName: manifest.Name,
			ManifestWorld: manifest.World,
			BinaryWorld:   compiled.Descriptor.WorldID,
		}
	}

	comp := &Component{
		Manifest: manifest,
		Compiled: compiled,
		LoadedAt: time.Now(),
	}

	l.logger.Info("Component loaded successfully",
		zap.String("name", manifest.Name),
		zap.Int64("size_bytes", compiled.SizeBytes),
		zap.Strings("exports", comp.Exports()),
	)

	return comp, nil
}

// Discover scans directories for components.
func (l *Loader) Discover(ctx context.Context, paths []string) ([]*Component, error) {
	var components []*Component
	var errs []error

	for _, basePath := range paths {
		l.logger.Debug("Scanning component directory", zap.String("path", basePath))

		entries, err := os.ReadDir(basePath)
		if err != nil {
			if os.IsNotExist(err) {
				l.logger.Warn("Component path does not exist", zap.String("path", basePath))
				continue
			}
			return nil, fmt.Errorf("failed to read directory '%s': %w", basePath, err)
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}

			componentDir := filepath.Join(basePath, entry.Name())

			comp, err := l.Load(ctx, componentDir)
			if err != nil {
				l.logger.Error("Failed to load component",
					zap.String("dir", componentDir),
					zap.Error(err),
				)
				errs = append(errs, err)
				continue
			}

			components = append(components, comp)
		}
	}

	// If we found some components but had errors, log warning but continue
	if len(components) > 0 && len(errs) > 0 {
		l.logger.Warn("Some components failed to load",
			zap.Int("loaded", len(components)),
			zap.Int("failed", len(errs)),
		)
	}

	if len(components) == 0 {
		return nil, &NoneFoundError{Paths: paths}
	}

	return components, nil
}
