package output

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/hupe1980/evgconfig/internal/render"
)

// Header is the banner stamped at the top of every generated file.
const Header = `####################################
# Evergreen configuration
#
# Generated with evergreen_config_generator from
# github.com/mongodb-labs/drivers-evergreen-tools
#
# DO NOT EDIT THIS FILE
#
####################################
`

// GenerateOption configures Generate.
type GenerateOption func(*generateOptions)

type generateOptions struct {
	renderer *render.Renderer
	logger   *slog.Logger
	perm     os.FileMode
}

// WithRenderer sets the renderer used for the YAML body.
func WithRenderer(r *render.Renderer) GenerateOption {
	return func(o *generateOptions) {
		o.renderer = r
	}
}

// WithGenerateLogger sets the logger used during generation.
func WithGenerateLogger(logger *slog.Logger) GenerateOption {
	return func(o *generateOptions) {
		o.logger = logger
	}
}

// WithFilePermissions sets the mode of a newly created file.
func WithFilePermissions(perm os.FileMode) GenerateOption {
	return func(o *generateOptions) {
		o.perm = perm
	}
}

// Document returns the complete contents of a generated file: Header
// followed by the YAML rendering of tree.
func Document(tree any, r *render.Renderer) ([]byte, error) {
	if r == nil {
		r = render.New()
	}

	body, err := r.YAML(tree)
	if err != nil {
		return nil, err
	}

	doc := make([]byte, 0, len(Header)+len(body))
	doc = append(doc, Header...)
	doc = append(doc, body...)

	return doc, nil
}

// Generate renders tree and replaces the file at path with the banner and
// the YAML document. Rendering errors leave the file untouched; file
// system errors are returned unchanged apart from wrapping.
func Generate(tree any, path string, opts ...GenerateOption) error {
	o := generateOptions{
		logger: slog.Default(),
		perm:   0o644,
	}

	for _, opt := range opts {
		opt(&o)
	}

	doc, err := Document(tree, o.renderer)
	if err != nil {
		return fmt.Errorf("rendering configuration: %w", err)
	}

	o.logger.Debug("rendered configuration",
		slog.String("path", path),
		slog.Int("bytes", len(doc)),
	)

	w := NewFileWriter(path, WithPermissions(o.perm), WithLogger(o.logger))

	return w.Write(doc)
}
