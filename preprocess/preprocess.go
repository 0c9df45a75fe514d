package preprocess

// ShaderSource is the preprocessed output of a single .slang pass: its
// vertex and fragment text, the parameters it declares, its resolved
// image format, and its optional alias.
type ShaderSource struct {
	Vertex     string
	Fragment   string
	Name       string
	Parameters []ShaderParameter
	Format     ImageFormat
}

// Load reads the slang file at path, resolves its #include tree,
// extracts #pragma metadata, and splits it into vertex/fragment stages.
func Load(path string) (*ShaderSource, error) {
	Logger().Debug("preprocessing shader", "path", path)

	source, err := readSource(path)
	if err != nil {
		Logger().Error("shader preprocess failed", "path", path, "err", err)
		return nil, err
	}

	meta, err := parsePragmaMeta(source, path)
	if err != nil {
		Logger().Error("pragma parse failed", "path", path, "err", err)
		return nil, err
	}

	vertex, fragment := splitStages(source)

	Logger().Debug("shader preprocessed", "path", path, "parameters", len(meta.parameters))
	return &ShaderSource{
		Vertex:     vertex,
		Fragment:   fragment,
		Name:       meta.name,
		Parameters: meta.parameters,
		Format:     meta.format,
	}, nil
}
