package preprocess

import (
	"strconv"
	"strings"
)

// ShaderParameter is a user-tweakable parameter declared via
// `#pragma parameter` in shader source.
type ShaderParameter struct {
	ID          string
	Description string
	Initial     float32
	Minimum     float32
	Maximum     float32
	Step        float32
}

type shaderMeta struct {
	format     ImageFormat
	parameters []ShaderParameter
	name       string
}

// parsePragmaMeta scans source for `#pragma parameter/format/name` lines.
// Duplicate parameters with identical fields are coalesced; duplicates
// with differing fields, or duplicate format/name pragmas, fail.
func parsePragmaMeta(source, path string) (shaderMeta, error) {
	var meta shaderMeta
	haveFormat := false

	for _, line := range strings.Split(source, "\n") {
		switch {
		case strings.HasPrefix(line, "#pragma parameter "):
			param, err := parseParameterPragma(line, path)
			if err != nil {
				return shaderMeta{}, err
			}
			if existing, ok := findParameter(meta.parameters, param.ID); ok {
				if *existing != param {
					return shaderMeta{}, &Error{Kind: ErrorDuplicatePragma, Path: path, Reason: param.ID}
				}
			} else {
				meta.parameters = append(meta.parameters, param)
			}

		case strings.HasPrefix(line, "#pragma format "):
			if haveFormat {
				return shaderMeta{}, &Error{Kind: ErrorDuplicatePragma, Path: path, Reason: line}
			}
			formatStr := strings.TrimSpace(line[len("#pragma format "):])
			format := imageFormatFromString(formatStr)
			if format == FormatUnknown {
				return shaderMeta{}, &Error{Kind: ErrorUnknownFormat, Path: path, Reason: formatStr}
			}
			meta.format = format
			haveFormat = true

		case strings.HasPrefix(line, "#pragma name "):
			if meta.name != "" {
				return shaderMeta{}, &Error{Kind: ErrorDuplicatePragma, Path: path, Reason: line}
			}
			meta.name = strings.TrimSpace(line[len("#pragma name "):])
		}
	}

	return meta, nil
}

func findParameter(params []ShaderParameter, id string) (*ShaderParameter, bool) {
	for i := range params {
		if params[i].ID == id {
			return &params[i], true
		}
	}
	return nil, false
}

// parseParameterPragma parses:
//
//	#pragma parameter <id> "<description>" <initial> <min> <max> <step>
func parseParameterPragma(line, path string) (ShaderParameter, error) {
	rest := strings.TrimPrefix(line, "#pragma parameter ")

	sp := strings.IndexByte(rest, ' ')
	if sp < 0 {
		return ShaderParameter{}, &Error{Kind: ErrorPragmaParse, Path: path, Reason: line}
	}
	id := rest[:sp]
	rest = strings.TrimSpace(rest[sp+1:])

	if len(rest) == 0 || rest[0] != '"' {
		return ShaderParameter{}, &Error{Kind: ErrorPragmaParse, Path: path, Reason: line}
	}
	end := strings.IndexByte(rest[1:], '"')
	if end < 0 {
		return ShaderParameter{}, &Error{Kind: ErrorPragmaParse, Path: path, Reason: line}
	}
	description := rest[1 : 1+end]
	rest = strings.TrimSpace(rest[1+end+1:])

	fields := strings.Fields(rest)
	if len(fields) != 4 {
		return ShaderParameter{}, &Error{Kind: ErrorPragmaParse, Path: path, Reason: line}
	}

	floats := make([]float32, 4)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return ShaderParameter{}, &Error{Kind: ErrorPragmaParse, Path: path, Reason: line, Err: err}
		}
		floats[i] = float32(v)
	}

	return ShaderParameter{
		ID:          id,
		Description: description,
		Initial:     floats[0],
		Minimum:     floats[1],
		Maximum:     floats[2],
		Step:        floats[3],
	}, nil
}
