package preprocess

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const lineDirectiveExtension = "#extension GL_GOOGLE_cpp_style_line_directive : require"

// LineDirectives controls whether #extension/#line markers are emitted:
// off by default, opt in for tooling that wants source-accurate error
// locations from a downstream GLSL compiler.
var LineDirectives = false

// readSource reads path, validates and re-emits the #version header,
// and recursively expands #include directives.
func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &Error{Kind: ErrorIO, Path: path, Reason: err.Error(), Err: err}
	}

	source := strings.TrimSpace(string(data))
	lines := strings.Split(source, "\n")
	if len(lines) == 0 || lines[0] == "" {
		return "", &Error{Kind: ErrorUnexpectedEOF, Path: path, Reason: "empty file"}
	}

	header := lines[0]
	if !strings.HasPrefix(header, "#version ") {
		return "", &Error{Kind: ErrorMissingVersionHeader, Path: path, Reason: header}
	}

	var out strings.Builder
	pushLine(&out, header)
	if LineDirectives {
		pushLine(&out, lineDirectiveExtension)
		markLine(&out, 2, filepath.Base(path))
	}

	if err := expandIncludes(lines[1:], path, &out); err != nil {
		return "", err
	}

	return out.String(), nil
}

func expandIncludes(lines []string, selfPath string, out *strings.Builder) error {
	dir := filepath.Dir(selfPath)
	name := filepath.Base(selfPath)

	for lineNo, line := range lines {
		if include, ok := strings.CutPrefix(line, "#include "); ok {
			include = strings.Trim(strings.TrimSpace(include), `"`)
			if include == "" {
				return &Error{Kind: ErrorUnexpectedEOL, Path: selfPath, Line: lineNo, Reason: "#include with no path"}
			}

			includePath := filepath.Join(dir, include)
			data, err := os.ReadFile(includePath)
			if err != nil {
				return &Error{Kind: ErrorIO, Path: includePath, Reason: err.Error(), Err: err}
			}
			includeSource := strings.TrimSpace(string(data))
			includeLines := strings.Split(includeSource, "\n")

			if LineDirectives {
				markLine(out, 1, filepath.Base(includePath))
			}
			if err := expandIncludes(includeLines, includePath, out); err != nil {
				return err
			}
			if LineDirectives {
				markLine(out, lineNo+1, name)
			}
			continue
		}

		if strings.HasPrefix(line, "#endif") || strings.HasPrefix(line, "#pragma") {
			pushLine(out, line)
			if LineDirectives {
				markLine(out, lineNo+2, name)
			}
			continue
		}

		pushLine(out, line)
	}
	return nil
}

func pushLine(b *strings.Builder, s string) {
	b.WriteString(s)
	b.WriteByte('\n')
}

func markLine(b *strings.Builder, lineNo int, comment string) {
	pushLine(b, `#line `+strconv.Itoa(lineNo)+` "`+comment+`"`)
}
