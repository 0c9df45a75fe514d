package preprocess

import "strings"

type stageFilter int

const (
	stageBoth stageFilter = iota
	stageVertex
	stageFragment
)

// splitStages partitions the expanded source into vertex and fragment
// text, honoring two different stage-delimiting conventions found in
// slang shaders: explicit `#pragma stage vertex`/
// `#pragma stage fragment` sections, and `#ifdef VERTEX`/`#ifdef FRAGMENT`
// conditional guards around shared source. Lines outside either form
// belong to both stages.
func splitStages(source string) (vertex, fragment string) {
	var v, f strings.Builder
	lines := strings.Split(source, "\n")

	section := stageBoth // which #pragma stage section we're in
	var ifdefStack []stageFilter

	emit := func(line string) {
		if keepFor(section, ifdefStack, stageVertex) {
			v.WriteString(line)
			v.WriteByte('\n')
		}
		if keepFor(section, ifdefStack, stageFragment) {
			f.WriteString(line)
			f.WriteByte('\n')
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "#pragma stage vertex"):
			section = stageVertex
			continue
		case strings.HasPrefix(trimmed, "#pragma stage fragment"):
			section = stageFragment
			continue

		case strings.HasPrefix(trimmed, "#ifdef VERTEX"):
			ifdefStack = append(ifdefStack, stageVertex)
			continue
		case strings.HasPrefix(trimmed, "#ifdef FRAGMENT"):
			ifdefStack = append(ifdefStack, stageFragment)
			continue
		case strings.HasPrefix(trimmed, "#endif"):
			if len(ifdefStack) > 0 {
				ifdefStack = ifdefStack[:len(ifdefStack)-1]
				continue
			}
			emit(line)
			continue
		}

		emit(line)
	}

	return v.String(), f.String()
}

// keepFor reports whether a line under the current #pragma stage section
// and #ifdef VERTEX/FRAGMENT guard stack should be emitted into `for`.
func keepFor(section stageFilter, ifdefStack []stageFilter, forStage stageFilter) bool {
	if section != stageBoth && section != forStage {
		return false
	}
	for _, guard := range ifdefStack {
		if guard != forStage {
			return false
		}
	}
	return true
}
