package scanner

import (
	"regexp"
	"strings"
)

// CppScan is the result of scanning one C++ translation unit.
type CppScan struct {
	HasSolve       bool
	UsesStdout     bool
	UsesStdin      bool
	SolveSignature string // "<returnType> solve(<params>)" of the first top-level solve definition
}

var (
	cppSolveDefRe = regexp.MustCompile(`(?s)([A-Za-z_][A-Za-z0-9_:<>,\s\*&]*?)\bsolve\s*\(([^)]*)\)\s*\{`)
	cppStdoutRe   = regexp.MustCompile(`\b(cout|cerr|printf)\b`)
	cppStdinRe    = regexp.MustCompile(`\b(cin|scanf|getline)\b`)
)

// ScanCpp masks comments and string/char literals, then looks for a
// top-level solve(...) definition and stdin/stdout usage. The returned
// SolveSignature carries only the signature (return type + parameters),
// never the body, so callers can synthesize a starter scaffold without
// leaking the reference implementation.
func ScanCpp(source string) CppScan {
	masked := maskCStyle(source)

	result := CppScan{
		UsesStdout: cppStdoutRe.MatchString(masked),
		UsesStdin:  cppStdinRe.MatchString(masked),
	}

	for _, loc := range cppSolveDefRe.FindAllStringSubmatchIndex(masked, -1) {
		matchStart := loc[0]
		if braceDepthAt(masked, matchStart) != 0 {
			continue
		}

		returnType := strings.TrimSpace(masked[loc[2]:loc[3]])
		params := strings.TrimSpace(masked[loc[4]:loc[5]])

		result.HasSolve = true
		result.SolveSignature = strings.TrimSpace(returnType + " solve(" + params + ")")
		break
	}

	return result
}
