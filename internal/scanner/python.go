package scanner

import (
	"regexp"
	"strings"
)

// PythonScan is the result of scanning one Python module.
type PythonScan struct {
	UsesStdin         bool
	UsesStdout        bool
	UsesEvalExec      bool
	DisallowedImports []string
	HasSolveDef       bool
}

var pythonDisallowedModules = map[string]bool{
	"os": true, "pathlib": true, "shutil": true, "subprocess": true,
	"socket": true, "requests": true, "urllib": true, "http": true,
	"ftplib": true, "asyncio": true, "multiprocessing": true,
}

var (
	pythonStdinRe   = regexp.MustCompile(`\binput\s*\(|sys\.stdin|open\s*\(\s*0\s*,`)
	pythonStdoutRe  = regexp.MustCompile(`\bprint\s*\(|sys\.stdout`)
	pythonEvalExec  = regexp.MustCompile(`\b(eval|exec)\s*\(`)
	pythonSolveDef  = regexp.MustCompile(`\bdef\s+solve\s*\(`)
	pythonImportRe  = regexp.MustCompile(`(?m)^\s*import\s+([A-Za-z_][\w.]*(?:\s*,\s*[A-Za-z_][\w.]*)*)`)
	pythonFromImpRe = regexp.MustCompile(`(?m)^\s*from\s+([A-Za-z_][\w.]*)\s+import\b`)
)

// ScanPython masks comments and string literals, then reports stdin/stdout
// usage, eval/exec calls, disallowed top-level imports, and whether a
// `def solve(` exists.
func ScanPython(source string) PythonScan {
	masked := maskPython(source)

	result := PythonScan{
		UsesStdin:    pythonStdinRe.MatchString(masked),
		UsesStdout:   pythonStdoutRe.MatchString(masked),
		UsesEvalExec: pythonEvalExec.MatchString(masked),
		HasSolveDef:  pythonSolveDef.MatchString(masked),
	}

	seen := map[string]bool{}
	addIfDisallowed := func(module string) {
		root := strings.SplitN(strings.TrimSpace(module), ".", 2)[0]
		if pythonDisallowedModules[root] && !seen[root] {
			seen[root] = true
			result.DisallowedImports = append(result.DisallowedImports, root)
		}
	}

	for _, m := range pythonImportRe.FindAllStringSubmatch(masked, -1) {
		for _, name := range strings.Split(m[1], ",") {
			addIfDisallowed(name)
		}
	}
	for _, m := range pythonFromImpRe.FindAllStringSubmatch(masked, -1) {
		addIfDisallowed(m[1])
	}

	return result
}
