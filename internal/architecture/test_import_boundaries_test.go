package architecture_test

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Test files follow the same layering as production code, with one
// dispensation: they may import internal/testutil.
func TestTestImportBoundaries(t *testing.T) {
	t.Helper()

	files, err := collectGoFiles(internalRootDir())
	require.NoError(t, err)

	violations := make([]string, 0)
	for _, file := range files {
		if !isTestFile(file) {
			continue
		}

		sourcePkg := packageImportPath(file)
		rule, ok := findRule(sourcePkg)
		if !ok {
			continue
		}

		relPath := relToRepoRoot(file)
		for _, importPath := range parseImports(t, file) {
			if !strings.HasPrefix(importPath, modulePath+"/") {
				continue
			}
			if hasPathPrefix(importPath, modulePath+"/internal/testutil") {
				continue
			}
			if matchingForbiddenPrefix(importPath, rule.forbidden) == "" {
				continue
			}

			violations = append(violations,
				"governance: test "+sourcePkg+" imports "+importPath+" via "+relPath+"; allowed direction: "+rule.hint,
			)
		}
	}

	if len(violations) > 0 {
		sort.Strings(violations)
		t.Fatalf("%s", strings.Join(violations, "\n"))
	}
}
