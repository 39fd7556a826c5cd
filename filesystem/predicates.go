package filesystem

import (
	"path/filepath"
	"strings"
)

// ManifestExt is the extension of a project manifest file.
const ManifestExt = ".csproj"

// IsSourceFile checks if a file is a compilable source file.
func IsSourceFile(name string) bool {
	return strings.HasSuffix(name, ".cs")
}

// IsManifestFile checks if a file is a project manifest.
func IsManifestFile(name string) bool {
	return strings.HasSuffix(name, ManifestExt)
}

// IsTestFile checks if a file belongs to a test project, based on the
// configured test-project suffix. With the default ".Tests" suffix this
// matches "BarTests.cs" as well as anything under a "Foo.Tests" directory.
func IsTestFile(path, suffix string) bool {
	marker := strings.TrimPrefix(suffix, ".")
	if strings.HasSuffix(path, marker+".cs") {
		return true
	}
	for _, seg := range strings.Split(filepath.Dir(path), string(filepath.Separator)) {
		if strings.HasSuffix(seg, suffix) {
			return true
		}
	}
	return false
}

// IsBuildOutput checks if a path sits under a build output directory.
func IsBuildOutput(path string) bool {
	for _, seg := range strings.Split(path, string(filepath.Separator)) {
		if seg == "bin" || seg == "obj" {
			return true
		}
	}
	return false
}

// IsRelevant reports whether a changed file should enter the handling path
// at all: tracked extension, outside build output.
func IsRelevant(path string) bool {
	if IsBuildOutput(path) {
		return false
	}
	name := filepath.Base(path)
	return IsSourceFile(name) || IsManifestFile(name)
}
