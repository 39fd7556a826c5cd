package filesystem

import (
	"sort"
	"strings"

	"github.com/boyter/gocodewalker"
)

// FindManifests walks the tree once at startup and returns every project
// manifest under root, sorted. The resolver never consults this list (the
// tree may change between events); it only feeds the status display.
func FindManifests(root string) []string {
	fileListQueue := make(chan *gocodewalker.File, 100)
	fileWalker := gocodewalker.NewFileWalker(root, fileListQueue)
	fileWalker.AllowListExtensions = []string{strings.TrimPrefix(ManifestExt, ".")}

	go func() {
		_ = fileWalker.Start()
	}()

	var manifests []string
	for f := range fileListQueue {
		if IsBuildOutput(f.Location) {
			continue
		}
		manifests = append(manifests, f.Location)
	}
	sort.Strings(manifests)
	return manifests
}
