package runner

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Job describes one resolved test invocation: which test project to run and
// which fully-qualified test name filter to apply.
type Job struct {
	TestProjectPath string
	Filter          string
	ProjectName     string
	FileName        string
}

// ResolveJob locates the project that owns a changed file and derives the
// test project and filter from it. It walks the parent-directory chain
// upward, looking for a single project manifest per directory, and stops at
// the first hit. The tree is walked fresh on every call; nothing is cached.
func ResolveJob(changedFile, suffix string) (*Job, error) {
	projectDir, manifest, err := findManifest(filepath.Dir(changedFile))
	if err != nil {
		return nil, err
	}

	projectName := strings.TrimSuffix(filepath.Base(manifest), filepath.Ext(manifest))
	fileBase := strings.TrimSuffix(filepath.Base(changedFile), filepath.Ext(changedFile))

	// Namespace-from-folder: the segment immediately containing the changed
	// file, separators mapped to dots. A single segment by convention.
	namespace := strings.ReplaceAll(filepath.Base(filepath.Dir(changedFile)), string(filepath.Separator), ".")

	job := &Job{
		ProjectName: projectName,
		FileName:    filepath.Base(changedFile),
	}

	if strings.HasSuffix(projectName, suffix) {
		// The changed file already lives inside the test project.
		job.TestProjectPath = manifest
		job.Filter = namespace + "." + fileBase
		return job, nil
	}

	// Convention: the test project is a sibling directory named
	// <projectDir><suffix> with manifest <projectName><suffix>.csproj.
	fileSuffix := strings.TrimPrefix(suffix, ".")
	job.TestProjectPath = filepath.Join(projectDir+suffix, projectName+suffix+".csproj")
	job.Filter = namespace + suffix + "." + fileBase + fileSuffix
	return job, nil
}

// findManifest walks upward from dir until it finds a directory holding
// exactly one project manifest. It fails if the walk reaches the filesystem
// root, or if a directory holds more than one manifest.
func findManifest(dir string) (string, string, error) {
	for {
		matches, err := filepath.Glob(filepath.Join(dir, "*"+manifestExt))
		if err != nil {
			return "", "", err
		}
		if len(matches) == 1 {
			return dir, matches[0], nil
		}
		if len(matches) > 1 {
			return "", "", fmt.Errorf("ambiguous project: %d manifests in %s", len(matches), dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", fmt.Errorf("no project manifest found above %s", dir)
		}
		dir = parent
	}
}

const manifestExt = ".csproj"

// Command returns the test invocation for this job: a fixed dotnet test
// shape with no restore, an explicit build configuration, a fully-qualified
// name filter and minimal verbosity.
func (j *Job) Command(configuration string) (string, []string) {
	return "dotnet", []string{
		"test", j.TestProjectPath,
		"--no-restore",
		"--configuration", configuration,
		"--filter", "FullyQualifiedName~" + j.Filter,
		"-v", "n",
	}
}
