package entities

// StageReport counts what the tree stager produced.
type StageReport struct {
	Directories int
	Files       int
	Skipped     int
	Bytes       int64
}

// PatchReport counts what the patch engine changed.
type PatchReport struct {
	Files    int
	Patches  int
	Created  int
	Modified int
	Deleted  int
}

// Record bumps the counter matching the operation.
func (r *PatchReport) Record(op Operation) {
	r.Patches++
	switch op {
	case OperationCreate:
		r.Created++
	case OperationModify:
		r.Modified++
	case OperationDelete:
		r.Deleted++
	}
}

// BuildManifest describes a staged and patched tree for the compiler step.
type BuildManifest struct {
	Source       string   `yaml:"source"`
	Patches      string   `yaml:"patches"`
	Output       string   `yaml:"output"`
	PageSize     string   `yaml:"page_size"`
	Features     []string `yaml:"features"`
	Defines      []string `yaml:"defines"`
	ExtraSources []string `yaml:"extra_sources,omitempty"`
	Digest       string   `yaml:"digest"`
	Files        int      `yaml:"files"`
	PatchFiles   int      `yaml:"patch_files"`
	Created      int      `yaml:"created"`
	Modified     int      `yaml:"modified"`
	Deleted      int      `yaml:"deleted"`
}
