package types

// ExistenceState classifies the coarse local layout: whether the home
// manifest and the repository clone are present. It is derived fresh on
// every command invocation and never cached across runs.
type ExistenceState int

const (
	// ExistenceNeither means neither the manifest nor the clone exists
	ExistenceNeither ExistenceState = iota

	// ExistenceManifestOnly means the manifest exists but the clone does not
	ExistenceManifestOnly

	// ExistenceRepoOnly means the clone exists but the manifest does not
	ExistenceRepoOnly

	// ExistenceBoth means both the manifest and the clone exist
	ExistenceBoth
)

func (s ExistenceState) String() string {
	switch s {
	case ExistenceNeither:
		return "neither"
	case ExistenceManifestOnly:
		return "manifest-only"
	case ExistenceRepoOnly:
		return "repo-only"
	case ExistenceBoth:
		return "both"
	}
	return "unknown"
}

// BranchState classifies where the tracked branch exists after a fetch.
type BranchState int

const (
	// BranchNeither means the branch exists in no ref list
	BranchNeither BranchState = iota

	// BranchLocalOnly means the branch exists only in local refs
	BranchLocalOnly

	// BranchRemoteOnly means the branch exists only in remote refs
	BranchRemoteOnly

	// BranchBoth means the branch exists in both ref lists
	BranchBoth
)

func (s BranchState) String() string {
	switch s {
	case BranchNeither:
		return "neither"
	case BranchLocalOnly:
		return "local-only"
	case BranchRemoteOnly:
		return "remote-only"
	case BranchBoth:
		return "both"
	}
	return "unknown"
}

// PathKind is the result of classifying a candidate path.
type PathKind int

const (
	// PathFile is a regular file
	PathFile PathKind = iota

	// PathDirectory is a directory
	PathDirectory
)

func (k PathKind) String() string {
	if k == PathDirectory {
		return "directory"
	}
	return "file"
}

// Owner is a remote hosting account name. It has no internal structure.
type Owner string

// Repo is a remote repository name. It has no internal structure.
type Repo string
