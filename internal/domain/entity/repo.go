package entity

// Repo is a repository record supplied by the external discovery service.
// Pane worktree sources reference these by id only; there is no foreign
// key relationship.
type Repo struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Path string `json:"path,omitempty"`
}

// Worktree is a git worktree record from the discovery service.
type Worktree struct {
	ID     string `json:"id"`
	RepoID string `json:"repo_id"`
	Path   string `json:"path,omitempty"`
	Branch string `json:"branch,omitempty"`
}
