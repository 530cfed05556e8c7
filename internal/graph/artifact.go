package graph

// Artifact is a node representing an observable, content-hashable entity.
// File is the common specialization; a bare Artifact is useful for
// artifacts that aren't backed by the filesystem (e.g. test fixtures, or a
// named sentinel in a synthetic graph).
type Artifact struct {
	edges
	status Status
}

// NewArtifact returns an Artifact with the given initial status.
func NewArtifact(status Status) *Artifact {
	return &Artifact{edges: newEdges(), status: status}
}

func (a *Artifact) Status() Status     { return a.status }
func (a *Artifact) SetStatus(s Status) { a.status = s }
