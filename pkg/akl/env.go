package akl

// EnvId is a handle into a Worker's environment arena rather than a
// pointer, following the teacher's "arena of cells addressed by
// index" strategy for a tree with no natural ownership direction:
// and-boxes are created and destroyed in a non-stack order (promotion
// can outlive a sibling, splitting duplicates a whole subtree) so a
// naive parent pointer would fight Go's garbage collector and the
// env tree's own re-homing step at promotion.
type EnvId int32

// noEnv (-1) is reserved for "no environment" (never a valid handle
// into the arena); the zero EnvId is the root environment.
const noEnv EnvId = -1

type envNode struct {
	parent EnvId
}

// envArena owns the environment tree for one Worker. It grows
// monotonically; promotion re-homes cells by changing their EnvId
// field, never by mutating the arena itself, so no entry is ever
// rewritten once allocated.
type envArena struct {
	nodes []envNode
}

func newEnvArena() *envArena {
	// Reserve slot 0 as the root environment, parented to itself's
	// absence (noEnv).
	return &envArena{nodes: []envNode{{parent: noEnv}}}
}

// Root returns the root environment id.
func (a *envArena) Root() EnvId { return 0 }

// Child allocates a fresh environment whose parent is parent.
func (a *envArena) Child(parent EnvId) EnvId {
	id := EnvId(len(a.nodes))
	a.nodes = append(a.nodes, envNode{parent: parent})
	return id
}

// Parent returns the parent of id, or noEnv if id is the root.
func (a *envArena) Parent(id EnvId) EnvId {
	return a.nodes[id].parent
}

// IsAncestor reports whether anc is a (non-strict) ancestor of id:
// walking parents from id eventually reaches anc.
func (a *envArena) IsAncestor(anc, id EnvId) bool {
	for cur := id; cur != noEnv; cur = a.Parent(cur) {
		if cur == anc {
			return true
		}
	}
	return false
}

// Local reports whether v's owning env is local to an and-box whose
// own env is andBoxEnv: equal to it, or a descendant of it.
func (a *envArena) Local(v *Var, andBoxEnv EnvId) bool {
	return a.IsAncestor(andBoxEnv, v.env)
}

// External is the complement of Local.
func (a *envArena) External(v *Var, andBoxEnv EnvId) bool {
	return !a.Local(v, andBoxEnv)
}
