package category

import "strings"

type Relationship int

const (
	RelationNone Relationship = iota
	RelationParent
	RelationChild
	RelationSibling
)

func (r Relationship) String() string {
	switch r {
	case RelationParent:
		return "parent"
	case RelationChild:
		return "child"
	case RelationSibling:
		return "sibling"
	default:
		return "none"
	}
}

// Resolve reports how a relates to b in the taxonomy. RelationParent means a
// is an ancestor of b. Identical categories are expected to be handled by the
// caller; malformed paths resolve to RelationNone.
func Resolve(a, b Category) Relationship {
	if !wellFormed(a.Path) || !wellFormed(b.Path) {
		return RelationNone
	}

	ak := a.PathKey()
	bk := b.PathKey()

	if strings.HasPrefix(bk, ak+".") {
		return RelationParent
	}
	if strings.HasPrefix(ak, bk+".") {
		return RelationChild
	}
	if len(a.Path) > 1 && len(b.Path) > 1 && ak != bk {
		ap := strings.Join(a.Path[:len(a.Path)-1], ".")
		bp := strings.Join(b.Path[:len(b.Path)-1], ".")
		if ap == bp {
			return RelationSibling
		}
	}
	return RelationNone
}

func wellFormed(path []string) bool {
	if len(path) == 0 {
		return false
	}
	for _, seg := range path {
		if strings.TrimSpace(seg) == "" || strings.Contains(seg, ".") {
			return false
		}
	}
	return true
}
