package category

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyPath       = errors.New("category path is empty")
	ErrPathMismatch    = errors.New("category path does not end with its id")
	ErrLevelMismatch   = errors.New("category level does not match path length")
	ErrParentMismatch  = errors.New("category path does not extend its parent path")
	ErrUnexpectedRoot  = errors.New("root category must not have a parent")
	ErrMissingParentID = errors.New("non-root category has no parent id")
)

// Category is a node of the category taxonomy. Path holds the ancestor ids
// from the root down to the category itself.
type Category struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Path     []string `json:"path"`
	Level    int      `json:"level"`
	ParentID *string  `json:"parentId,omitempty"`
}

func (c Category) PathKey() string {
	return strings.Join(c.Path, ".")
}

func (c Category) IsRoot() bool {
	return c.ParentID == nil
}

// Validate checks that the path, level and parent of c agree with each other.
// parent may be nil for root categories or when the parent is not at hand, in
// which case only the local invariants are checked.
func Validate(c Category, parent *Category) error {
	if len(c.Path) == 0 {
		return ErrEmptyPath
	}
	if c.Path[len(c.Path)-1] != c.ID {
		return fmt.Errorf("%w: id=%s path=%s", ErrPathMismatch, c.ID, c.PathKey())
	}
	if c.Level != len(c.Path)-1 {
		return fmt.Errorf("%w: id=%s level=%d", ErrLevelMismatch, c.ID, c.Level)
	}
	if len(c.Path) == 1 {
		if c.ParentID != nil {
			return ErrUnexpectedRoot
		}
		return nil
	}
	if c.ParentID == nil {
		return ErrMissingParentID
	}
	if c.Path[len(c.Path)-2] != *c.ParentID {
		return fmt.Errorf("%w: id=%s parent=%s", ErrParentMismatch, c.ID, *c.ParentID)
	}
	if parent != nil && parent.PathKey() != strings.Join(c.Path[:len(c.Path)-1], ".") {
		return fmt.Errorf("%w: id=%s parent=%s", ErrParentMismatch, c.ID, parent.ID)
	}
	return nil
}
