package validator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/testbench/pkg/config"
	"github.com/aretw0/testbench/pkg/domain"
	"github.com/aretw0/testbench/pkg/node"
	"github.com/aretw0/testbench/pkg/ports"
)

// ValidateTree crawls the composition tree rooted at root against cfg and
// reports every problem at once, where the initialize cascade stops at the
// first: missing sub-trees, core attributes of the wrong type, and sub-trees
// that no node will ever read (when cfg can list its children). Unclaimed
// empty sub-trees are left alone: YAML loads `Units:` as one, and nodes read
// it as an absent attribute.
// The returned error wraps domain.MalformedConfig.
func ValidateTree(root node.Component, cfg ports.ConfigTree) error {
	if cfg == nil {
		return fmt.Errorf("%w: configuration is absent", domain.MalformedConfig)
	}

	var errors []string
	var crawl func(c node.Component, parent ports.ConfigTree, path string)
	crawl = func(c node.Component, parent ports.ConfigTree, path string) {
		n := c.Base()
		if path == "" {
			path = n.Name()
		} else {
			path += "/" + n.Name()
		}

		sub, ok := parent.Child(n.Name())
		if !ok || sub == nil {
			errors = append(errors, fmt.Sprintf("Missing configuration: '%s'", path))
			return
		}
		if _, err := config.Bool(sub, domain.KeyUsed, false); err != nil {
			errors = append(errors, fmt.Sprintf("'%s': %s is not a boolean", path, domain.KeyUsed))
		}
		if _, err := config.String(sub, domain.KeyInfo, ""); err != nil {
			errors = append(errors, fmt.Sprintf("'%s': %s is not a string", path, domain.KeyInfo))
		}

		children := n.Children()
		if lister, ok := sub.(ports.ChildLister); ok {
			known := make(map[string]bool, len(children))
			for _, child := range children {
				known[child.Base().Name()] = true
			}
			names := lister.ChildNames()
			slices.Sort(names)
			for _, name := range names {
				if known[name] {
					continue
				}
				if extra, ok := sub.Child(name); ok && empty(extra) {
					continue
				}
				errors = append(errors, fmt.Sprintf("Unknown node: '%s/%s'", path, name))
			}
		}

		for _, child := range children {
			crawl(child, sub, path)
		}
	}
	crawl(root, cfg, "")

	if len(errors) > 0 {
		return fmt.Errorf("%w: found %d errors:\n- %s", domain.MalformedConfig, len(errors), strings.Join(errors, "\n- "))
	}
	return nil
}

// empty reports whether t has neither attributes nor sub-trees. Trees that
// cannot list their contents are never considered empty.
func empty(t ports.ConfigTree) bool {
	attrs, ok := t.(ports.AttrLister)
	if !ok {
		return false
	}
	children, ok := t.(ports.ChildLister)
	if !ok {
		return false
	}
	return len(attrs.Attrs()) == 0 && len(children.ChildNames()) == 0
}
