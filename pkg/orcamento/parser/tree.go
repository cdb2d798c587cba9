package parser

import (
	"strings"

	"github.com/orceu/orceu-api-saas/pkg/orcamento/models"
)

// EnsureStagePath walks the dotted path given by parts from root and
// returns the stage at its end. Missing stages along the way are created
// empty and appended to their siblings. Siblings are searched linearly.
func EnsureStagePath(root *[]models.Item, parts []string) *models.Stage {
	items := root
	var node *models.Stage

	for depth := range parts {
		prefix := strings.Join(parts[:depth+1], ".")
		node = findChildStage(*items, prefix)
		if node == nil {
			node = &models.Stage{Index: prefix}
			*items = append(*items, node)
		}
		items = &node.Items
	}

	return node
}

// AddChildToIndex inserts child at the position named by index. An index
// without a dot places it at the root; otherwise it goes under the stage
// named by all but the last segment, which is created if needed.
func AddChildToIndex(root *[]models.Item, index string, child models.Item) {
	parts := strings.Split(index, ".")
	if len(parts) == 1 {
		*root = append(*root, child)
		return
	}

	parent := EnsureStagePath(root, parts[:len(parts)-1])
	parent.Items = append(parent.Items, child)
}

func findChildStage(items []models.Item, index string) *models.Stage {
	for _, item := range items {
		if s, ok := item.(*models.Stage); ok && s.Index == index {
			return s
		}
	}
	return nil
}
