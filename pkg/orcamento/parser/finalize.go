package parser

import "github.com/orceu/orceu-api-saas/pkg/orcamento/models"

// singularStageIndex is the only stage whose children are written under
// "estimate_item" instead of "estimate_items".
const singularStageIndex = "1"

// Finalize marks the first stage (depth-first) indexed "1" so that its
// children serialize under "estimate_item". No other node is touched and
// running it again leaves the tree unchanged.
func Finalize(est *models.Estimate) {
	if s := findStage(est.Items, singularStageIndex); s != nil {
		s.SingularItemsKey = true
	}
}

func findStage(items []models.Item, index string) *models.Stage {
	for _, item := range items {
		s, ok := item.(*models.Stage)
		if !ok {
			continue
		}
		if s.Index == index {
			return s
		}
		if found := findStage(s.Items, index); found != nil {
			return found
		}
	}
	return nil
}
