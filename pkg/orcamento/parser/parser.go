package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/orceu/orceu-api-saas/pkg/orcamento/models"
)

// Stats counts how the rows of a sheet were classified.
type Stats struct {
	Rows         int `json:"rows"`
	Stages       int `json:"stages"`
	Compositions int `json:"compositions"`
	Resources    int `json:"resources"`
	Blank        int `json:"blank"`
	Headers      int `json:"headers"`
	// Dropped counts rows that matched no kind and were skipped.
	Dropped int `json:"dropped"`
}

// state is what the row loop carries from one row to the next.
type state struct {
	// lastStageIndex is the index of the most recent stage row.
	lastStageIndex string
	// autoSeq is the last suffix given to a composition under that stage.
	autoSeq int
	// current is the composition that collects unindexed resources.
	current *models.Composition
}

// Parse builds an estimate from the rows of one worksheet in a single
// forward pass. Rows that cannot be classified are skipped and counted in
// Stats.Dropped; Parse never fails on malformed rows.
func Parse(rows [][]string) (*models.Estimate, Stats) {
	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = joinFilled(row, " ")
	}
	name, bdi := ExtractMeta(lines)

	est := &models.Estimate{
		Name:      name,
		BdiGlobal: bdi,
		Items:     []models.Item{},
	}

	var (
		st    state
		stats Stats
	)
	for _, cells := range rows {
		stats.Rows++

		row := ClassifyRow(cells)
		switch row.Kind {
		case KindBlank:
			stats.Blank++
		case KindHeader:
			stats.Headers++
		case KindStage:
			st.openStage(est, row)
			stats.Stages++
		case KindComposition:
			st.addComposition(est, row)
			stats.Compositions++
		case KindResource:
			st.addResource(est, row)
			stats.Resources++
		default:
			stats.Dropped++
		}
	}

	Finalize(est)
	return est, stats
}

func (s *state) openStage(est *models.Estimate, row Row) {
	node := EnsureStagePath(&est.Items, strings.Split(row.Index, "."))
	node.Name = models.StringPtr(row.Name)
	if row.PriceTotal != nil {
		node.PriceTotal = row.PriceTotal
	}

	s.current = nil
	s.lastStageIndex = row.Index
	s.autoSeq = 0
}

func (s *state) addComposition(est *models.Estimate, row Row) {
	comp := &models.Composition{
		Priced:   row.Item,
		Children: []*models.Resource{},
	}

	index := row.Index
	switch {
	case index != "":
		s.skipPast(index)
	case s.lastStageIndex != "":
		s.autoSeq++
		index = fmt.Sprintf("%s.%d", s.lastStageIndex, s.autoSeq)
	default:
		index = "1"
	}
	comp.Index = index

	AddChildToIndex(&est.Items, index, comp)
	s.current = comp
}

// skipPast moves the auto-index counter past an explicit index written
// under the current stage.
func (s *state) skipPast(index string) {
	parent, suffix, ok := cutLast(index)
	if !ok || parent != s.lastStageIndex {
		return
	}
	if n, err := strconv.Atoi(suffix); err == nil && n > s.autoSeq {
		s.autoSeq = n
	}
}

func (s *state) addResource(est *models.Estimate, row Row) {
	res := &models.Resource{Priced: row.Item}

	switch {
	case row.Index != "":
		AddChildToIndex(&est.Items, row.Index, res)
	case s.current != nil:
		s.current.Children = append(s.current.Children, res)
	case s.lastStageIndex != "":
		stage := EnsureStagePath(&est.Items, strings.Split(s.lastStageIndex, "."))
		stage.Items = append(stage.Items, res)
	default:
		est.Items = append(est.Items, res)
	}
}

func cutLast(index string) (parent, suffix string, ok bool) {
	i := strings.LastIndex(index, ".")
	if i < 0 {
		return "", "", false
	}
	return index[:i], index[i+1:], true
}

func joinFilled(cells []string, sep string) string {
	filled := make([]string, 0, len(cells))
	for _, c := range cells {
		if c = strings.TrimSpace(c); c != "" {
			filled = append(filled, c)
		}
	}
	return strings.Join(filled, sep)
}
