package parser

import "strings"

// analyticSheetNames are the worksheet names, in order of preference, that
// hold the analytic estimate.
var analyticSheetNames = []string{
	"analitico",
	"analítico",
	"analitico_orcamento",
	"planilha orçamentária analítica",
	"planilha orcamentaria analitica",
}

// ChooseSheet picks the worksheet holding the analytic estimate: a sheet
// with one of the known names (case-insensitive), then any sheet whose name
// mentions "analítico", then the first sheet. It returns "" for an empty
// list.
func ChooseSheet(names []string) string {
	if len(names) == 0 {
		return ""
	}

	for _, want := range analyticSheetNames {
		for _, name := range names {
			if strings.ToLower(name) == want {
				return name
			}
		}
	}

	for _, name := range names {
		if strings.Contains(Fold(name), "analitic") {
			return name
		}
	}

	return names[0]
}
