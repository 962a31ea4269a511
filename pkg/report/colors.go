package report

import "github.com/richard-senior/gamecomp/pkg/pipeline"

// PriorSeasonColor greys out last season's games
const PriorSeasonColor = "#DDDDDD"

// resultColors colour current season games by result
var resultColors = map[string]string{
	pipeline.ResultWin:  "green",
	pipeline.ResultDraw: "gray",
	pipeline.ResultLoss: "red",
}

// Categories is the legend order
func Categories(marker string) []string {
	return []string{pipeline.ResultWin, pipeline.ResultDraw, pipeline.ResultLoss, marker}
}

// Colors maps every legend category to its colour
func Colors(marker string) map[string]string {
	out := map[string]string{marker: PriorSeasonColor}
	for k, v := range resultColors {
		out[k] = v
	}
	return out
}
