package facet

import "github.com/matst80/moment-finder/pkg/types"

// WnbaTeams is the default roster of the secondary league. Every other team
// belongs to the NBA.
var WnbaTeams = types.IdSet(
	"Atlanta Dream",
	"Chicago Sky",
	"Connecticut Sun",
	"Dallas Wings",
	"Indiana Fever",
	"Las Vegas Aces",
	"Los Angeles Sparks",
	"Minnesota Lynx",
	"New York Liberty",
	"Phoenix Mercury",
	"Seattle Storm",
	"Washington Mystics",
	"Detroit Shock",
	"Houston Comets",
	"Sacramento Monarchs",
	"Team Stewart",
	"Team Wilson",
	"Golden State Valkyries",
)

// League derives the league label of a moment from its team.
func League(m *types.Moment, ctx *types.FilterContext) string {
	roster := WnbaTeams
	if ctx != nil && ctx.LeagueRoster != nil {
		roster = ctx.LeagueRoster
	}
	if _, ok := roster[m.TeamAtMoment]; ok {
		return types.LeagueWNBA
	}
	return types.LeagueNBA
}
