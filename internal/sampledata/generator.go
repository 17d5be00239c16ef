package sampledata

import (
	"context"
	"math/rand/v2"
	"strconv"

	"github.com/okian/radar/pkg/logger"
)

// leagues lists the generated leagues and their teams in output order.
var leagues = []struct {
	name  string
	teams []string
}{
	{"La Liga", []string{"Barcelona", "Real Madrid", "Atlético Madrid", "Sevilla"}},
	{"Serie A", []string{"Juventus", "Inter", "Milan", "Napoli"}},
	{"Premier League", []string{"Liverpool", "Manchester City", "Chelsea", "Arsenal"}},
	{"Bundesliga", []string{"Bayern München", "Borussia Dortmund", "RB Leipzig", "Bayer Leverkusen"}},
	{"Ligue 1", []string{"Paris Saint-Germain", "Lyon", "Marseille", "Lille"}},
}

// unresolvedTeam plays in the table but is absent from the lookup.
const unresolvedTeam = "Ajax"

// stars pins the players the page selects by default.
var stars = map[string]string{
	"Barcelona": "L. Messi",
	"Juventus":  "Cristiano Ronaldo",
}

var (
	initials  = []string{"A.", "B.", "C.", "D.", "E.", "F.", "G.", "H.", "J.", "K.", "L.", "M.", "N.", "P.", "R.", "S.", "T.", "V."}
	surnames  = []string{"Silva", "Müller", "Rossi", "García", "Martin", "Kovač", "Jensen", "Nowak", "Dubois", "Santos", "Fernández", "Bianchi", "Schmidt", "Petrović", "Moreau", "Costa", "Novak", "Lindqvist", "Kane", "Okafor", "Haaland", "Pereira", "Romero", "Ziegler"}
	positions = []string{"GK", "CB", "LB", "RB", "DMF", "CMF", "AMF", "LW", "RW", "CF"}
)

// metric describes one generated numeric column.
type metric struct {
	name     string
	min, max float64
}

var metrics = []metric{
	{"Age", 17, 38},
	{"Goals", 0, 30},
	{"Assists", 0, 18},
	{"Non-penalty goals per 90", 0, 1.0},
	{"xG per 90", 0, 1.0},
	{"Shots per 90", 0, 6},
	{"Shots on target %", 0, 70},
	{"xA per 90", 0, 0.6},
	{"Dribbles succ. %", 20, 80},
	{"Off duels won %", 20, 60},
	{"Touches in box per 90", 0, 9},
	{"Passes per 90", 10, 90},
	{"Accurate passes %", 60, 95},
	{"Interceptions per 90", 0, 8},
}

// Minutes bounds; a share of players falls below the default 800 filter.
const (
	minutesMin = 90
	minutesMax = 3420
	starMin    = 2500
)

// Generate builds the tables described by cfg. The same cfg always yields the
// same dataset.
func Generate(ctx context.Context, cfg Config) Dataset {
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	perTeam := cfg.PlayersPerTeam
	if perTeam < 1 {
		perTeam = 1
	}

	header := []string{ColumnTeam, ColumnPlayer, ColumnPosition, ColumnMinutes}
	for _, m := range metrics {
		header = append(header, m.name)
	}

	ds := Dataset{
		Header:       header,
		LookupHeader: []string{ColumnTeam, ColumnLeague},
	}

	teams := make([]string, 0, len(leagues)*4+1)
	for _, l := range leagues {
		for _, t := range l.teams {
			teams = append(teams, t)
			ds.Lookup = append(ds.Lookup, []string{t, l.name})
		}
	}
	if cfg.IncludeUnresolved {
		teams = append(teams, unresolvedTeam)
	}

	used := make(map[string]struct{})
	for _, team := range teams {
		for i := 0; i < perTeam; i++ {
			name, isStar := stars[team], i == 0
			if !isStar || name == "" {
				name = uniqueName(rng, used)
				isStar = false
			}
			used[name] = struct{}{}
			ds.Rows = append(ds.Rows, playerRow(rng, team, name, isStar))
		}
	}

	if cfg.IncludeDirtyRows {
		ds.Rows = append(ds.Rows, dirtyRows(rng, ds.Rows)...)
	}

	cfg.log().Debug(ctx, "generated sample dataset",
		logger.Int("rows", len(ds.Rows)),
		logger.Int("teams", len(teams)),
		logger.Int("leagues", len(leagues)),
		logger.Bool("dirtyRows", cfg.IncludeDirtyRows),
	)
	return ds
}

func uniqueName(rng *rand.Rand, used map[string]struct{}) string {
	for attempt := 0; ; attempt++ {
		name := initials[rng.IntN(len(initials))] + " " + surnames[rng.IntN(len(surnames))]
		if attempt > len(initials) {
			name += " " + strconv.Itoa(attempt)
		}
		if _, taken := used[name]; !taken {
			return name
		}
	}
}

func playerRow(rng *rand.Rand, team, name string, star bool) []string {
	minutes := minutesMin + rng.IntN(minutesMax-minutesMin+1)
	if star && minutes < starMin {
		minutes = starMin + rng.IntN(minutesMax-starMin+1)
	}
	row := []string{team, name, positions[rng.IntN(len(positions))], strconv.Itoa(minutes)}
	for _, m := range metrics {
		v := m.min + rng.Float64()*(m.max-m.min)
		if star && m.name != "Age" {
			// Stars sit in the top quarter of every range.
			v = m.max - rng.Float64()*(m.max-m.min)/4
		}
		row = append(row, strconv.FormatFloat(v, 'f', 2, 64))
	}
	return row
}

// dirtyRows returns a row without team, a duplicate of the first player and a
// row with blank, NaN and negative cells.
func dirtyRows(rng *rand.Rand, rows [][]string) [][]string {
	noTeam := append([]string(nil), rows[rng.IntN(len(rows))]...)
	noTeam[0] = ""
	noTeam[1] = "Unattached Player"

	dup := append([]string(nil), rows[0]...)
	dup[3] = strconv.Itoa(minutesMax)

	blanks := append([]string(nil), rows[len(rows)-1]...)
	blanks[1] = "Sparse Stats"
	blanks[3] = strconv.Itoa(minutesMax)
	blanks[len(blanks)-1] = ""
	blanks[len(blanks)-2] = "NaN"
	blanks[len(blanks)-3] = "-1.50"

	return [][]string{noTeam, dup, blanks}
}

// Teams returns the team names of ds in row order, without duplicates or blanks.
func (ds Dataset) Teams() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, row := range ds.Rows {
		if row[0] == "" {
			continue
		}
		if _, ok := seen[row[0]]; !ok {
			seen[row[0]] = struct{}{}
			out = append(out, row[0])
		}
	}
	return out
}

// MetricNames returns the numeric column names of ds.
func (ds Dataset) MetricNames() []string {
	out := []string{ColumnMinutes}
	for _, m := range metrics {
		out = append(out, m.name)
	}
	return out
}
