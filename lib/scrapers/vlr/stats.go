package vlr

// StatNames maps the overview table's short column headers to display
// names, in table order.
var StatNames = map[string]string{
	"r2.0": "Rating 2.0",
	"acs":  "ACS",
	"k":    "Kill",
	"d":    "Death",
	"a":    "Assist",
	"+/–": "KD Diff",
	"kast": "KAST",
	"adr":  "ADR",
	"hs%":  "Headshot %",
	"fk":   "First Kill",
	"fd":   "First Death",
	"f+/–": "FKD Diff",
}

// StatName resolves a header to its display name, passing unknown
// headers through unchanged.
func StatName(header string) string {
	if name, ok := StatNames[header]; ok {
		return name
	}
	return header
}
