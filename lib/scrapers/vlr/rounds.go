package vlr

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/khemingkapat/vlrinspect/lib/htmlutil"
)

// round cells inside a phase row, skipping the half/overtime spacers
const roundCellSelector = `div.vlr-rounds-row-col[title]:not(.mod-spacing)`

// the page renders at most two phase rows: regulation, then overtime
var phaseBlockNames = []string{"Normal", "Overtime"}

type roundMarker struct {
	num         int
	winningSide Side
	reason      string
	score       string
}

// blockStartSides reads which team started each phase block on which
// side. The first round of a block is the tell: the square carrying
// the win styling belongs to the winner's slot, and its mod-t/mod-ct
// class says whether that slot opened the block on attack or defense.
func blockStartSides(row *goquery.Selection, cells *goquery.Selection) map[string]Side {
	teams := row.Find("div.team")
	if teams.Length() < 2 {
		return nil
	}

	squares := cells.First().Find("div.rnd-sq")
	if squares.Length() < 2 {
		return nil
	}

	winOrder := 0
	if !htmlutil.HasClass(squares.Eq(0), "mod-win") {
		winOrder = 1
	}

	startSide := SideDef
	if htmlutil.HasClass(squares.Eq(winOrder), "mod-t") {
		startSide = SideAtk
	}

	return map[string]Side{
		htmlutil.CleanText(teams.Eq(winOrder).Text()):     startSide,
		htmlutil.CleanText(teams.Eq(1 - winOrder).Text()): startSide.Opposite(),
	}
}

// teamBySide inverts a {team -> side} mapping, optionally flipped.
func teamBySide(start map[string]Side, flip bool) map[Side]string {
	out := map[Side]string{}
	for team, side := range start {
		if flip {
			side = side.Opposite()
		}
		out[side] = team
	}
	return out
}

// extractRounds turns one map's round-history rows into resolved
// outcomes: phase label, winning side and reason, and which team held
// attack/defense during that phase. Maps with fewer than 13 played
// rounds yield nil, an incomplete map never produces a partial table.
func extractRounds(block *goquery.Selection, mapName string, gameID int) []RoundOutcome {
	phaseRows := block.Find("div.vlr-rounds-row")
	if phaseRows.Length() == 0 {
		return nil
	}

	startSides := map[string]map[string]Side{}
	var markers []roundMarker

	phaseRows.EachWithBreak(func(i int, row *goquery.Selection) bool {
		if i >= len(phaseBlockNames) {
			return false
		}

		cells := row.Find(roundCellSelector)
		if cells.Length() == 0 {
			return true
		}

		if sides := blockStartSides(row, cells); sides != nil {
			startSides[phaseBlockNames[i]] = sides
		}

		cells.Each(func(_ int, cell *goquery.Selection) {
			winner := cell.Find("div.rnd-sq.mod-win").First()
			if winner.Length() == 0 {
				// round never played, trailing filler cell
				return
			}

			side := SideAtk
			if htmlutil.HasClass(winner, "mod-ct") {
				side = SideDef
			}

			num, err := strconv.Atoi(htmlutil.CleanText(cell.Find("div.rnd-num").First().Text()))
			if err != nil {
				return
			}

			src := winner.Find("img").First().AttrOr("src", "")
			parts := strings.Split(src, "/")
			reason := strings.TrimSuffix(parts[len(parts)-1], ".webp")

			markers = append(markers, roundMarker{
				num:         num,
				winningSide: side,
				reason:      reason,
				score:       cell.AttrOr("title", ""),
			})
		})

		return true
	})

	if len(markers) < 13 {
		return nil
	}

	normal, ok := startSides["Normal"]
	if !ok {
		return nil
	}

	phaseSides := map[Phase]map[Side]string{
		PhaseFirstHalf:  teamBySide(normal, false),
		PhaseSecondHalf: teamBySide(normal, true),
	}

	if len(markers) > 24 {
		overtime, ok := startSides["Overtime"]
		if !ok {
			return nil
		}
		lastBlock := (len(markers)-25)/12 + 1
		for k := 1; k <= lastBlock; k++ {
			// consecutive overtime blocks alternate sides
			phaseSides[OvertimePhase(k)] = teamBySide(overtime, k%2 == 0)
		}
	}

	rounds := make([]RoundOutcome, 0, len(markers))
	for i, mk := range markers {
		phase := phaseForRound(i + 1)
		sides := phaseSides[phase]
		rounds = append(rounds, RoundOutcome{
			GameID:      gameID,
			MapName:     mapName,
			Phase:       phase,
			Round:       mk.num,
			WinningSide: mk.winningSide,
			Reason:      mk.reason,
			Score:       mk.score,
			AtkTeam:     sides[SideAtk],
			DefTeam:     sides[SideDef],
		})
	}

	return rounds
}
