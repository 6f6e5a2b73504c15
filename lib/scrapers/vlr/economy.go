package vlr

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/khemingkapat/vlrinspect/lib/htmlutil"
)

type econRound struct {
	round  int
	atkBuy BuyType
	defBuy BuyType
}

// buyTier decodes the repeated currency glyphs of an economy icon.
func buyTier(text string) BuyType {
	switch strings.Count(text, "$") {
	case 0:
		return BuyFullEco
	case 1:
		return BuySemiEco
	case 2:
		return BuySemiBuy
	default:
		return BuyFullBuy
	}
}

// attackerSlot finds which of the two icon slots holds the attacking
// team for a phase block, from the first round's win marker: if the
// winning square is t-styled the attacker sits in that slot, otherwise
// in the other one.
func attackerSlot(cells *goquery.Selection) int {
	squares := cells.First().Find("div.rnd-sq")
	if squares.Length() < 2 {
		return -1
	}

	winOrder := 0
	if !htmlutil.HasClass(squares.Eq(0), "mod-win") {
		winOrder = 1
	}

	if htmlutil.HasClass(squares.Eq(winOrder), "mod-t") {
		return winOrder
	}
	return 1 - winOrder
}

// extractEconomy reads per-round buy types for one map from the
// economy tab. Phase blocks offset round numbers by 12 each, and the
// first round of each regulation half is a pistol round no matter what
// the icons say. An unreadable block or fewer than 13 rows total
// degrades to nil, matching the round-history policy: wrong buy types
// must never attach to later rounds.
func extractEconomy(block *goquery.Selection) []econRound {
	var rows []econRound

	adder := 0
	valid := true
	block.Find("div.vlr-rounds-row").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.Find(roundCellSelector)
		if cells.Length() == 0 {
			return true
		}

		atkSlot := attackerSlot(cells)
		if atkSlot < 0 {
			valid = false
			return false
		}

		cells.Each(func(j int, cell *goquery.Selection) {
			squares := cell.Find("div.rnd-sq")
			if squares.Length() < 2 {
				return
			}

			round := adder + j + 1
			atkBuy := buyTier(htmlutil.CleanText(squares.Eq(atkSlot).Text()))
			defBuy := buyTier(htmlutil.CleanText(squares.Eq(1 - atkSlot).Text()))
			if round == 1 || round == 13 {
				atkBuy = BuyPistol
				defBuy = BuyPistol
			}

			rows = append(rows, econRound{round: round, atkBuy: atkBuy, defBuy: defBuy})
		})

		adder += 12
		return true
	})

	if !valid || len(rows) < 13 {
		return nil
	}

	return rows
}

// mergeEconomy attaches buy types to resolved rounds by round number.
// A missing economy table leaves the buy columns unknown.
func mergeEconomy(rounds []RoundOutcome, econ []econRound) {
	if len(econ) == 0 {
		return
	}
	byRound := make(map[int]econRound, len(econ))
	for _, e := range econ {
		byRound[e.round] = e
	}
	for i := range rounds {
		e, ok := byRound[rounds[i].Round]
		if !ok {
			continue
		}
		rounds[i].AtkBuy = e.atkBuy
		rounds[i].DefBuy = e.defBuy
	}
}
