package vlr

import (
	"fmt"
	"time"
)

// Side is a team's role during a round.
type Side string

const (
	SideAll Side = "all"
	SideAtk Side = "atk"
	SideDef Side = "def"
)

func (s Side) Opposite() Side {
	switch s {
	case SideAtk:
		return SideDef
	case SideDef:
		return SideAtk
	default:
		return s
	}
}

// Phase labels the block of a map a round belongs to.
type Phase string

const (
	PhaseFirstHalf  Phase = "first_half"
	PhaseSecondHalf Phase = "second_half"
)

// OvertimePhase returns the label of the k-th overtime block.
func OvertimePhase(k int) Phase {
	return Phase(fmt.Sprintf("overtime_%d", k))
}

// phaseForRound assigns the phase label for the n-th played round
// (1-based). Rounds 1-12 are the first half, 13-24 the second, and
// later rounds fall into overtime blocks of 12.
func phaseForRound(n int) Phase {
	switch {
	case n <= 12:
		return PhaseFirstHalf
	case n <= 24:
		return PhaseSecondHalf
	default:
		return OvertimePhase((n-25)/12 + 1)
	}
}

// BuyType is the spend tier of one side for one round.
type BuyType string

const (
	BuyUnknown BuyType = ""
	BuyPistol  BuyType = "pistol"
	BuyFullEco BuyType = "full-eco"
	BuySemiEco BuyType = "semi-eco"
	BuySemiBuy BuyType = "semi-buy"
	BuyFullBuy BuyType = "full-buy"
)

// RoundOutcome is one played round of one game. (GameID, Round) is
// unique within a match.
type RoundOutcome struct {
	GameID  int
	MapName string
	Phase   Phase
	Round   int

	WinningSide Side
	Reason      string
	Score       string

	AtkTeam string
	DefTeam string

	AtkBuy BuyType
	DefBuy BuyType
}

// WinningTeam resolves the side that won into a team name.
func (r RoundOutcome) WinningTeam() string {
	if r.WinningSide == SideAtk {
		return r.AtkTeam
	}
	return r.DefTeam
}

func (r RoundOutcome) LosingSide() Side {
	return r.WinningSide.Opposite()
}

func (r RoundOutcome) LosingTeam() string {
	if r.WinningSide == SideAtk {
		return r.DefTeam
	}
	return r.AtkTeam
}

// buyForSide is the per-row conditional field selection behind the
// winner/loser buy type columns.
func (r RoundOutcome) buyForSide(s Side) BuyType {
	if s == SideAtk {
		return r.AtkBuy
	}
	return r.DefBuy
}

func (r RoundOutcome) WinnerBuy() BuyType { return r.buyForSide(r.WinningSide) }
func (r RoundOutcome) LoserBuy() BuyType  { return r.buyForSide(r.LosingSide()) }

// StatKey addresses one stat split by side, e.g. {"ACS", "atk"}.
type StatKey struct {
	Stat string
	Side Side
}

// PlayerGameRow is one player's stat line for one game.
// (GameID, Team, Name) is unique within a match.
type PlayerGameRow struct {
	GameID  int
	MapName string
	Team    string
	Name    string
	Agent   string

	Stats map[StatKey]Value
}

// Game is one map of a match.
type Game struct {
	GameID  int
	MapName string
	Winner  string

	Rounds  []RoundOutcome
	Players []PlayerGameRow
}

// PickBanEntry is one clause of the pre-match map selection note.
type PickBanEntry struct {
	Action  string
	MapName string
}

// Match is one fully scraped match. Instances are built once by
// ScrapeMatch and treated as immutable afterwards.
type Match struct {
	ID  int
	URL string

	Teams     [2]string
	EventName string
	StageName string
	Date      time.Time
	// -1 when the page carries no patch marker
	Patch float64

	// final score keyed by team name
	Score map[string]int

	// abbreviation <-> full name, both directions
	Abbreviations map[string]string

	// team -> ordered pick/ban clauses
	PickBan map[string][]PickBanEntry

	Games []Game
}

// Winner is the team with the higher final score.
func (m *Match) Winner() string {
	winner := ""
	best := -1
	for _, team := range m.Teams {
		if score, ok := m.Score[team]; ok && score > best {
			winner = team
			best = score
		}
	}
	return winner
}

// Opponent returns the other team of the match, given one of them.
func (m *Match) Opponent(team string) string {
	if m.Teams[0] == team {
		return m.Teams[1]
	}
	return m.Teams[0]
}

func (m *Match) String() string {
	return fmt.Sprintf("Match(%s vs %s - %s)", m.Teams[0], m.Teams[1], m.EventName)
}
