package game

// VisibleRow is one line of the table a player is allowed to see: another
// player together with the pair they must not know they carry.
type VisibleRow struct {
	Player    string `json:"player"`
	Character string `json:"character"`
	Context   string `json:"context"`
}

// VisibleRows returns the assignments visible to the requesting player:
// every assigned member except the requester, in join order. A requester
// who is not a member simply sees every assigned row. The result is empty
// (never nil) when no round is in progress.
func (s *Session) VisibleRows(requester string) []VisibleRow {
	normalized := NormalizeName(requester)
	rows := make([]VisibleRow, 0, len(s.Assignments))
	for _, player := range s.Players {
		if player == normalized {
			continue
		}
		a, ok := s.Assignments[player]
		if !ok {
			continue
		}
		rows = append(rows, VisibleRow{
			Player:    player,
			Character: a.Character,
			Context:   a.Context,
		})
	}
	return rows
}
