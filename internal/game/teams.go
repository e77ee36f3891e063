package game

// The four teams are fixed at process start and never change.
var Teams = []Team{
	{ID: TeamRed, Name: "Red Team", Color: "#FF5555"},
	{ID: TeamBlue, Name: "Blue Team", Color: "#5555FF"},
	{ID: TeamGreen, Name: "Green Team", Color: "#55AA55"},
	{ID: TeamYellow, Name: "Yellow Team", Color: "#FFFF55"},
}

// Occupancy codes for the binary grid snapshot. 0 = empty cell.
var teamCodes = map[TeamID]uint8{
	TeamRed:    1,
	TeamBlue:   2,
	TeamGreen:  3,
	TeamYellow: 4,
}

func TeamByID(id TeamID) (Team, bool) {
	for _, t := range Teams {
		if t.ID == id {
			return t, true
		}
	}
	return Team{}, false
}

func ValidTeam(id TeamID) bool {
	_, ok := TeamByID(id)
	return ok
}
