package entity

type Stats struct {
	TotalGames  int                     `json:"total_games"`
	TotalDraws  int                     `json:"total_draws"`
	PlayerStats map[string]*PlayerStats `json:"player_stats"`
}

type PlayerStats struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
	Draws  int    `json:"draws"`
	Games  int    `json:"games"`
}

// Participant - the identity recorded for one seat of a finished game.
type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Result - Winner is Empty for a draw.
type Result struct {
	Winner  Mark        `json:"winner"`
	PlayerX Participant `json:"player_x"`
	PlayerO Participant `json:"player_o"`
}

func NewStats() *Stats {
	return &Stats{
		PlayerStats: make(map[string]*PlayerStats),
	}
}
