package service

import (
	"sort"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

type StatsService interface {
	Record(stats *entity.Stats, result entity.Result)
	TopPlayers(stats *entity.Stats, limit int) []*entity.PlayerStats
}

type statsService struct{}

func NewStatsService() StatsService {
	return &statsService{}
}

// Record - folds one finished game into stats. A result with an empty Winner is a draw.
func (that *statsService) Record(stats *entity.Stats, result entity.Result) {
	if stats.PlayerStats == nil {
		stats.PlayerStats = make(map[string]*entity.PlayerStats)
	}

	stats.TotalGames++
	if result.Winner.IsEmpty() {
		stats.TotalDraws++
	}

	that.apply(stats, result.PlayerX, entity.X, result.Winner)
	that.apply(stats, result.PlayerO, entity.O, result.Winner)
}

func (that *statsService) apply(stats *entity.Stats, participant entity.Participant, mark, winner entity.Mark) {
	playerStats, ok := stats.PlayerStats[participant.ID]
	if !ok {
		playerStats = &entity.PlayerStats{ID: participant.ID}
		stats.PlayerStats[participant.ID] = playerStats
	}

	playerStats.Name = participant.Name
	playerStats.Games++

	switch winner {
	case entity.Empty:
		playerStats.Draws++
	case mark:
		playerStats.Wins++
	default:
		playerStats.Losses++
	}
}

// TopPlayers - sorted by wins, then by games played. A limit <= 0 returns everyone.
func (that *statsService) TopPlayers(stats *entity.Stats, limit int) []*entity.PlayerStats {
	players := make([]*entity.PlayerStats, 0, len(stats.PlayerStats))
	for _, playerStats := range stats.PlayerStats {
		players = append(players, playerStats)
	}

	sort.Slice(players, func(i, j int) bool {
		if players[i].Wins != players[j].Wins {
			return players[i].Wins > players[j].Wins
		}

		if players[i].Games != players[j].Games {
			return players[i].Games > players[j].Games
		}

		if players[i].Name != players[j].Name {
			return players[i].Name < players[j].Name
		}

		return players[i].ID < players[j].ID
	})

	if limit > 0 && len(players) > limit {
		players = players[:limit]
	}

	return players
}
