package entity

const ComputerName = "Computer"

type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Wins int    `json:"wins"`
}
