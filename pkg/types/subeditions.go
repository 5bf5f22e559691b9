package types

import "strconv"

type Subedition struct {
	Name   string `json:"name"`
	Minted int    `json:"minted"`
}

var Subeditions = map[int]Subedition{
	0:  {Name: "Standard", Minted: 0},
	1:  {Name: "Explosion", Minted: 500},
	2:  {Name: "Torn", Minted: 1000},
	3:  {Name: "Vortex", Minted: 2500},
	4:  {Name: "Rippled", Minted: 4000},
	5:  {Name: "Coded", Minted: 25},
	6:  {Name: "Halftone", Minted: 100},
	7:  {Name: "Bubbled", Minted: 250},
	8:  {Name: "Diced", Minted: 10},
	9:  {Name: "Bit", Minted: 50},
	10: {Name: "Vibe", Minted: 5},
	11: {Name: "Astra", Minted: 75},
	13: {Name: "Voltage", Minted: 100},
	14: {Name: "Livewire", Minted: 25},
	15: {Name: "Championship", Minted: 5},
	16: {Name: "Club Collection", Minted: 99},
	17: {Name: "Blockchain", Minted: 99},
	18: {Name: "Hardcourt", Minted: 50},
	19: {Name: "Hexwave", Minted: 25},
	20: {Name: "Jukebox", Minted: 10},
}

// SubeditionName falls back to the numeric id for parallels missing from
// the table.
func SubeditionName(id int) string {
	if s, ok := Subeditions[id]; ok {
		return s.Name
	}
	return "Parallel " + strconv.Itoa(id)
}
