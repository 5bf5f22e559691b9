package types

import "strings"

// Moment is a single collectible as delivered by the snapshot layer. It is
// never mutated by the filtering code.
type Moment struct {
	Id                string `json:"id"`
	Tier              string `json:"tier"`
	Series            int    `json:"series"`
	TeamAtMoment      string `json:"teamAtMoment,omitempty"`
	SetName           string `json:"setName,omitempty"`
	PlayerFullName    string `json:"playerFullName,omitempty"`
	SubeditionId      *int   `json:"subeditionId,omitempty"`
	SubeditionMaxMint int    `json:"subeditionMaxMint,omitempty"`
	MomentCount       int    `json:"momentCount,omitempty"`
	IsLocked          bool   `json:"isLocked"`
	SerialNumber      int    `json:"serialNumber"`
	JerseyNumber      *int   `json:"jerseyNumber,omitempty"`
}

// StandardSubedition is the id a moment without a parallel belongs to.
const StandardSubedition = 0

// Subedition returns the parallel id with absence normalized to Standard.
func (m *Moment) Subedition() int {
	if m.SubeditionId == nil {
		return StandardSubedition
	}
	return *m.SubeditionId
}

// MaxSerial is the highest serial of the edition the moment was minted in,
// preferring the subedition mint count when the moment is a parallel.
func (m *Moment) MaxSerial() int {
	if m.Subedition() != StandardSubedition && m.SubeditionMaxMint > 0 {
		return m.SubeditionMaxMint
	}
	return m.MomentCount
}

func (m *Moment) NormalizedTier() string {
	return strings.ToLower(strings.TrimSpace(m.Tier))
}

func (m *Moment) HasJersey() bool {
	return m.JerseyNumber != nil && *m.JerseyNumber > 0
}
