package facet

import "github.com/matst80/moment-finder/pkg/types"

func IsFirstSerial(m *types.Moment) bool {
	return m.SerialNumber == 1
}

func IsLastSerial(m *types.Moment) bool {
	last := m.MaxSerial()
	return last > 0 && m.SerialNumber == last
}

func IsJerseySerial(m *types.Moment) bool {
	return m.HasJersey() && *m.JerseyNumber == m.SerialNumber
}

// IsSpecialSerial reports first, last or jersey matching serials.
func IsSpecialSerial(m *types.Moment) bool {
	return IsFirstSerial(m) || IsLastSerial(m) || IsJerseySerial(m)
}

// InSerialCategory tests a moment against the serial category enum. Unknown
// categories match nothing.
func InSerialCategory(m *types.Moment, category types.SerialCategory) bool {
	switch category {
	case types.SerialAll, "":
		return true
	case types.SerialFirst:
		return IsFirstSerial(m)
	case types.SerialJersey:
		return IsJerseySerial(m)
	case types.SerialLast:
		return IsLastSerial(m)
	case types.SerialAllSpecial:
		return IsSpecialSerial(m)
	}
	return false
}
