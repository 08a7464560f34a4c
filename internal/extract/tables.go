package extract

import (
	"fmt"
	"maps"

	"github.com/ppiankov/egmembers/internal/model"
)

// DefaultSessions maps full parliamentary body names to their short names
var DefaultSessions = map[string]string{
	"الهيئة النيابية السابعة": "7",
	"الهيئة النيابية الثامنة": "8",
	"الهيئة النيابية التاسعة": "9",
}

// chambers is closed: any other chamber name is an error
var chambers = map[string]string{
	"مجلس النواب": model.ChamberHouseOfRepresentatives,
	"مجلس الشعب":  model.ChamberPeoplesCouncil,
}

// SessionTable translates session names to short names. Unknown names pass
// through unchanged.
type SessionTable struct {
	names map[string]string
}

// NewSessionTable returns DefaultSessions overlaid with extra
func NewSessionTable(extra map[string]string) *SessionTable {
	names := maps.Clone(DefaultSessions)
	maps.Copy(names, extra)
	return &SessionTable{names: names}
}

// Short returns the short name for a session and whether it was known
func (t *SessionTable) Short(name string) (string, bool) {
	short, ok := t.names[name]
	if !ok {
		return name, false
	}
	return short, true
}

// Chamber returns the canonical label for an Arabic chamber name
func Chamber(name string) (string, error) {
	label, ok := chambers[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownChamber, name)
	}
	return label, nil
}
