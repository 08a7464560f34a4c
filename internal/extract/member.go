package extract

import (
	"fmt"
	"log/slog"
	"regexp"

	"github.com/ppiankov/egmembers/internal/model"
)

var memberIDPattern = regexp.MustCompile(`members/mem-([0-9]+)$`)

// MemberID returns the numeric id embedded in a member detail URL
func MemberID(memberURL string) (string, error) {
	m := memberIDPattern.FindStringSubmatch(memberURL)
	if m == nil {
		return "", fmt.Errorf("%w: %s", ErrMalformedURL, memberURL)
	}
	return m[1], nil
}

// MemberExtractor builds member records from detail pages
type MemberExtractor struct {
	sessions *SessionTable
	logger   *slog.Logger
}

// NewMemberExtractor creates an extractor. A nil sessions table uses the defaults.
func NewMemberExtractor(sessions *SessionTable, logger *slog.Logger) *MemberExtractor {
	if sessions == nil {
		sessions = NewSessionTable(nil)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &MemberExtractor{sessions: sessions, logger: logger}
}

// Extract reads a member record from a parsed detail page
func (e *MemberExtractor) Extract(doc *Document, memberURL string) (model.MemberRecord, error) {
	var rec model.MemberRecord

	id, err := MemberID(memberURL)
	if err != nil {
		return rec, err
	}

	titles := doc.Find("h1.title")
	if len(titles) != 1 {
		return rec, fmt.Errorf("%w: h1.title: got %d", ErrAmbiguity, len(titles))
	}

	governorates, err := fieldValues(doc, governorateField)
	if err != nil {
		return rec, err
	}
	area, err := one("governorate", governorates)
	if err != nil {
		return rec, err
	}

	districts, err := fieldValues(doc, regionField)
	if err != nil {
		return rec, err
	}

	terms, err := e.terms(doc, memberURL)
	if err != nil {
		return rec, err
	}

	chamberLabels, err := memberChambers(doc)
	if err != nil {
		return rec, err
	}

	return model.MemberRecord{
		ID:                 id,
		Name:               titles[0].Text(),
		Source:             memberURL,
		Area:               area,
		Terms:              terms,
		ElectoralDistricts: dedupe(districts),
		Chambers:           chamberLabels,
	}, nil
}

func (e *MemberExtractor) terms(doc *Document, memberURL string) ([]string, error) {
	names, err := fieldValues(doc, sessionField)
	if err != nil {
		return nil, err
	}

	terms := make([]string, 0, len(names))
	for _, name := range names {
		short, ok := e.sessions.Short(name)
		if !ok {
			e.logger.Warn("no short name for session", "session", name, "url", memberURL)
		}
		terms = append(terms, short)
	}
	return dedupe(terms), nil
}

func memberChambers(doc *Document) ([]string, error) {
	names, err := fieldValues(doc, chamberField)
	if err != nil {
		return nil, err
	}

	labels := make([]string, 0, len(names))
	for _, name := range dedupe(names) {
		label, err := Chamber(name)
		if err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}
	return labels, nil
}
