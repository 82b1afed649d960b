package ics

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/rendezvous/internal/calendar/domain"
	"github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/security"
)

// MaxFileSize caps .ics files read from disk.
const MaxFileSize = 10 << 20

var icsFile = security.ImportFile{Extensions: []string{".ics", ".ical", ".ifb"}, MaxBytes: MaxFileSize}

// FileSource reads events from an .ics file on disk.
type FileSource struct {
	path   string
	parser *Parser
}

func NewFileSource(path string, parser *Parser) *FileSource {
	if parser == nil {
		parser = NewParser(nil)
	}
	return &FileSource{path: path, parser: parser}
}

func (s *FileSource) Source() domain.Source { return domain.SourceICS }

func (s *FileSource) Events(_ context.Context, userID uuid.UUID, from, to time.Time, loc *time.Location) ([]*domain.Event, error) {
	f, err := icsFile.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return s.parser.Parse(f, userID, s.Source(), from, to, loc)
}
