// Package storagekey turns user-supplied names into owner- and folder-scoped object keys.
package storagekey

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	rootSegment  = "root"
	replacement  = "_"
	extSeparator = "."
	keyFmt       = "%s/%s/%s_%d%s"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// SanitizeSegment replaces every character outside [A-Za-z0-9._-] with an underscore.
// An empty input stays empty.
func SanitizeSegment(raw string) string {
	return unsafeChars.ReplaceAllString(raw, replacement)
}

// SplitExt splits an already sanitized file name at its last dot.
func SplitExt(safeName string) (base, ext string) {
	idx := strings.LastIndex(safeName, extSeparator)
	if idx < 0 {
		return safeName, ""
	}
	return safeName[:idx], safeName[idx:]
}

// Build returns {owner}/{parent or "root"}/{base}_{epoch millis}{ext}.
func Build(ownerID uuid.UUID, parentID *uuid.UUID, filename string, now time.Time) string {
	folder := rootSegment
	if parentID != nil {
		folder = SanitizeSegment(parentID.String())
	}

	base, ext := SplitExt(SanitizeSegment(filename))

	return fmt.Sprintf(keyFmt, ownerID.String(), folder, base, now.UnixMilli(), ext)
}

// Sequence hands out timestamps whose millisecond value strictly increases, so keys built
// within one batch never share a stamp even when files are processed inside one millisecond.
type Sequence struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

func NewSequence(now func() time.Time) *Sequence {
	if now == nil {
		now = time.Now
	}
	return &Sequence{now: now}
}

func (s *Sequence) Next() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.now()
	ms := t.UnixMilli()
	if ms <= s.last {
		ms = s.last + 1
		t = time.UnixMilli(ms)
	}
	s.last = ms
	return t
}
