// Package idgen produces short, time-ordered string identifiers.
package idgen

import (
	"encoding/hex"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Length is the fixed length of every generated id.
const Length = 25

// Generator builds ids of the form "c" + base36(unix millis) + random hex,
// truncated to Length. Ids created in a later millisecond sort after earlier ones.
type Generator struct {
	now func() time.Time
}

// New returns a Generator using the wall clock.
func New() *Generator {
	return &Generator{now: time.Now}
}

// NewWithClock returns a Generator reading time from now.
func NewWithClock(now func() time.Time) *Generator {
	return &Generator{now: now}
}

func (g *Generator) NewID() string {
	ts := strconv.FormatInt(g.now().UnixMilli(), 36)
	id := "c" + ts + hex.EncodeToString(randomBytes())
	if len(id) > Length {
		id = id[:Length]
	}
	return id
}

// randomBytes returns the bits of a v4 uuid that are actually random. Byte 6
// carries the version and byte 8 the variant.
func randomBytes() []byte {
	r := uuid.New()
	out := make([]byte, 0, 13)
	out = append(out, r[:6]...)
	return append(out, r[9:]...)
}

var defaultGenerator = New()

// NewID returns an id from the package-level wall-clock generator.
func NewID() string {
	return defaultGenerator.NewID()
}
