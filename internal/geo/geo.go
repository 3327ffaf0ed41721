package geo

import (
	"strings"

	"github.com/pkg/errors"
)

// FallbackWilayaID is where shipments with a corrupted wilaya id are routed:
// the capital region. The carrier rejects any id outside 1..48, so routing
// somewhere valid (with a warning) beats failing the whole order.
const FallbackWilayaID = 16

type Wilaya struct {
	ID          int
	Name        string
	StationCode string
	// Communes in carrier spelling; the first entry is the wilaya seat and
	// doubles as the default when nothing matches.
	Communes []string
}

func (w *Wilaya) DefaultCommune() string {
	return w.Communes[0]
}

// Dataset is the immutable region reference catalog. Built once at startup
// (or from fixtures in tests) and safe for unsynchronized concurrent reads.
type Dataset struct {
	byID       map[int]*Wilaya
	fallbackID int
}

func NewDataset(wilayas []Wilaya, fallbackID int) (*Dataset, error) {
	byID := make(map[int]*Wilaya, len(wilayas))
	for i := range wilayas {
		w := wilayas[i]
		if w.ID <= 0 {
			return nil, errors.Errorf("wilaya %q: invalid id %d", w.Name, w.ID)
		}
		if len(w.Communes) == 0 {
			return nil, errors.Errorf("wilaya %q: no communes", w.Name)
		}
		if _, dup := byID[w.ID]; dup {
			return nil, errors.Errorf("duplicate wilaya id %d", w.ID)
		}
		byID[w.ID] = &w
	}
	if _, ok := byID[fallbackID]; !ok {
		return nil, errors.Errorf("fallback wilaya %d not in dataset", fallbackID)
	}
	return &Dataset{byID: byID, fallbackID: fallbackID}, nil
}

// DefaultDataset returns the built-in carrier catalog of all 48 wilayas.
func DefaultDataset() *Dataset {
	d, err := NewDataset(wilayaTable, FallbackWilayaID)
	if err != nil {
		// The built-in table is static; failing here is a programming error.
		panic(err)
	}
	return d
}

func (d *Dataset) Wilaya(id int) (*Wilaya, bool) {
	w, ok := d.byID[id]
	return w, ok
}

func (d *Dataset) FallbackID() int {
	return d.fallbackID
}

// DefaultStation returns the default stopdesk station code for a wilaya.
func (d *Dataset) DefaultStation(wilayaID int) (string, bool) {
	w, ok := d.byID[wilayaID]
	if !ok {
		return "", false
	}
	return w.StationCode, true
}

// normalize lowers, trims and collapses inner whitespace so that
// " Alger   Centre " and "alger centre" compare equal.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
