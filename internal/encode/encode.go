// Package encode maps the Geo-Distributed Storage System's decision
// variables (P_{k,t}, T_{j,k,t}, B_{i,j,k,t}) onto a single linear ZDD
// variable ordering, and back.
//
// For each storage tier t (a (data center, tier) pair) there are
// Pwidth = 1 + D + D^2 variables, where D is the number of data centers:
// one P variable (place a replica of tier t), D T variables (serve reads
// for data center j from tier t), and D^2 B variables (route a write from
// data center i via forwarding data center j to tier t). Variables are
// numbered top-down: level n is the first P variable considered, level 1
// is the last B variable.
package encode

import (
	"fmt"

	"github.com/geotier/solver/internal/gdss"
)

// Kind identifies which decision variable family a ZDD level encodes.
type Kind int

const (
	KindP Kind = iota
	KindT
	KindB
)

func (k Kind) String() string {
	switch k {
	case KindP:
		return "P"
	case KindT:
		return "T"
	case KindB:
		return "B"
	default:
		return "?"
	}
}

// Variable identifies one decision variable: its Kind, the storage tier
// index t, and (depending on Kind) the data center indices j and/or i.
type Variable struct {
	Kind Kind
	T    int // storage tier (dataCenter, tier) pair index
	J    int // serving/forwarding data center index (T, B)
	I    int // originating data center index (B only)
}

// Encoder computes the variable layout for one Store instance and
// translates between ZDD levels (1..N, top-down) and Variable values.
type Encoder struct {
	store  *gdss.Store
	numDC  int
	numST  int
	Pwidth int
	Twidth int
	N      int
}

// New builds an Encoder for store. store.Update must already have been
// called.
func New(store *gdss.Store) *Encoder {
	d := store.NumDataCenters()
	numST := store.NumStorageTiers()
	pwidth := 1 + d + d*d
	return &Encoder{
		store:  store,
		numDC:  d,
		numST:  numST,
		Pwidth: pwidth,
		Twidth: 1 + d,
		N:      numST * pwidth,
	}
}

// NumVariables returns the total number of ZDD variables (the top level).
func (e *Encoder) NumVariables() int {
	return e.N
}

// Decode maps a 1-indexed level (1..N) to the Variable it represents.
func (e *Encoder) Decode(level int) (Variable, error) {
	if level < 1 || level > e.N {
		return Variable{}, fmt.Errorf("level %d out of range [1,%d]", level, e.N)
	}
	invLevel := e.N - level

	if invLevel%e.Pwidth == 0 {
		t := invLevel / e.Pwidth
		return Variable{Kind: KindP, T: t}, nil
	}
	if (invLevel%e.Pwidth-1)%e.Twidth == 0 {
		t := invLevel / e.Pwidth
		j := (invLevel%e.Pwidth - 1) / e.Twidth
		return Variable{Kind: KindT, T: t, J: j}, nil
	}
	t := invLevel / e.Pwidth
	j := (invLevel%e.Pwidth - 1) / e.Twidth
	i := (invLevel%e.Pwidth-1)%e.Twidth - 1
	return Variable{Kind: KindB, T: t, J: j, I: i}, nil
}

// TierDC returns the data center name of storage tier index t.
func (e *Encoder) TierDC(t int) (string, error) {
	return e.store.StorageTierDCAt(t)
}

// TierName returns the tier name of storage tier index t.
func (e *Encoder) TierName(t int) (string, error) {
	return e.store.StorageTierNameAt(t)
}

// TierIdxInDC returns the in-DC index of storage tier index t, used to
// detect the last storage tier hosted by a data center.
func (e *Encoder) TierIdxInDC(t int) (int, error) {
	dc, err := e.TierDC(t)
	if err != nil {
		return 0, err
	}
	name, err := e.TierName(t)
	if err != nil {
		return 0, err
	}
	return e.store.IdxStorageTierInDC(dc, name)
}

// DC returns the data center name at index idx.
func (e *Encoder) DC(idx int) (string, error) {
	return e.store.DataCenterAt(idx)
}

// NumTiersOfDCAt returns the number of storage tiers hosted by the data
// center at index idx.
func (e *Encoder) NumTiersOfDCAt(idx int) (int, error) {
	return e.store.NumStorageTiersAt(idx)
}
