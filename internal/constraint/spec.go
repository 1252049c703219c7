// Package constraint implements the ZDD generation spec for the
// Geo-Distributed Storage System placement problem: given a fixed variable
// order (see internal/encode), it decides, one variable at a time, whether
// a partial assignment can still lead to a placement that meets the locale
// count, fault tolerance, and SLA latency goals.
//
// Child mirrors the ZDD "DdSpec" convention: it returns 0 to reject the
// current branch (the ⊥ terminal), Accept to admit it (the ⊤ terminal),
// or a positive level to continue building at.
package constraint

import (
	"github.com/geotier/solver/internal/encode"
	"github.com/geotier/solver/internal/gdss"
	"github.com/geotier/solver/pkg/model"
)

const (
	// Reject terminates the branch at the ⊥ (always-false) terminal.
	Reject = 0
	// Accept terminates the branch at the ⊤ (always-true) terminal.
	Accept = -1
)

// Spec implements the top-down ZDD generation rule for one GDSS instance.
type Spec struct {
	store       *gdss.Store
	enc         *encode.Encoder
	slaMode     model.SLAMode
	numDC       int
	localeCount int
	faults      int
}

// New builds a Spec over store using enc's variable layout and the given
// SLA mode. store.CheckAll must already have passed.
func New(store *gdss.Store, enc *encode.Encoder, slaMode model.SLAMode) (*Spec, error) {
	lc, err := store.LC()
	if err != nil {
		return nil, err
	}
	f, err := store.F()
	if err != nil {
		return nil, err
	}
	return &Spec{
		store:       store,
		enc:         enc,
		slaMode:     slaMode,
		numDC:       store.NumDataCenters(),
		localeCount: lc,
		faults:      f,
	}, nil
}

// Root returns the initial Mate state and the top-level variable (N).
func (s *Spec) Root() (*Mate, int) {
	return newMate(s.numDC, s.faults+1), s.enc.N
}

// Child evaluates the transition for variable at level, given take (hi vs
// lo branch), mutating mate in place. mate must be a clone owned
// exclusively by the caller for this branch; the builder is responsible
// for cloning before calling Child on each of a node's two branches.
func (s *Spec) Child(mate *Mate, level int, take bool) (int, error) {
	n := s.enc.N
	invLevel := n - level
	pwidth := s.enc.Pwidth
	twidth := s.enc.Twidth

	switch {
	case invLevel%pwidth == 0:
		t := invLevel / pwidth
		k, err := s.dcIdxOfTier(t)
		if err != nil {
			return Reject, err
		}

		ok, err := s.lookaheadCheck(mate, k)
		if err != nil {
			return Reject, err
		}
		if !ok {
			return Reject, nil
		}

		if take {
			s.doTakeP(mate)
		} else {
			ok, err := s.doNotTakeP(mate, k, t)
			if err != nil {
				return Reject, err
			}
			if !ok {
				return Reject, nil
			}
			if level == pwidth {
				return s.finish(mate), nil
			}
			return level - pwidth, nil
		}

	case (invLevel%pwidth-1)%twidth == 0:
		t := invLevel / pwidth
		k, err := s.dcIdxOfTier(t)
		if err != nil {
			return Reject, err
		}
		j := (invLevel%pwidth - 1) / twidth

		if take {
			ok, err := s.doTakeT(mate, j, k, t)
			if err != nil {
				return Reject, err
			}
			if !ok {
				return Reject, nil
			}
		} else {
			if !s.doNotTakeT(mate, j, k) {
				return Reject, nil
			}
		}

	default:
		t := invLevel / pwidth
		k, err := s.dcIdxOfTier(t)
		if err != nil {
			return Reject, err
		}
		j := (invLevel%pwidth - 1) / twidth
		i := (invLevel%pwidth-1)%twidth - 1

		if take {
			if !s.doTakeB(mate, i, j, k) {
				return Reject, nil
			}
		} else {
			if !s.doNotTakeB(mate, i, j, k) {
				return Reject, nil
			}
		}

		next, err := s.nextDC(i, j, k, t)
		if err != nil {
			return Reject, err
		}
		if next != 0 {
			if level == next {
				return s.finish(mate), nil
			}
			return level - next, nil
		}
	}

	invLevel++
	if invLevel == n {
		return s.finish(mate), nil
	}
	return n - invLevel, nil
}

func (s *Spec) finish(mate *Mate) int {
	if s.constraintsCheck(mate) {
		return Accept
	}
	return Reject
}

func (s *Spec) dcIdxOfTier(t int) (int, error) {
	dc, err := s.enc.TierDC(t)
	if err != nil {
		return 0, err
	}
	return s.store.IdxDataCenter(dc)
}

// getTHash returns the trit recording the locale decision for (data center
// j, candidate tier location k): 0 undecided, 1 forbidden, 2 required.
func (s *Spec) getTHash(mate *Mate, j, k int) uint8 {
	return mate.hash.Get(j + s.numDC*k)
}

// setTHash attempts to record val for (j, k). It fails if a conflicting
// value was already recorded, or if val == 2 would exceed the locale count
// already satisfied for j.
func (s *Spec) setTHash(mate *Mate, j, k int, val uint8) bool {
	cur := s.getTHash(mate, j, k)
	if cur != 0 && cur != val {
		return false
	}
	if cur == 0 {
		if s.getLC(mate, j) == s.localeCount && val == 2 {
			return false
		}
		mate.hash.Set(j+s.numDC*k, val)
	}
	return true
}

// getLC counts how many storage locations are currently required (trit 2)
// for data center j.
func (s *Spec) getLC(mate *Mate, j int) int {
	lc := 0
	for k := 0; k < s.numDC; k++ {
		if s.getTHash(mate, j, k) == 2 {
			lc++
		}
	}
	return lc
}

func (s *Spec) doTakeP(mate *Mate) {
	if mate.faultsRemaining > 0 {
		mate.faultsRemaining--
	}
}

// doNotTakeP forces every T_{j,k,t} to not-taken when t is the last
// storage tier hosted by data center k, since no replica at k means no
// data center can be served from it.
func (s *Spec) doNotTakeP(mate *Mate, k, t int) (bool, error) {
	idx, err := s.enc.TierIdxInDC(t)
	if err != nil {
		return false, err
	}
	numTiers, err := s.enc.NumTiersOfDCAt(k)
	if err != nil {
		return false, err
	}
	if numTiers == idx+1 {
		for j := 0; j < s.numDC; j++ {
			if !s.setTHash(mate, j, k, 1) {
				return false, nil
			}
		}
	}
	return true, nil
}

// slaConstraint reports whether serving data center j from tier t hosted
// at data center k meets the configured SLA latency mode.
func (s *Spec) slaConstraint(j, k, t int) (bool, error) {
	dcJ, err := s.enc.DC(j)
	if err != nil {
		return false, err
	}
	dcK, err := s.enc.TierDC(t)
	if err != nil {
		return false, err
	}
	stT, err := s.enc.TierName(t)
	if err != nil {
		return false, err
	}

	switch s.slaMode {
	case model.SLAModeEventual:
		netJK, err := s.store.NetworkLatency(dcJ, dcK)
		if err != nil {
			return false, err
		}
		getLat, err := s.store.GetLatency(dcK, stT)
		if err != nil {
			return false, err
		}
		slaGet, err := s.store.SLAGet()
		if err != nil {
			return false, err
		}
		if netJK+getLat > slaGet {
			return false, nil
		}
		putLat, err := s.store.PutLatency(dcK, stT)
		if err != nil {
			return false, err
		}
		slaPut, err := s.store.SLAPut()
		if err != nil {
			return false, err
		}
		if netJK+putLat > slaPut {
			return false, nil
		}
		return true, nil

	case model.SLAModeStrong:
		center, err := s.store.Center()
		if err != nil {
			return false, err
		}
		netJK, err := s.store.NetworkLatency(dcJ, dcK)
		if err != nil {
			return false, err
		}
		netKCenter, err := s.store.NetworkLatency(dcK, center)
		if err != nil {
			return false, err
		}
		getLat, err := s.store.GetLatency(dcK, stT)
		if err != nil {
			return false, err
		}
		slaGet, err := s.store.SLAGet()
		if err != nil {
			return false, err
		}
		if netJK+getLat+2*netKCenter > slaGet {
			return false, nil
		}

		var maxNetworkLatency float64
		for _, dc := range s.store.DataCenters() {
			lat, err := s.store.NetworkLatency(dcK, dc)
			if err != nil {
				return false, err
			}
			if lat > maxNetworkLatency {
				maxNetworkLatency = lat
			}
		}
		putLat, err := s.store.PutLatency(dcK, stT)
		if err != nil {
			return false, err
		}
		slaPut, err := s.store.SLAPut()
		if err != nil {
			return false, err
		}
		if netJK+putLat+2*netKCenter+maxNetworkLatency > slaPut {
			return false, nil
		}
		return true, nil
	}
	return true, nil
}

func (s *Spec) doTakeT(mate *Mate, j, k, t int) (bool, error) {
	ok, err := s.slaConstraint(j, k, t)
	if err != nil || !ok {
		return false, err
	}
	return s.setTHash(mate, j, k, 2), nil
}

func (s *Spec) doNotTakeT(mate *Mate, j, k int) bool {
	return s.setTHash(mate, j, k, 1)
}

// doTakeB and doNotTakeB act on the T hash for (i, j), matching the
// forwarding-write encoding: a write from i is routed through j to the
// candidate tier. A self-route (j == k) is never a valid take.
func (s *Spec) doTakeB(mate *Mate, i, j, k int) bool {
	if j == k {
		return false
	}
	return s.setTHash(mate, i, j, 2)
}

func (s *Spec) doNotTakeB(mate *Mate, i, j, k int) bool {
	if j == k {
		return true
	}
	return s.setTHash(mate, i, j, 1)
}

// lookaheadCheck rejects a branch early if the data centers not yet
// visited (k..numDC) cannot possibly make up the remaining locale count or
// fault tolerance deficit.
func (s *Spec) lookaheadCheck(mate *Mate, k int) (bool, error) {
	remaining := s.numDC - k
	for j := 0; j < s.numDC; j++ {
		if s.getLC(mate, j)+remaining < s.localeCount {
			return false, nil
		}
	}
	if mate.faultsRemaining-remaining > 0 {
		return false, nil
	}
	return true, nil
}

// constraintsCheck is the final acceptance test: every data center must
// have reached its locale count, and the fault budget must be exhausted.
func (s *Spec) constraintsCheck(mate *Mate) bool {
	for j := 0; j < s.numDC; j++ {
		if s.getLC(mate, j) < s.localeCount {
			return false
		}
	}
	return mate.faultsRemaining <= 0
}

// nextDC returns the distance (in levels) to skip once the last B variable
// of a tier's block has been processed: it skips the blocks of the storage
// tiers that data center k hosts after t, landing on the P variable of the
// first tier of the next data center (a distance of 1 when t is k's last
// tier). Returns 0 if i, j are not yet at the end of the current block.
func (s *Spec) nextDC(i, j, k, t int) (int, error) {
	if i+1 != s.numDC || j+1 != s.numDC {
		return 0, nil
	}
	idx, err := s.enc.TierIdxInDC(t)
	if err != nil {
		return 0, err
	}
	numTiers, err := s.enc.NumTiersOfDCAt(k)
	if err != nil {
		return 0, err
	}
	return (numTiers-idx-1)*s.enc.Pwidth + 1, nil
}
