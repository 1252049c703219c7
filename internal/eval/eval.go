// Package eval provides bottom-up ZDD evaluators for the Geo-Distributed
// Storage System placement problem: counting solutions, reconstructing a
// full locale assignment from a level set, and finding the minimum-cost
// assignment over the whole diagram.
package eval

import (
	"github.com/geotier/solver/internal/encode"
	"github.com/geotier/solver/internal/gdss"
)

// levelCost returns the marginal cost contribution of taking the decision
// variable at level, following the same per-kind cost formulas as the
// optimal-placement evaluator and the weighted enumerator's cost list.
func levelCost(enc *encode.Encoder, store *gdss.Store, level int) (float64, error) {
	v, err := enc.Decode(level)
	if err != nil {
		return 0, err
	}

	switch v.Kind {
	case encode.KindP:
		dcK, err := enc.TierDC(v.T)
		if err != nil {
			return 0, err
		}
		stT, err := enc.TierName(v.T)
		if err != nil {
			return 0, err
		}
		size, err := store.Size(dcK)
		if err != nil {
			return 0, err
		}
		storageCost, err := store.StorageCost(dcK, stT)
		if err != nil {
			return 0, err
		}
		return size * storageCost, nil

	case encode.KindT:
		dcK, err := enc.TierDC(v.T)
		if err != nil {
			return 0, err
		}
		stT, err := enc.TierName(v.T)
		if err != nil {
			return 0, err
		}
		dcJ, err := enc.DC(v.J)
		if err != nil {
			return 0, err
		}

		getReq, err := store.GetRequest(dcJ)
		if err != nil {
			return 0, err
		}
		sizeJ, err := store.Size(dcJ)
		if err != nil {
			return 0, err
		}
		netKJ, err := store.NetworkCost(dcK, dcJ)
		if err != nil {
			return 0, err
		}
		retrieve, err := store.RetrieveCost(dcK, stT)
		if err != nil {
			return 0, err
		}
		getCost, err := store.GetCost(dcK, stT)
		if err != nil {
			return 0, err
		}
		putReq, err := store.PutRequest(dcJ)
		if err != nil {
			return 0, err
		}
		netJK, err := store.NetworkCost(dcJ, dcK)
		if err != nil {
			return 0, err
		}
		write, err := store.WriteCost(dcK, stT)
		if err != nil {
			return 0, err
		}
		putCost, err := store.PutCost(dcK, stT)
		if err != nil {
			return 0, err
		}

		return getReq*(sizeJ*(netKJ+retrieve)+getCost) + putReq*(sizeJ*(netJK+write)+putCost), nil

	default: // encode.KindB
		dcK, err := enc.TierDC(v.T)
		if err != nil {
			return 0, err
		}
		stT, err := enc.TierName(v.T)
		if err != nil {
			return 0, err
		}
		dcJ, err := enc.DC(v.J)
		if err != nil {
			return 0, err
		}
		dcI, err := enc.DC(v.I)
		if err != nil {
			return 0, err
		}

		putReq, err := store.PutRequest(dcI)
		if err != nil {
			return 0, err
		}
		sizeI, err := store.Size(dcI)
		if err != nil {
			return 0, err
		}
		netJK, err := store.NetworkCost(dcJ, dcK)
		if err != nil {
			return 0, err
		}
		write, err := store.WriteCost(dcK, stT)
		if err != nil {
			return 0, err
		}
		putCost, err := store.PutCost(dcK, stT)
		if err != nil {
			return 0, err
		}

		return putReq * (sizeI*(netJK+write) + putCost), nil
	}
}
