package gdss

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// NewRandomInstance builds a random Store instance with len(dcList) data
// centers, the i-th data center carrying dcList[i] storage tiers. Every
// cost/latency scalar is drawn uniformly from [0, 2), object sizes from
// [0, 9], and get/put request counts from [0, 4] (matching the original
// generator's rand()%10 / rand()%5 ranges). rng is never the package-global
// generator, so a solve built from a fixed seed is reproducible.
func NewRandomInstance(dcList []int, rng *rand.Rand) (*Store, error) {
	if len(dcList) == 0 {
		return nil, fmt.Errorf("dcList must name at least one data center")
	}

	s := New()
	for i, tierCount := range dcList {
		if tierCount <= 0 {
			return nil, fmt.Errorf("dcList[%d] must have at least one storage tier", i)
		}
		dc := fmt.Sprintf("DC%d", i+1)
		for j := 0; j < tierCount; j++ {
			tier := fmt.Sprintf("ST%d_%d", i+1, j+1)
			if err := s.AddStorageTier(dc, tier); err != nil {
				return nil, err
			}
		}
	}
	s.Update()

	unif := func() float64 { return rng.Float64() * 2 }

	dataCentersUsed := make(map[string]bool)
	for _, dc1 := range s.DataCenters() {
		if err := s.SetSize(dc1, float64(rng.IntN(10))); err != nil {
			return nil, err
		}
		if err := s.SetGetRequest(dc1, float64(rng.IntN(5))); err != nil {
			return nil, err
		}
		if err := s.SetPutRequest(dc1, float64(rng.IntN(5))); err != nil {
			return nil, err
		}

		tiers, _ := s.StorageTiersIn(dc1)
		for _, tier := range tiers {
			if err := s.SetStorageCost(dc1, tier, unif()); err != nil {
				return nil, err
			}
			if err := s.SetGetCost(dc1, tier, unif()); err != nil {
				return nil, err
			}
			if err := s.SetPutCost(dc1, tier, unif()); err != nil {
				return nil, err
			}
			if err := s.SetRetrieveCost(dc1, tier, unif()); err != nil {
				return nil, err
			}
			if err := s.SetWriteCost(dc1, tier, unif()); err != nil {
				return nil, err
			}
			if err := s.SetGetLatency(dc1, tier, unif()); err != nil {
				return nil, err
			}
			if err := s.SetPutLatency(dc1, tier, unif()); err != nil {
				return nil, err
			}
		}

		for _, dc2 := range s.DataCenters() {
			if dataCentersUsed[dc2] && dc1 == dc2 {
				continue
			}
			if err := s.SetNetworkCost(dc1, dc2, unif()); err != nil {
				return nil, err
			}
			if err := s.SetNetworkLatency(dc1, dc2, unif()); err != nil {
				return nil, err
			}
		}
		dataCentersUsed[dc1] = true
	}

	centers := s.DataCenters()
	if err := s.SetCenter(centers[rng.IntN(len(centers))]); err != nil {
		return nil, err
	}
	if err := s.SetSLAGet(3.5); err != nil {
		return nil, err
	}
	if err := s.SetSLAPut(3.5); err != nil {
		return nil, err
	}
	numDC := s.NumDataCenters()
	if err := s.SetLC(int(math.Ceil(float64(numDC) / 2))); err != nil {
		return nil, err
	}
	if err := s.SetF(numDC/2 - 1); err != nil {
		return nil, err
	}

	return s, nil
}
