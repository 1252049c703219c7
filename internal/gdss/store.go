// Package gdss is the Parameter Store for the Geo-Distributed Storage
// System: data centers, storage tiers, and the cost/latency/request
// parameters that the rest of the solver pipeline reads by index.
package gdss

import (
	"fmt"

	apperrors "github.com/geotier/solver/pkg/errors"
)

type pairKey struct {
	A, B string
}

// costTable is a map of (A, B) string pairs to a cost-like scalar, with
// set-once/get-if-present semantics matching the original parameter store.
type costTable map[pairKey]float64

func (t costTable) set(a, b string, v float64) error {
	k := pairKey{a, b}
	if _, ok := t[k]; ok {
		return fmt.Errorf("value already set for (%s, %s)", a, b)
	}
	t[k] = v
	return nil
}

func (t costTable) get(a, b string) (float64, error) {
	v, ok := t[pairKey{a, b}]
	if !ok {
		return 0, apperrors.Wrap(apperrors.CodeParameterMissing, fmt.Sprintf("value not set for (%s, %s)", a, b), nil)
	}
	return v, nil
}

// scalarTable is a map of a single string key to a scalar, same semantics.
type scalarTable map[string]float64

func (t scalarTable) set(k string, v float64) error {
	if _, ok := t[k]; ok {
		return fmt.Errorf("value already set for %s", k)
	}
	t[k] = v
	return nil
}

func (t scalarTable) get(k string) (float64, error) {
	v, ok := t[k]
	if !ok {
		return 0, apperrors.Wrap(apperrors.CodeParameterMissing, fmt.Sprintf("value not set for %s", k), nil)
	}
	return v, nil
}

// Store holds every parameter of one Geo-Distributed Storage System
// instance: the data center / storage tier topology, the cost and latency
// matrices, and the solve goals (locale count, fault tolerance, SLA,
// center DC). It is built once (via LoadJSON or NewRandomInstance) and is
// read-only for the rest of the pipeline.
type Store struct {
	dataCenters  []string
	storageTiers map[string][]string

	networkCost, storageCost                       costTable
	getCost, putCost, retrieveCost, writeCost      costTable
	networkLatency, getLatency, putLatency         costTable
	aveSize, getRequest, putRequest                scalarTable

	slaGet, slaPut           float64
	slaGetSet, slaPutSet     bool
	localeCount, faults      int
	localeCountSet, faultsSet bool
	center                  string
	centerSet               bool

	storageToIdx map[pairKey]int
	idxToStorage []pairKey
	dataToIdx    map[string]int
}

// New creates an empty Store, ready to be populated by AddStorageTier and
// the Set* methods, or via LoadJSON / NewRandomInstance.
func New() *Store {
	return &Store{
		storageTiers:   make(map[string][]string),
		networkCost:    make(costTable),
		storageCost:    make(costTable),
		getCost:        make(costTable),
		putCost:        make(costTable),
		retrieveCost:   make(costTable),
		writeCost:      make(costTable),
		networkLatency: make(costTable),
		getLatency:     make(costTable),
		putLatency:     make(costTable),
		aveSize:        make(scalarTable),
		getRequest:     make(scalarTable),
		putRequest:     make(scalarTable),
	}
}

func (s *Store) hasDataCenter(dc string) bool {
	for _, d := range s.dataCenters {
		if d == dc {
			return true
		}
	}
	return false
}

func (s *Store) hasStorageTier(dc, tier string) bool {
	for _, t := range s.storageTiers[dc] {
		if t == tier {
			return true
		}
	}
	return false
}

// AddStorageTier registers storageTier under dataCenter, creating the data
// center if it is new. Returns ErrParameterDuplicate if the tier already
// exists in that data center.
func (s *Store) AddStorageTier(dataCenter, storageTier string) error {
	if !s.hasDataCenter(dataCenter) {
		s.dataCenters = append(s.dataCenters, dataCenter)
		s.storageTiers[dataCenter] = nil
	}
	if s.hasStorageTier(dataCenter, storageTier) {
		return apperrors.Wrap(apperrors.CodeParameterDuplicate, fmt.Sprintf("%s already exists in %s", storageTier, dataCenter), nil)
	}
	s.storageTiers[dataCenter] = append(s.storageTiers[dataCenter], storageTier)
	return nil
}

// DataCenters returns the list of all data centers, in insertion order.
func (s *Store) DataCenters() []string {
	return append([]string(nil), s.dataCenters...)
}

// StorageTiersIn returns the storage tiers registered under dataCenter.
func (s *Store) StorageTiersIn(dataCenter string) ([]string, error) {
	if !s.hasDataCenter(dataCenter) {
		return nil, unknownDC(dataCenter)
	}
	return append([]string(nil), s.storageTiers[dataCenter]...), nil
}

func unknownDC(dc string) error {
	return apperrors.Wrap(apperrors.CodeUnknownDC, fmt.Sprintf("data center %s not found", dc), nil)
}

func unknownTier(dc, tier string) error {
	return apperrors.Wrap(apperrors.CodeUnknownTier, fmt.Sprintf("%s does not exist in %s", tier, dc), nil)
}

func (s *Store) checkDCTier(dc, tier string) error {
	if !s.hasDataCenter(dc) {
		return unknownDC(dc)
	}
	if !s.hasStorageTier(dc, tier) {
		return unknownTier(dc, tier)
	}
	return nil
}

func (s *Store) checkDCPair(dc1, dc2 string) error {
	if !s.hasDataCenter(dc1) {
		return unknownDC(dc1)
	}
	if !s.hasDataCenter(dc2) {
		return unknownDC(dc2)
	}
	return nil
}

// SetNetworkCost sets the network cost between two data centers.
func (s *Store) SetNetworkCost(dc1, dc2 string, cost float64) error {
	if err := s.checkDCPair(dc1, dc2); err != nil {
		return err
	}
	return s.networkCost.set(dc1, dc2, cost)
}

// NetworkCost returns the network cost between two data centers.
func (s *Store) NetworkCost(dc1, dc2 string) (float64, error) {
	if err := s.checkDCPair(dc1, dc2); err != nil {
		return 0, err
	}
	return s.networkCost.get(dc1, dc2)
}

// SetStorageCost sets the storage cost of storageTier in dataCenter.
func (s *Store) SetStorageCost(dataCenter, storageTier string, cost float64) error {
	if err := s.checkDCTier(dataCenter, storageTier); err != nil {
		return err
	}
	return s.storageCost.set(dataCenter, storageTier, cost)
}

// StorageCost returns the storage cost of storageTier in dataCenter.
func (s *Store) StorageCost(dataCenter, storageTier string) (float64, error) {
	if err := s.checkDCTier(dataCenter, storageTier); err != nil {
		return 0, err
	}
	return s.storageCost.get(dataCenter, storageTier)
}

// SetGetCost sets the get-request cost of storageTier in dataCenter.
func (s *Store) SetGetCost(dataCenter, storageTier string, cost float64) error {
	if err := s.checkDCTier(dataCenter, storageTier); err != nil {
		return err
	}
	return s.getCost.set(dataCenter, storageTier, cost)
}

// GetCost returns the get-request cost of storageTier in dataCenter.
func (s *Store) GetCost(dataCenter, storageTier string) (float64, error) {
	if err := s.checkDCTier(dataCenter, storageTier); err != nil {
		return 0, err
	}
	return s.getCost.get(dataCenter, storageTier)
}

// SetPutCost sets the put-request cost of storageTier in dataCenter.
func (s *Store) SetPutCost(dataCenter, storageTier string, cost float64) error {
	if err := s.checkDCTier(dataCenter, storageTier); err != nil {
		return err
	}
	return s.putCost.set(dataCenter, storageTier, cost)
}

// PutCost returns the put-request cost of storageTier in dataCenter.
func (s *Store) PutCost(dataCenter, storageTier string) (float64, error) {
	if err := s.checkDCTier(dataCenter, storageTier); err != nil {
		return 0, err
	}
	return s.putCost.get(dataCenter, storageTier)
}

// SetRetrieveCost sets the data-retrieval cost of storageTier in dataCenter.
func (s *Store) SetRetrieveCost(dataCenter, storageTier string, cost float64) error {
	if err := s.checkDCTier(dataCenter, storageTier); err != nil {
		return err
	}
	return s.retrieveCost.set(dataCenter, storageTier, cost)
}

// RetrieveCost returns the data-retrieval cost of storageTier in dataCenter.
func (s *Store) RetrieveCost(dataCenter, storageTier string) (float64, error) {
	if err := s.checkDCTier(dataCenter, storageTier); err != nil {
		return 0, err
	}
	return s.retrieveCost.get(dataCenter, storageTier)
}

// SetWriteCost sets the data-write cost of storageTier in dataCenter.
func (s *Store) SetWriteCost(dataCenter, storageTier string, cost float64) error {
	if err := s.checkDCTier(dataCenter, storageTier); err != nil {
		return err
	}
	return s.writeCost.set(dataCenter, storageTier, cost)
}

// WriteCost returns the data-write cost of storageTier in dataCenter.
func (s *Store) WriteCost(dataCenter, storageTier string) (float64, error) {
	if err := s.checkDCTier(dataCenter, storageTier); err != nil {
		return 0, err
	}
	return s.writeCost.get(dataCenter, storageTier)
}

// SetSLAGet sets the SLA latency bound for get requests. May be set once.
func (s *Store) SetSLAGet(sla float64) error {
	if s.slaGetSet {
		return apperrors.Wrap(apperrors.CodeParameterDuplicate, "SLA get already set", nil)
	}
	s.slaGet, s.slaGetSet = sla, true
	return nil
}

// SLAGet returns the SLA latency bound for get requests.
func (s *Store) SLAGet() (float64, error) {
	if !s.slaGetSet {
		return 0, apperrors.Wrap(apperrors.CodeParameterMissing, "SLA get not set", nil)
	}
	return s.slaGet, nil
}

// SetSLAPut sets the SLA latency bound for put requests. May be set once.
func (s *Store) SetSLAPut(sla float64) error {
	if s.slaPutSet {
		return apperrors.Wrap(apperrors.CodeParameterDuplicate, "SLA put already set", nil)
	}
	s.slaPut, s.slaPutSet = sla, true
	return nil
}

// SLAPut returns the SLA latency bound for put requests.
func (s *Store) SLAPut() (float64, error) {
	if !s.slaPutSet {
		return 0, apperrors.Wrap(apperrors.CodeParameterMissing, "SLA put not set", nil)
	}
	return s.slaPut, nil
}

// SetLC sets the locale count goal (minimum replicas per data center).
func (s *Store) SetLC(lc int) error {
	if s.localeCountSet {
		return apperrors.Wrap(apperrors.CodeParameterDuplicate, "locale count already set", nil)
	}
	s.localeCount, s.localeCountSet = lc, true
	return nil
}

// LC returns the locale count goal.
func (s *Store) LC() (int, error) {
	if !s.localeCountSet {
		return 0, apperrors.Wrap(apperrors.CodeParameterMissing, "locale count not set", nil)
	}
	return s.localeCount, nil
}

// SetF sets the minimum number of data center faults the placement must
// tolerate.
func (s *Store) SetF(f int) error {
	if s.faultsSet {
		return apperrors.Wrap(apperrors.CodeParameterDuplicate, "fault tolerance already set", nil)
	}
	s.faults, s.faultsSet = f, true
	return nil
}

// F returns the minimum number of data center faults tolerated.
func (s *Store) F() (int, error) {
	if !s.faultsSet {
		return 0, apperrors.Wrap(apperrors.CodeParameterMissing, "fault tolerance not set", nil)
	}
	return s.faults, nil
}

// SetCenter sets the central data center used by the strong-consistency SLA.
func (s *Store) SetCenter(dataCenter string) error {
	if s.centerSet {
		return apperrors.Wrap(apperrors.CodeParameterDuplicate, "center already set", nil)
	}
	if !s.hasDataCenter(dataCenter) {
		return unknownDC(dataCenter)
	}
	s.center, s.centerSet = dataCenter, true
	return nil
}

// Center returns the central data center.
func (s *Store) Center() (string, error) {
	if !s.centerSet {
		return "", apperrors.Wrap(apperrors.CodeParameterMissing, "center not set", nil)
	}
	return s.center, nil
}

// SetSize sets the average object size stored in dataCenter.
func (s *Store) SetSize(dataCenter string, size float64) error {
	if !s.hasDataCenter(dataCenter) {
		return unknownDC(dataCenter)
	}
	return s.aveSize.set(dataCenter, size)
}

// Size returns the average object size stored in dataCenter.
func (s *Store) Size(dataCenter string) (float64, error) {
	if !s.hasDataCenter(dataCenter) {
		return 0, unknownDC(dataCenter)
	}
	return s.aveSize.get(dataCenter)
}

// SetNetworkLatency sets the network latency between two data centers.
func (s *Store) SetNetworkLatency(dc1, dc2 string, latency float64) error {
	if err := s.checkDCPair(dc1, dc2); err != nil {
		return err
	}
	return s.networkLatency.set(dc1, dc2, latency)
}

// NetworkLatency returns the network latency between two data centers.
func (s *Store) NetworkLatency(dc1, dc2 string) (float64, error) {
	if err := s.checkDCPair(dc1, dc2); err != nil {
		return 0, err
	}
	return s.networkLatency.get(dc1, dc2)
}

// SetGetLatency sets the get-request latency of storageTier in dataCenter.
func (s *Store) SetGetLatency(dataCenter, storageTier string, latency float64) error {
	if err := s.checkDCTier(dataCenter, storageTier); err != nil {
		return err
	}
	return s.getLatency.set(dataCenter, storageTier, latency)
}

// GetLatency returns the get-request latency of storageTier in dataCenter.
func (s *Store) GetLatency(dataCenter, storageTier string) (float64, error) {
	if err := s.checkDCTier(dataCenter, storageTier); err != nil {
		return 0, err
	}
	return s.getLatency.get(dataCenter, storageTier)
}

// SetPutLatency sets the put-request latency of storageTier in dataCenter.
func (s *Store) SetPutLatency(dataCenter, storageTier string, latency float64) error {
	if err := s.checkDCTier(dataCenter, storageTier); err != nil {
		return err
	}
	return s.putLatency.set(dataCenter, storageTier, latency)
}

// PutLatency returns the put-request latency of storageTier in dataCenter.
func (s *Store) PutLatency(dataCenter, storageTier string) (float64, error) {
	if err := s.checkDCTier(dataCenter, storageTier); err != nil {
		return 0, err
	}
	return s.putLatency.get(dataCenter, storageTier)
}

// SetGetRequest sets the number of get requests originating at dataCenter.
func (s *Store) SetGetRequest(dataCenter string, count float64) error {
	if !s.hasDataCenter(dataCenter) {
		return unknownDC(dataCenter)
	}
	return s.getRequest.set(dataCenter, count)
}

// GetRequest returns the number of get requests originating at dataCenter.
func (s *Store) GetRequest(dataCenter string) (float64, error) {
	if !s.hasDataCenter(dataCenter) {
		return 0, unknownDC(dataCenter)
	}
	return s.getRequest.get(dataCenter)
}

// SetPutRequest sets the number of put requests originating at dataCenter.
func (s *Store) SetPutRequest(dataCenter string, count float64) error {
	if !s.hasDataCenter(dataCenter) {
		return unknownDC(dataCenter)
	}
	return s.putRequest.set(dataCenter, count)
}

// PutRequest returns the number of put requests originating at dataCenter.
func (s *Store) PutRequest(dataCenter string) (float64, error) {
	if !s.hasDataCenter(dataCenter) {
		return 0, unknownDC(dataCenter)
	}
	return s.putRequest.get(dataCenter)
}

// Update rebuilds the int index mappings used by the encoder. Must be
// called after the topology (data centers / storage tiers) is final and
// before any index-based accessor is used.
func (s *Store) Update() {
	s.storageToIdx = make(map[pairKey]int)
	s.idxToStorage = nil
	s.dataToIdx = make(map[string]int)

	for idx, dc := range s.dataCenters {
		for _, tier := range s.storageTiers[dc] {
			k := pairKey{dc, tier}
			s.storageToIdx[k] = len(s.idxToStorage)
			s.idxToStorage = append(s.idxToStorage, k)
		}
		s.dataToIdx[dc] = idx
	}
}

// NumDataCenters returns the number of data centers.
func (s *Store) NumDataCenters() int {
	return len(s.dataCenters)
}

// IdxDataCenter returns the index of dataCenter in DataCenters().
func (s *Store) IdxDataCenter(dataCenter string) (int, error) {
	idx, ok := s.dataToIdx[dataCenter]
	if !ok {
		return 0, unknownDC(dataCenter)
	}
	return idx, nil
}

// DataCenterAt returns the idx-th data center.
func (s *Store) DataCenterAt(idx int) (string, error) {
	if idx < 0 || idx >= len(s.dataCenters) {
		return "", fmt.Errorf("index %d out of range [0,%d)", idx, len(s.dataCenters))
	}
	return s.dataCenters[idx], nil
}

// NumStorageTiers returns the total number of (dataCenter, storageTier)
// pairs across the whole topology.
func (s *Store) NumStorageTiers() int {
	return len(s.idxToStorage)
}

// NumStorageTiersIn returns the number of storage tiers in dataCenter.
func (s *Store) NumStorageTiersIn(dataCenter string) (int, error) {
	if !s.hasDataCenter(dataCenter) {
		return 0, unknownDC(dataCenter)
	}
	return len(s.storageTiers[dataCenter]), nil
}

// NumStorageTiersAt returns the number of storage tiers in the idx-th data
// center.
func (s *Store) NumStorageTiersAt(idx int) (int, error) {
	dc, err := s.DataCenterAt(idx)
	if err != nil {
		return 0, err
	}
	return s.NumStorageTiersIn(dc)
}

// IdxStorageTierGlobal returns the global index of (dataCenter, storageTier)
// among all (dc, tier) pairs.
func (s *Store) IdxStorageTierGlobal(dataCenter, storageTier string) (int, error) {
	if err := s.checkDCTier(dataCenter, storageTier); err != nil {
		return 0, err
	}
	idx, ok := s.storageToIdx[pairKey{dataCenter, storageTier}]
	if !ok {
		return 0, fmt.Errorf("index not built, call Update first")
	}
	return idx, nil
}

// IdxStorageTierInDC returns the index of storageTier within dataCenter's
// own tier list.
func (s *Store) IdxStorageTierInDC(dataCenter, storageTier string) (int, error) {
	if err := s.checkDCTier(dataCenter, storageTier); err != nil {
		return 0, err
	}
	for i, t := range s.storageTiers[dataCenter] {
		if t == storageTier {
			return i, nil
		}
	}
	return 0, unknownTier(dataCenter, storageTier)
}

// StorageTierDCAt returns the data center of the idx-th (dc, tier) pair.
func (s *Store) StorageTierDCAt(idx int) (string, error) {
	if idx < 0 || idx >= len(s.idxToStorage) {
		return "", fmt.Errorf("index %d out of range [0,%d)", idx, len(s.idxToStorage))
	}
	return s.idxToStorage[idx].A, nil
}

// StorageTierNameAt returns the tier name of the idx-th (dc, tier) pair.
func (s *Store) StorageTierNameAt(idx int) (string, error) {
	if idx < 0 || idx >= len(s.idxToStorage) {
		return "", fmt.Errorf("index %d out of range [0,%d)", idx, len(s.idxToStorage))
	}
	return s.idxToStorage[idx].B, nil
}

// CheckAll verifies every parameter required by the encoder and constraint
// spec is present, returning ErrParameterMissing (wrapped with detail) at
// the first gap found.
func (s *Store) CheckAll() error {
	for _, dc1 := range s.dataCenters {
		if _, err := s.Size(dc1); err != nil {
			return err
		}
		if _, err := s.GetRequest(dc1); err != nil {
			return err
		}
		if _, err := s.PutRequest(dc1); err != nil {
			return err
		}
		for _, tier := range s.storageTiers[dc1] {
			if _, err := s.StorageCost(dc1, tier); err != nil {
				return err
			}
			if _, err := s.GetCost(dc1, tier); err != nil {
				return err
			}
			if _, err := s.PutCost(dc1, tier); err != nil {
				return err
			}
			if _, err := s.RetrieveCost(dc1, tier); err != nil {
				return err
			}
			if _, err := s.WriteCost(dc1, tier); err != nil {
				return err
			}
			if _, err := s.GetLatency(dc1, tier); err != nil {
				return err
			}
			if _, err := s.PutLatency(dc1, tier); err != nil {
				return err
			}
		}
		for _, dc2 := range s.dataCenters {
			if _, err := s.NetworkCost(dc1, dc2); err != nil {
				return err
			}
			if _, err := s.NetworkLatency(dc1, dc2); err != nil {
				return err
			}
		}
	}

	if _, err := s.Center(); err != nil {
		return err
	}
	if _, err := s.SLAGet(); err != nil {
		return err
	}
	if _, err := s.SLAPut(); err != nil {
		return err
	}
	if _, err := s.LC(); err != nil {
		return err
	}
	if _, err := s.F(); err != nil {
		return err
	}
	return nil
}
