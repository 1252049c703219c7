package gdss

import (
	"encoding/json"
	"fmt"
	"os"

	apperrors "github.com/geotier/solver/pkg/errors"
)

// costInfoEntry is one storage tier's cost block inside cost_info.json.
type costInfoEntry struct {
	StorageCost     float64 `json:"storage_cost"`
	GetRequestCost  float64 `json:"get_request_cost"`
	PutRequestCost  float64 `json:"put_request_cost"`
	DataRetrieval   float64 `json:"data_retrieval"`
	DataWrite       float64 `json:"data_write"`
}

type costInfoRegion struct {
	StorageCost map[string]costInfoEntry `json:"storage_cost"`
	NetworkCost map[string]float64       `json:"network_cost"`
}

type storageLatencyEntry struct {
	PutLatency float64 `json:"put_latency"`
	GetLatency float64 `json:"get_latency"`
}

type monitoringRegion struct {
	NetworkLatency map[string]float64            `json:"network_latency"`
	StorageLatency map[string]storageLatencyEntry `json:"storage_latency"`
}

type accessInfoEntry struct {
	GetAccessCnt float64 `json:"get_access_cnt"`
	PutAccessCnt float64 `json:"put_access_cnt"`
}

type queryDoc struct {
	ObjectSize float64                    `json:"object_size"`
	AccessInfo map[string]accessInfoEntry `json:"access_info"`
}

type goalsDoc struct {
	Center        string  `json:"center"`
	GetSLA        float64 `json:"get_sla"`
	PutSLA        float64 `json:"put_sla"`
	LC            int     `json:"lc"`
	DegreeOfFault int     `json:"degree_of_fault"`
}

func parseErr(doc string, err error) error {
	return apperrors.Wrap(apperrors.CodeJSONParse, fmt.Sprintf("failed to parse %s", doc), err)
}

// LoadJSON builds a Store from the four GDSS JSON documents (cost_info,
// monitoring_info, query, goals), per the wire schema accepted by the CLI.
func LoadJSON(costInfo, monitoringInfo, query, goals []byte) (*Store, error) {
	var costData map[string]costInfoRegion
	if err := json.Unmarshal(costInfo, &costData); err != nil {
		return nil, parseErr("cost_info", err)
	}
	var monitoringData map[string]monitoringRegion
	if err := json.Unmarshal(monitoringInfo, &monitoringData); err != nil {
		return nil, parseErr("monitoring_info", err)
	}
	var queryData queryDoc
	if err := json.Unmarshal(query, &queryData); err != nil {
		return nil, parseErr("query", err)
	}
	var goalsData goalsDoc
	if err := json.Unmarshal(goals, &goalsData); err != nil {
		return nil, parseErr("goals", err)
	}

	s := New()

	for dc, region := range costData {
		for tier, info := range region.StorageCost {
			if err := s.AddStorageTier(dc, tier); err != nil {
				return nil, err
			}
			if err := s.SetStorageCost(dc, tier, info.StorageCost); err != nil {
				return nil, err
			}
			if err := s.SetGetCost(dc, tier, info.GetRequestCost); err != nil {
				return nil, err
			}
			if err := s.SetPutCost(dc, tier, info.PutRequestCost); err != nil {
				return nil, err
			}
			if err := s.SetRetrieveCost(dc, tier, info.DataRetrieval); err != nil {
				return nil, err
			}
			if err := s.SetWriteCost(dc, tier, info.DataWrite); err != nil {
				return nil, err
			}
		}
	}
	for dc, region := range costData {
		for dc2, cost := range region.NetworkCost {
			if err := s.SetNetworkCost(dc, dc2, cost); err != nil {
				return nil, err
			}
		}
	}

	for dc, region := range monitoringData {
		for dc2, latency := range region.NetworkLatency {
			if err := s.SetNetworkLatency(dc, dc2, latency); err != nil {
				return nil, err
			}
		}
		for tier, entry := range region.StorageLatency {
			if err := s.SetPutLatency(dc, tier, entry.PutLatency); err != nil {
				return nil, err
			}
			if err := s.SetGetLatency(dc, tier, entry.GetLatency); err != nil {
				return nil, err
			}
		}
	}

	for _, dc := range s.DataCenters() {
		if err := s.SetSize(dc, queryData.ObjectSize); err != nil {
			return nil, err
		}
	}
	for dc, entry := range queryData.AccessInfo {
		if err := s.SetGetRequest(dc, entry.GetAccessCnt); err != nil {
			return nil, err
		}
		if err := s.SetPutRequest(dc, entry.PutAccessCnt); err != nil {
			return nil, err
		}
	}

	if err := s.SetCenter(goalsData.Center); err != nil {
		return nil, err
	}
	if err := s.SetSLAGet(goalsData.GetSLA); err != nil {
		return nil, err
	}
	if err := s.SetSLAPut(goalsData.PutSLA); err != nil {
		return nil, err
	}
	if err := s.SetLC(goalsData.LC); err != nil {
		return nil, err
	}
	if err := s.SetF(goalsData.DegreeOfFault); err != nil {
		return nil, err
	}

	s.Update()
	return s, nil
}

// LoadJSONFiles reads the four GDSS JSON documents from disk and builds a
// Store from them.
func LoadJSONFiles(costInfoPath, monitoringInfoPath, queryPath, goalsPath string) (*Store, error) {
	costInfo, err := os.ReadFile(costInfoPath)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeJSONParse, "failed to read cost_info", err)
	}
	monitoringInfo, err := os.ReadFile(monitoringInfoPath)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeJSONParse, "failed to read monitoring_info", err)
	}
	query, err := os.ReadFile(queryPath)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeJSONParse, "failed to read query", err)
	}
	goals, err := os.ReadFile(goalsPath)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeJSONParse, "failed to read goals", err)
	}
	return LoadJSON(costInfo, monitoringInfo, query, goals)
}
